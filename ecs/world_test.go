package ecs

import (
	"testing"

	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/pattern"
	"github.com/milk9111/danmaku/prefabs"
)

type countingSystem struct {
	ticks []uint64
}

func (s *countingSystem) Update(w *World) {
	s.ticks = append(s.ticks, w.Tick)
}

func newTestWorld(t *testing.T) *World {
	t.Helper()
	lib, err := prefabs.NewLibrary(prefabs.ArenaSpec{}, []*prefabs.BulletSpec{{Name: "pellet"}}, []*prefabs.CharacterSpec{
		{Name: "one", Z: &prefabs.AttackPatternSpec{Name: "z", Recast: 2}},
		{Name: "two"},
	})
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	w := NewWorld(lib, 1)
	one, _ := lib.Character("one")
	two, _ := lib.Character("two")
	w.AddCombatant(one, common.TeamP1)
	w.AddCombatant(two, common.TeamP2)
	return w
}

func pelletRequest(w *World, team common.Team, delay int) pattern.SpawnRequest {
	b, _ := w.Library.Bullet("pellet")
	return pattern.SpawnRequest{Bullet: b, Team: team, LaunchDelay: delay}
}

func TestWorldCombatantsTargetEachOther(t *testing.T) {
	w := newTestWorld(t)
	p1 := w.Combatant(common.TeamP1)
	p2 := w.Combatant(common.TeamP2)

	if p1.Position != w.Arena().Spawns[0] || p2.Position != w.Arena().Spawns[1] {
		t.Fatalf("combatants should start on their spawn points")
	}
	if p2.Facing != -1 {
		t.Fatalf("P2 should face left")
	}
	aim, ok := p1.Aim()
	if !ok || aim != p2.Position {
		t.Fatalf("P1 should aim at P2, got %+v %v", aim, ok)
	}
	p2.Position = common.Vec2{X: 1, Y: 2}
	if aim, _ := p1.Aim(); aim != p2.Position {
		t.Fatalf("aim should track the opponent body")
	}
	if w.Opponent(p2) != p1 {
		t.Fatalf("P2's opponent should be P1")
	}
}

func TestWorldStepSchedulesAndStamps(t *testing.T) {
	w := newTestWorld(t)
	sys := &countingSystem{}
	w.AddSystem(sys)
	w.AddSystem(nil)

	w.Step(1.0 / 60)
	w.Emit(Event{Kind: EventSkillFired})
	evts := w.Events().Peek()
	if len(evts) != 1 || evts[0].Tick != 1 || evts[0].Round != w.Round {
		t.Fatalf("expected an event stamped with tick 1 and the round, got %+v", evts)
	}

	w.TimeScale = 0
	w.Step(1.0 / 60)
	if w.Tick != 1 || len(sys.ticks) != 1 {
		t.Fatalf("paused step should not advance, tick=%d runs=%d", w.Tick, len(sys.ticks))
	}
	if w.Events().Len() != 0 {
		t.Fatalf("events should be flushed at the start of a step")
	}

	w.TimeScale = 0.5
	w.Step(1.0 / 60)
	if w.DT() != 0.5/60 {
		t.Fatalf("expected scaled dt, got %v", w.DT())
	}
}

func TestWorldSpawnDelayedAndImmediate(t *testing.T) {
	w := newTestWorld(t)

	w.Spawn(pelletRequest(w, common.TeamP1, 0))
	if w.Pool.ActiveCount() != 1 || w.Physics.Len() != 1 {
		t.Fatalf("immediate spawn should realize at once")
	}
	w.Spawn(pelletRequest(w, common.TeamP1, 30))
	if len(w.Pending) != 1 || w.Pending[0].Remaining != 0.5 {
		t.Fatalf("delayed spawn should wait 0.5s, got %+v", w.Pending)
	}
	w.Spawn(pattern.SpawnRequest{})
	if w.Pool.ActiveCount() != 1 || len(w.Pending) != 1 {
		t.Fatalf("request without a bullet should be ignored")
	}
}

func TestWorldCancelAll(t *testing.T) {
	w := newTestWorld(t)
	p1 := w.Combatant(common.TeamP1)
	p2 := w.Combatant(common.TeamP2)

	p1.Slots[0].StartRecast()
	w.Spawn(pelletRequest(w, common.TeamP1, 10))
	w.Spawn(pelletRequest(w, common.TeamP2, 10))
	own := &component.Construct{Owner: p1, Team: p1.Team}
	other := &component.Construct{Owner: p2, Team: p2.Team}
	w.AddConstruct(own)
	w.AddConstruct(other)

	w.CancelAll(p1)
	if p1.Slots[0].Phase != component.SlotIdle || p1.Slots[0].RecastTimer != 0 {
		t.Fatalf("slot not reset: %s %v", p1.Slots[0].Phase, p1.Slots[0].RecastTimer)
	}
	if !own.Destroyed || other.Destroyed {
		t.Fatalf("only the combatant's constructs should be destroyed")
	}
	if len(w.Pending) != 1 || w.Pending[0].Request.Team != common.TeamP2 {
		t.Fatalf("only the combatant's pending spawns should be dropped, got %+v", w.Pending)
	}

	w.Step(1.0 / 60)
	if len(w.Constructs) != 1 || w.Constructs[0] != other {
		t.Fatalf("sweep should drop destroyed constructs")
	}
}

func TestWorldResetRound(t *testing.T) {
	w := newTestWorld(t)
	p1 := w.Combatant(common.TeamP1)
	round := w.Round

	w.Spawn(pelletRequest(w, common.TeamP1, 0))
	w.Spawn(pelletRequest(w, common.TeamP2, 5))
	w.AddAssault(&component.Assault{Owner: p1, Team: p1.Team})
	p1.Health = 1
	p1.Gauge = 50
	p1.Position = common.Vec2{X: 3}
	p1.Slots[0].StartRecast()

	w.ResetRound()
	if w.Round == round {
		t.Fatalf("reset should start a new round")
	}
	if w.Pool.ActiveCount() != 0 || w.Physics.Len() != 0 || len(w.Pending) != 0 || len(w.Assaults) != 0 {
		t.Fatalf("reset should clear the field")
	}
	if p1.Health != p1.Spec.MaxHealth || p1.Gauge != 0 || p1.Position != w.Arena().Spawns[0] {
		t.Fatalf("combatant not restored: %+v", p1)
	}
	if !p1.Slots[0].Ready() {
		t.Fatalf("slots should be ready after a reset")
	}
	evts := w.Events().Peek()
	if len(evts) == 0 || evts[len(evts)-1].Kind != EventRoundReset || evts[len(evts)-1].Round != w.Round {
		t.Fatalf("expected a round_reset event for the new round")
	}
}

func TestWorldSetLibraryRebindsPatterns(t *testing.T) {
	w := newTestWorld(t)
	p1 := w.Combatant(common.TeamP1)
	p1.Slots[0].StartRecast()

	lib, err := prefabs.NewLibrary(prefabs.ArenaSpec{GaugeMax: 50}, nil, []*prefabs.CharacterSpec{
		{Name: "one", Z: &prefabs.AttackPatternSpec{Name: "z2", Recast: 4}},
	})
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	w.SetLibrary(lib)

	if p1.Slots[0].Pattern.Name != "z2" || p1.GaugeMax != 50 {
		t.Fatalf("expected the reloaded pattern, got %s", p1.Slots[0].Pattern.Name)
	}
	if p1.Slots[0].RecastTimer != 2 {
		t.Fatalf("reload should keep timers, got %v", p1.Slots[0].RecastTimer)
	}
	if w.Combatant(common.TeamP2).Spec.Name != "two" {
		t.Fatalf("missing character should keep its old spec")
	}
}
