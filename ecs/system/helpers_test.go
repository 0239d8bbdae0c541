package system

import (
	"testing"

	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/prefabs"
)

const tick = 1.0 / 60.0

type fixture struct {
	lib    *prefabs.Library
	bullet map[string]*prefabs.BulletSpec
	arena  prefabs.ArenaSpec
	p1, p2 *prefabs.CharacterSpec
}

func newFixture() *fixture {
	return &fixture{
		bullet: map[string]*prefabs.BulletSpec{
			"pellet": {Name: "pellet"},
		},
		arena: prefabs.ArenaSpec{
			Spawns: []common.Vec2{{X: -6, Y: 0}, {X: 6, Y: 0}},
		},
		p1: &prefabs.CharacterSpec{Name: "one"},
		p2: &prefabs.CharacterSpec{Name: "two"},
	}
}

func (f *fixture) world(t *testing.T) *ecs.World {
	t.Helper()
	bullets := make([]*prefabs.BulletSpec, 0, len(f.bullet))
	for _, b := range f.bullet {
		bullets = append(bullets, b)
	}
	lib, err := prefabs.NewLibrary(f.arena, bullets, []*prefabs.CharacterSpec{f.p1, f.p2})
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	f.lib = lib
	w := ecs.NewWorld(lib, 7)
	w.AddCombatant(f.p1, common.TeamP1)
	w.AddCombatant(f.p2, common.TeamP2)
	Install(w, nil)
	return w
}

func singleShot(bullet string, speed float64) prefabs.ShotSpec {
	return prefabs.ShotSpec{
		Bullet:  bullet,
		Pattern: prefabs.PatternSingle,
		Angle:   prefabs.AngleAim,
		Speed:   prefabs.MotionSpec{Base: speed},
	}
}

// stepCollect runs n ticks with input held on team P1 and returns every
// event emitted.
func stepCollect(w *ecs.World, n int, input func(i int) int) []ecs.Event {
	var out []ecs.Event
	c := w.Combatant(common.TeamP1)
	for i := 0; i < n; i++ {
		if input != nil {
			c.Input = input(i)
		}
		w.Step(tick)
		out = append(out, w.Events().Drain()...)
	}
	return out
}

func hold(slot int) func(int) int {
	return func(int) int { return slot }
}

func holdFor(slot, ticks int) func(int) int {
	return func(i int) int {
		if i < ticks {
			return slot
		}
		return 0
	}
}

func filter(events []ecs.Event, kind ecs.EventKind) []ecs.Event {
	var out []ecs.Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func projectiles(w *ecs.World) []*component.Projectile {
	var out []*component.Projectile
	w.Pool.Each(func(_ ecs.Entity, p *component.Projectile) {
		out = append(out, p)
	})
	return out
}

func float64Ptr(f float64) *float64 {
	return &f
}

func stringPtr(s string) *string {
	return &s
}
