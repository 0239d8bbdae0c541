package system

import (
	"testing"

	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/pattern"
	"github.com/milk9111/danmaku/prefabs"
)

func TestHomingConstructArrivesAsLifeEnds(t *testing.T) {
	f := newFixture()
	f.p1.C = &prefabs.AttackPatternSpec{
		Name:   "c",
		Kind:   prefabs.SkillRemoteBarrage,
		Recast: 10,
		Shots:  []prefabs.ShotSpec{singleShot("pellet", 1)},
		Params: map[string]any{"continuous": true, "duration": 1.0, "interval": 0.25},
	}
	w := f.world(t)
	owner := w.Combatant(common.TeamP1)
	opp := w.Combatant(common.TeamP2)

	events := stepCollect(w, 1, hold(3))
	if len(w.Constructs) != 1 {
		t.Fatalf("expected one construct, got %d", len(w.Constructs))
	}
	con := w.Constructs[0]
	if con.Mode != component.ConstructHomingFire || con.ClearsBullets() {
		t.Fatalf("expected a non-clearing homing construct, got %s", con.Mode)
	}
	if got := len(filter(events, ecs.EventProjectileSpawned)); got != 1 {
		t.Fatalf("homing construct should fire as soon as it spawns, got %d shots", got)
	}

	target := common.LerpVec(owner.Position, opp.Position, w.Arena().Construct.HomingBias)
	for i := 0; i < 90 && !con.Expiring; i++ {
		events = append(events, stepCollect(w, 1, hold(0))...)
	}
	if !con.Expiring {
		t.Fatalf("construct should expire after its life")
	}
	if d := con.Position.Dist(target); d > 1e-6 {
		t.Fatalf("construct expired %v away from %+v at %+v", d, target, con.Position)
	}
	if got := len(filter(events, ecs.EventProjectileSpawned)); got < 4 || got > 5 {
		t.Fatalf("expected 4 or 5 periodic shots, got %d", got)
	}
}

func TestTravelBurstFiresOnce(t *testing.T) {
	f := newFixture()
	f.p1.C = &prefabs.AttackPatternSpec{
		Name:   "c",
		Kind:   prefabs.SkillRemoteBarrage,
		Recast: 10,
		Shots: []prefabs.ShotSpec{{
			Bullet:  "pellet",
			Pattern: prefabs.PatternAllDirections,
			Ring:    prefabs.RingSpec{Count: 8},
			Speed:   prefabs.MotionSpec{Base: 1},
		}},
	}
	w := f.world(t)

	events := stepCollect(w, 200, holdFor(3, 1))
	if got := len(filter(events, ecs.EventConstructSpawned)); got != 1 {
		t.Fatalf("expected one construct, got %d", got)
	}
	if got := len(filter(events, ecs.EventProjectileSpawned)); got != 8 {
		t.Fatalf("expected one ring of 8, got %d", got)
	}
	if got := len(filter(events, ecs.EventConstructDestroyed)); got != 1 {
		t.Fatalf("construct should destroy itself once, got %d", got)
	}
	if len(w.Constructs) != 0 {
		t.Fatalf("expected no constructs left, got %d", len(w.Constructs))
	}
}

func TestTravelBurstSnapsToFloor(t *testing.T) {
	f := newFixture()
	f.p1.C = &prefabs.AttackPatternSpec{
		Name:   "c",
		Kind:   prefabs.SkillRemoteBarrage,
		Recast: 10,
		Shots:  []prefabs.ShotSpec{singleShot("pellet", 1)},
		Params: map[string]any{"snap_to_floor": true, "move_speed": 30.0},
	}
	w := f.world(t)

	stepCollect(w, 1, hold(3))
	con := w.Constructs[0]
	if con.Destination.Y != w.Arena().FloorY {
		t.Fatalf("expected destination on the floor, got %+v", con.Destination)
	}
	if con.TravelSpeed != 30 {
		t.Fatalf("expected travel speed 30, got %v", con.TravelSpeed)
	}
	if dx := con.Destination.X - 6; dx < -1.5 || dx > 1.5 {
		t.Fatalf("destination %v outside the jitter around the target", con.Destination.X)
	}
}

func TestManualConstructPushAndLaunch(t *testing.T) {
	t.Run("long_press", func(t *testing.T) {
		f := newFixture()
		f.p1.C = &prefabs.AttackPatternSpec{Name: "c", Kind: prefabs.SkillOrbitingConstruct}
		w := f.world(t)
		owner := w.Combatant(common.TeamP1)

		events := stepCollect(w, 40, hold(3))
		if len(w.Constructs) != 1 {
			t.Fatalf("expected one construct, got %d", len(w.Constructs))
		}
		con := w.Constructs[0]
		if !con.Pushing || con.Position.X <= owner.Position.X {
			t.Fatalf("held construct should push toward the opponent, at %+v", con.Position)
		}
		if got := len(filter(events, ecs.EventSkillFired)); got != 0 {
			t.Fatalf("construct should not fire while held")
		}

		events = stepCollect(w, 1, hold(0))
		if got := len(filter(events, ecs.EventSkillFired)); got != 1 {
			t.Fatalf("release should fire once, got %d", got)
		}
		params := owner.Spec.C.Construct
		if !con.Pushing || !con.Deployed || con.TargetRadius != params.LaunchedRadius {
			t.Fatalf("expected a deployed launched construct, got pushing=%v radius=%v", con.Pushing, con.TargetRadius)
		}
		if con.Mode != component.ConstructManualPush || !owner.Slots[2].Launched {
			t.Fatalf("long press should launch")
		}

		x, speed := con.Position.X, con.PushSpeed
		stepCollect(w, 5, hold(0))
		if con.Position.X <= x {
			t.Fatalf("launched construct should keep flying toward the opponent, %v -> %v", x, con.Position.X)
		}
		if con.PushSpeed < speed {
			t.Fatalf("launched construct should keep accelerating, %v -> %v", speed, con.PushSpeed)
		}

		bounds := w.Arena().Bounds
		for i := 0; i < 600 && !con.Destroyed; i++ {
			stepCollect(w, 1, hold(0))
			if con.Position.X > bounds.MaxX {
				t.Fatalf("launched construct left the arena at %v", con.Position.X)
			}
		}
		if con.Pushing {
			t.Fatalf("launched construct should stop at the edge or when it expires")
		}
	})

	t.Run("short_press", func(t *testing.T) {
		f := newFixture()
		f.p1.C = &prefabs.AttackPatternSpec{Name: "c", Kind: prefabs.SkillOrbitingConstruct}
		w := f.world(t)
		owner := w.Combatant(common.TeamP1)

		stepCollect(w, 3, hold(3))
		stepCollect(w, 1, hold(0))
		con := w.Constructs[0]
		if con.Mode != component.ConstructAnchored || con.TargetRadius != owner.Spec.C.Construct.AnchoredRadius {
			t.Fatalf("short press should anchor, got %s radius %v", con.Mode, con.TargetRadius)
		}

		owner.Position = common.Vec2{X: -3, Y: 1}
		stepCollect(w, 1, hold(0))
		if con.Position != owner.Position {
			t.Fatalf("anchored construct should follow its owner")
		}

		events := stepCollect(w, 300, hold(0))
		if got := len(filter(events, ecs.EventConstructDestroyed)); got != 1 {
			t.Fatalf("construct should expire after its duration, got %d", got)
		}
	})
}

func TestConstructClearsOpposingProjectiles(t *testing.T) {
	cases := []struct {
		name        string
		params      map[string]any
		wantCleared bool
	}{
		{"clearing", nil, true},
		{"non_clearing", map[string]any{"non_clearing": true}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture()
			f.p1.C = &prefabs.AttackPatternSpec{Name: "c", Kind: prefabs.SkillOrbitingConstruct, Params: c.params}
			w := f.world(t)

			stepCollect(w, 3, hold(3))
			stepCollect(w, 1, hold(0))

			pellet, _ := w.Library.Bullet("pellet")
			if _, ok := w.Realize(pattern.SpawnRequest{
				Bullet:   pellet,
				Position: common.Vec2{X: -5, Y: 1.5},
				Team:     common.TeamP2,
			}); !ok {
				t.Fatalf("realize failed")
			}

			events := stepCollect(w, 30, hold(0))
			cleared := len(filter(events, ecs.EventProjectileDestroyed)) == 1
			if cleared != c.wantCleared {
				t.Fatalf("cleared=%v, want %v", cleared, c.wantCleared)
			}
		})
	}
}
