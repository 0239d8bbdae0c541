package pattern

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/prefabs"
)

const eps = 1e-9

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func newRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func bullet() *prefabs.BulletSpec {
	return &prefabs.BulletSpec{Name: "pellet", Collider: prefabs.ColliderSpec{Shape: prefabs.ShapeCircle, Radius: 0.1}}
}

func TestNWaySpacing(t *testing.T) {
	cases := []struct {
		name   string
		count  int
		spread float64
		base   float64
		want   []float64
	}{
		{"five_by_forty", 5, 40, 0, []float64{-20, -10, 0, 10, 20}},
		{"three_around_90", 3, 20, 90, []float64{80, 90, 100}},
		{"single", 1, 40, 30, []float64{30}},
		{"zero_count_degenerates", 0, 40, 30, []float64{30}},
		{"negative_count_degenerates", -3, 40, 30, []float64{30}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := NWay(c.count, c.spread, c.base)
			if len(got) != len(c.want) {
				t.Fatalf("expected %d angles, got %v", len(c.want), got)
			}
			for i := range got {
				if math.Abs(got[i]-c.want[i]) > eps {
					t.Fatalf("angle %d: expected %v, got %v", i, c.want[i], got[i])
				}
			}
		})
	}
}

func TestRingEvenOffset(t *testing.T) {
	cases := []struct {
		name   string
		count  int
		offset bool
		want   []float64
	}{
		{"four_offset", 4, true, []float64{45, 135, 225, 315}},
		{"four_plain", 4, false, []float64{0, 90, 180, 270}},
		{"odd_ignores_offset", 3, true, []float64{0, 120, 240}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Ring(c.count, c.offset, 0)
			if len(got) != len(c.want) {
				t.Fatalf("expected %d angles, got %v", len(c.want), got)
			}
			for i := range got {
				if math.Abs(got[i]-c.want[i]) > eps {
					t.Fatalf("angle %d: expected %v, got %v", i, c.want[i], got[i])
				}
			}
		})
	}
}

func TestRandomGapDeadZone(t *testing.T) {
	rng := newRand()
	const (
		aim = 30.0
		gap = 60.0
	)
	got := RandomGap(10000, gap, aim, rng)
	if len(got) >= 10000 {
		t.Fatalf("expected some draws to be skipped, got %d", len(got))
	}
	if len(got) < 8000 {
		t.Fatalf("expected about 5/6 of draws to survive, got %d", len(got))
	}
	for _, a := range got {
		if math.Abs(common.DeltaAngle(a, aim)) < gap/2 {
			t.Fatalf("angle %v falls inside the gap around %v", a, aim)
		}
	}
}

func TestExpandRandomGapStaysOnTarget(t *testing.T) {
	shot := &prefabs.ShotSpec{
		Pattern:         prefabs.PatternRandomGap,
		Angle:           prefabs.AngleAim,
		Ring:            prefabs.RingSpec{Count: 10000},
		GapWidth:        20,
		RotationPerStep: 90,
		SpeedCount:      1,
		Speed:           prefabs.MotionSpec{Base: 3},
		BulletRef:       bullet(),
	}

	for _, step := range []int{0, 1, 3} {
		reqs := Expand(shot, Params{
			Target:    common.Vec2{X: 10},
			HasTarget: true,
			Step:      step,
		}, newRand())

		nearRotated := 0
		for _, r := range reqs {
			if math.Abs(common.DeltaAngle(r.Angle, 0)) < 10 {
				t.Fatalf("step %d: angle %v inside the gap around the target", step, r.Angle)
			}
			if math.Abs(common.DeltaAngle(r.Angle, 90*float64(step))) < 10 {
				nearRotated++
			}
		}
		if step%4 != 0 && nearRotated == 0 {
			t.Fatalf("step %d: the rotated heading should not be a gap", step)
		}
	}
}

func TestExpandSingleAimed(t *testing.T) {
	shot := &prefabs.ShotSpec{
		Pattern:     prefabs.PatternSingle,
		Angle:       prefabs.AngleAim,
		SpeedCount:  1,
		Speed:       prefabs.MotionSpec{Base: 5, Accel: 2, Max: 3},
		Angular:     prefabs.MotionSpec{Accel: 15, Max: 45},
		SpawnRadius: 0.5,
		LaunchDelay: 4,
		BulletRef:   bullet(),
	}
	reqs := Expand(shot, Params{
		Origin:    common.Vec2{X: 1, Y: 1},
		Target:    common.Vec2{X: 1, Y: 6},
		HasTarget: true,
		Team:      common.TeamP1,
		Step:      3,
	}, newRand())

	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(reqs))
	}
	r := reqs[0]
	if math.Abs(r.Angle-90) > eps {
		t.Fatalf("expected angle 90, got %v", r.Angle)
	}
	if math.Abs(r.Position.X-1) > 1e-6 || math.Abs(r.Position.Y-1.5) > 1e-6 {
		t.Fatalf("expected position (1, 1.5), got %+v", r.Position)
	}
	if r.Speed != 5 || r.Accel != 2 || r.MaxSpeed != 5 {
		t.Fatalf("unexpected speed state %+v", r)
	}
	if r.AngularAccel != 15 || r.AngularMax != 45 || r.LaunchDelay != 4 || r.Team != common.TeamP1 {
		t.Fatalf("unexpected request %+v", r)
	}
}

func TestExpandAimFallsBackToFixed(t *testing.T) {
	shot := &prefabs.ShotSpec{
		Pattern:    prefabs.PatternSingle,
		Angle:      prefabs.AngleAim,
		FixedAngle: 200,
		SpeedCount: 1,
		BulletRef:  bullet(),
	}
	reqs := Expand(shot, Params{}, newRand())
	if len(reqs) != 1 || reqs[0].Angle != 200 {
		t.Fatalf("expected fixed angle fallback, got %+v", reqs)
	}

	lock := 45.0
	reqs = Expand(shot, Params{AimLock: &lock, HasTarget: true, Target: common.Vec2{X: -1}}, newRand())
	if reqs[0].Angle != 45 {
		t.Fatalf("expected locked angle 45, got %v", reqs[0].Angle)
	}
}

func TestExpandRandomAngleRange(t *testing.T) {
	shot := &prefabs.ShotSpec{Pattern: prefabs.PatternSingle, Angle: prefabs.AngleRandom, SpeedCount: 1, BulletRef: bullet()}
	if got := Expand(shot, Params{}, fixedRand(0))[0].Angle; got != 1 {
		t.Fatalf("expected lower bound 1, got %v", got)
	}
	if got := Expand(shot, Params{}, fixedRand(0.5))[0].Angle; got != 180.5 {
		t.Fatalf("expected 180.5, got %v", got)
	}
}

func TestExpandNWayStepExpansion(t *testing.T) {
	override := 20.0
	shot := &prefabs.ShotSpec{
		Pattern:         prefabs.PatternNWay,
		Angle:           prefabs.AngleFixed,
		NWay:            prefabs.NWaySpec{Count: 3, Spread: 90, Expand: prefabs.NWayExpand{CountAdd: 2, SpreadAdd: 10}},
		RotationPerStep: 5,
		SpeedCount:      1,
		BulletRef:       bullet(),
	}
	reqs := Expand(shot, Params{Step: 1, SpreadOverride: &override}, newRand())
	if len(reqs) != 5 {
		t.Fatalf("expected 5 bullets at step 1, got %d", len(reqs))
	}
	// spread 20 + 10, centred on 5
	if math.Abs(reqs[0].Angle-(-10)) > eps || math.Abs(reqs[4].Angle-20) > eps {
		t.Fatalf("unexpected edges %v .. %v", reqs[0].Angle, reqs[4].Angle)
	}
}

func TestExpandSpeedTiers(t *testing.T) {
	shot := &prefabs.ShotSpec{
		Pattern:    prefabs.PatternAllDirections,
		Ring:       prefabs.RingSpec{Count: 4},
		SpeedCount: 3,
		Speed:      prefabs.MotionSpec{Base: 2},
		SpeedMax:   6,
		BulletRef:  bullet(),
	}
	reqs := Expand(shot, Params{}, newRand())
	if len(reqs) != 12 {
		t.Fatalf("expected 12 bullets, got %d", len(reqs))
	}
	want := []float64{2, 4, 6}
	for tier, speed := range want {
		for i := 0; i < 4; i++ {
			if got := reqs[tier*4+i].Speed; math.Abs(got-speed) > eps {
				t.Fatalf("tier %d bullet %d: expected speed %v, got %v", tier, i, speed, got)
			}
		}
	}
}

func TestExpandJitterBounds(t *testing.T) {
	shot := &prefabs.ShotSpec{
		Pattern:    prefabs.PatternSingle,
		FixedAngle: 10,
		SpeedCount: 1,
		Speed:      prefabs.MotionSpec{Base: 5},
		Jitter:     prefabs.JitterSpec{Angle: 3, Speed: 0.5},
		BulletRef:  bullet(),
	}
	rng := newRand()
	for i := 0; i < 500; i++ {
		r := Expand(shot, Params{}, rng)[0]
		if r.Angle < 7 || r.Angle > 13 || r.Speed < 4.5 || r.Speed > 5.5 {
			t.Fatalf("jitter out of range: angle %v speed %v", r.Angle, r.Speed)
		}
	}
}

func TestExpandUnresolvedShot(t *testing.T) {
	if reqs := Expand(&prefabs.ShotSpec{Bullet: "missing"}, Params{}, newRand()); reqs != nil {
		t.Fatalf("expected no requests, got %v", reqs)
	}
	if reqs := Expand(nil, Params{}, newRand()); reqs != nil {
		t.Fatalf("expected no requests for nil shot, got %v", reqs)
	}
}
