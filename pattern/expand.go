// Package pattern turns a shot description into spawn requests.
package pattern

import (
	"math"

	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/prefabs"
)

// Rand is the subset of *rand.Rand the generator draws from.
type Rand interface {
	Float64() float64
}

type Params struct {
	// Step is the zero-based index of the fire event inside its burst.
	Step int
	// SpreadOverride replaces the NWay spread when set.
	SpreadOverride *float64
	Origin         common.Vec2
	Team           common.Team
	// Target is the aim point; HasTarget false makes aimed shots fall back
	// to the fixed angle.
	Target    common.Vec2
	HasTarget bool
	// AimLock pins the base angle of aimed shots.
	AimLock *float64
}

type SpawnRequest struct {
	Bullet       *prefabs.BulletSpec
	Position     common.Vec2
	Angle        float64
	Speed        float64
	Accel        float64
	MaxSpeed     float64
	AngularAccel float64
	AngularMax   float64
	LaunchDelay  int
	Team         common.Team
}

// Expand generates every bullet of one shot. A nil shot or a shot without
// a resolved bullet yields nothing.
func Expand(shot *prefabs.ShotSpec, p Params, rng Rand) []SpawnRequest {
	if shot == nil || shot.BulletRef == nil {
		return nil
	}

	aim := BaseAngle(shot, p, rng)
	base := aim
	if shot.Pattern != prefabs.PatternSingle {
		base += shot.RotationPerStep * float64(p.Step)
	}

	tiers := max(shot.SpeedCount, 1)
	var out []SpawnRequest
	for tier := 0; tier < tiers; tier++ {
		speed := shot.Speed.Base
		if tiers > 1 {
			speed = common.Lerp(shot.Speed.Base, shot.SpeedMax, float64(tier)/float64(tiers-1))
		}
		for _, angle := range fanOut(shot, p, base, aim, rng) {
			out = append(out, request(shot, p, angle, speed, rng))
		}
	}
	return out
}

// BaseAngle resolves the shot's angle source in degrees.
func BaseAngle(shot *prefabs.ShotSpec, p Params, rng Rand) float64 {
	switch shot.Angle {
	case prefabs.AngleAim:
		if p.AimLock != nil {
			return *p.AimLock
		}
		if p.HasTarget {
			return p.Target.Sub(p.Origin).Angle()
		}
		return shot.FixedAngle
	case prefabs.AngleRandom:
		return 1 + rng.Float64()*359
	default:
		return shot.FixedAngle
	}
}

// fanOut spreads base into the shot's pattern. The random-gap dead zone is
// centred on aim, which ignores per-step rotation.
func fanOut(shot *prefabs.ShotSpec, p Params, base, aim float64, rng Rand) []float64 {
	switch shot.Pattern {
	case prefabs.PatternNWay:
		spread := shot.NWay.Spread
		if p.SpreadOverride != nil {
			spread = *p.SpreadOverride
		}
		return NWay(shot.NWay.Count+shot.NWay.Expand.CountAdd*p.Step,
			spread+shot.NWay.Expand.SpreadAdd*float64(p.Step), base)
	case prefabs.PatternAllDirections:
		return Ring(shot.Ring.Count, shot.Ring.EvenOffset, base)
	case prefabs.PatternRandomGap:
		return RandomGap(shot.Ring.Count, shot.GapWidth, aim, rng)
	default:
		return []float64{base}
	}
}

// NWay spreads count angles evenly across spread degrees centred on base.
// A count below two collapses to the centre angle.
func NWay(count int, spread, base float64) []float64 {
	if count <= 1 {
		return []float64{base}
	}
	start := base - spread/2
	step := spread / float64(count-1)
	out := make([]float64, count)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Ring places count angles evenly around the circle. Even counts shift by
// half a step when evenOffset is set.
func Ring(count int, evenOffset bool, base float64) []float64 {
	count = max(count, 1)
	step := 360 / float64(count)
	offset := 0.0
	if evenOffset && count%2 == 0 {
		offset = step / 2
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = base + offset + step*float64(i)
	}
	return out
}

// RandomGap draws count uniform angles and drops the ones inside the gap
// around aim. Dropped draws are not retried.
func RandomGap(count int, gap, aim float64, rng Rand) []float64 {
	out := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		a := rng.Float64() * 360
		if math.Abs(common.DeltaAngle(a, aim)) < gap/2 {
			continue
		}
		out = append(out, a)
	}
	return out
}

func request(shot *prefabs.ShotSpec, p Params, angle, speed float64, rng Rand) SpawnRequest {
	angle += jitter(shot.Jitter.Angle, rng)
	speed += jitter(shot.Jitter.Speed, rng)

	return SpawnRequest{
		Bullet:       shot.BulletRef,
		Position:     p.Origin.Add(common.FromAngle(angle).Scale(shot.SpawnRadius)),
		Angle:        angle,
		Speed:        speed,
		Accel:        shot.Speed.Accel,
		MaxSpeed:     math.Max(shot.Speed.Max, speed),
		AngularAccel: shot.Angular.Accel,
		AngularMax:   shot.Angular.Max,
		LaunchDelay:  shot.LaunchDelay,
		Team:         p.Team,
	}
}

func jitter(amount float64, rng Rand) float64 {
	if amount <= 0 {
		return 0
	}
	return (rng.Float64()*2 - 1) * amount
}
