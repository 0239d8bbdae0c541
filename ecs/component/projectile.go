package component

import (
	"math"

	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/pattern"
	"github.com/milk9111/danmaku/prefabs"
)

type ProjectilePhase uint8

const (
	PhaseFree ProjectilePhase = iota
	PhasePreparing
	PhaseActive
	PhaseClosing
)

func (p ProjectilePhase) String() string {
	switch p {
	case PhasePreparing:
		return "preparing"
	case PhaseActive:
		return "active"
	case PhaseClosing:
		return "closing"
	default:
		return "free"
	}
}

// Projectile is one pooled bullet. Every field is overwritten by Launch.
type Projectile struct {
	Spec *prefabs.BulletSpec
	Team common.Team

	Position     common.Vec2
	Speed        float64
	Accel        float64
	MaxSpeed     float64
	Angle        float64
	LaunchAngle  float64
	AngularAccel float64
	AngularMax   float64

	// Elapsed counts seconds since launch while preparing or active.
	Elapsed       float64
	NextStep      int
	LifeTimer     float64
	SubSpawnTimer float64

	Phase       ProjectilePhase
	EffectTimer float64
	// Effect is the current startup effect value.
	Effect float64

	RotationMode prefabs.RotationMode
	SpinSpeed    float64
	Rotation     float64
	// Tilt is the out-of-plane rotation in degrees around X and Y, set by
	// rotate_x and rotate_y startup effects.
	Tilt           common.Vec2
	Scale          common.Vec2
	ColliderRadius float64
	Sprite         string
	Order          int

	Velocity     common.Vec2
	LastVelocity common.Vec2
	Acceleration common.Vec2

	// Grazed is indexed by common.Team.Index.
	Grazed     [2]bool
	BornTick   uint64
	Collidable bool
}

// Launch resets p from a spawn request.
func (p *Projectile) Launch(req pattern.SpawnRequest, order int, tick uint64) {
	spec := req.Bullet
	*p = Projectile{
		Spec:           spec,
		Team:           req.Team,
		Position:       req.Position,
		Speed:          req.Speed,
		Accel:          req.Accel,
		MaxSpeed:       req.MaxSpeed,
		Angle:          req.Angle,
		LaunchAngle:    req.Angle,
		AngularAccel:   req.AngularAccel,
		AngularMax:     req.AngularMax,
		RotationMode:   spec.Rotation,
		SpinSpeed:      spec.SpinSpeed,
		Scale:          spec.Scale,
		ColliderRadius: spec.Collider.Radius,
		Sprite:         spec.Sprite,
		Order:          order,
		BornTick:       tick,
	}
	p.Velocity = common.FromAngle(p.Angle).Scale(p.Speed)
	p.LastVelocity = p.Velocity
	p.Rotation = p.faceAngle()

	if spec.Startup.Enabled() {
		p.Phase = PhasePreparing
		p.applyStartup(0, 0)
		return
	}
	p.Phase = PhaseActive
	p.Collidable = true
}

func (p *Projectile) Alive() bool {
	return p.Phase != PhaseFree
}

// Frames is the whole number of ticks elapsed since launch.
func (p *Projectile) Frames() int {
	return int(math.Floor(p.Elapsed*common.TicksPerSecond + 1e-9))
}

// Prepare advances the startup effect. It reports true once the
// projectile has become active.
func (p *Projectile) Prepare(dt float64) bool {
	t := p.advanceEffect(dt)
	p.applyStartup(t, dt)
	if t < 1 {
		return false
	}
	p.Phase = PhaseActive
	p.EffectTimer = 0
	p.Collidable = true
	return true
}

// Close plays the startup effect backward. It reports true when the
// projectile should be released.
func (p *Projectile) Close(dt float64) bool {
	t := p.advanceEffect(dt)
	p.applyStartup(1-t, dt)
	return t >= 1
}

// advanceEffect adds dt to the effect timer and returns progress in
// [0, 1], counted in whole frames.
func (p *Projectile) advanceEffect(dt float64) float64 {
	fx := p.Spec.Startup
	p.EffectTimer += dt
	frames := p.EffectTimer*common.TicksPerSecond + 1e-6
	return common.Clamp01(frames / float64(fx.DurationFrames))
}

// applyStartup sets the effect value for progress t and applies it
// according to the effect type.
func (p *Projectile) applyStartup(t, dt float64) {
	fx := p.Spec.Startup
	p.Effect = common.Lerp(fx.Start, fx.End, t)
	switch fx.Type {
	case prefabs.StartupTranslate:
		p.Position = p.Position.Add(common.FromAngle(p.Angle).Scale(p.Effect * dt))
	case prefabs.StartupRotateX:
		p.Tilt.X = p.Effect
		p.Rotation = p.faceAngle()
	case prefabs.StartupRotateY:
		p.Tilt.Y = p.Effect
		p.Rotation = p.faceAngle()
	case prefabs.StartupRotateZ:
		p.Rotation = p.Effect
	case prefabs.StartupScale:
		p.Scale = p.Spec.Scale.Scale(p.Effect)
	}
}

// Deactivate starts the close animation when the bullet has one and
// reports whether the projectile must be released right away. Calls while
// closing or free are ignored.
func (p *Projectile) Deactivate() (releaseNow bool) {
	if p.Phase == PhaseClosing || p.Phase == PhaseFree {
		return false
	}
	p.Collidable = false
	if p.Spec != nil && p.Spec.Startup.Enabled() {
		p.Phase = PhaseClosing
		p.EffectTimer = 0
		p.Effect = p.Spec.Startup.End
		return false
	}
	return true
}

// Integrate advances speed, heading and position by dt.
func (p *Projectile) Integrate(dt float64) {
	p.Speed += p.Accel * dt
	if p.MaxSpeed != 0 && p.Speed > p.MaxSpeed {
		p.Speed = p.MaxSpeed
	}

	p.Angle += p.AngularAccel * dt
	if p.AngularMax != 0 {
		limit := math.Abs(p.AngularMax)
		turned := p.Angle - p.LaunchAngle
		if turned > limit {
			p.Angle = p.LaunchAngle + limit
		} else if turned < -limit {
			p.Angle = p.LaunchAngle - limit
		}
	}

	p.LastVelocity = p.Velocity
	p.Velocity = common.FromAngle(p.Angle).Scale(p.Speed)
	if dt > 0 {
		p.Acceleration = p.Velocity.Sub(p.LastVelocity).Scale(1 / dt)
	}
	p.Position = p.Position.Add(p.Velocity.Scale(dt))

	switch p.RotationMode {
	case prefabs.RotationConstantSpin:
		p.Rotation = common.NormalizeAngle(p.Rotation + p.SpinSpeed*dt)
	case prefabs.RotationFaceMovement:
		p.Rotation = p.faceAngle()
	}
}

// ApplyStep applies one mutation step. aim is the heading toward the
// current target, used when the step re-aims. It reports whether the
// collider changed.
func (p *Projectile) ApplyStep(step *prefabs.MutationStep, aim float64, hasAim bool) bool {
	colliderChanged := false
	if step.Sprite != nil {
		p.Sprite = *step.Sprite
	}
	if step.ColliderRadius != nil && *step.ColliderRadius != p.ColliderRadius {
		p.ColliderRadius = *step.ColliderRadius
		colliderChanged = true
	}
	if step.Scale != nil {
		p.Scale = *step.Scale
	}
	if t := step.Trajectory; t != nil {
		p.Speed = t.Speed
		p.Accel = t.Accel
		if p.MaxSpeed != 0 && p.Speed > p.MaxSpeed {
			p.MaxSpeed = p.Speed
		}
		switch {
		case t.AimAtTarget && hasAim:
			p.Angle = aim
		case t.Absolute:
			p.Angle = t.Angle
		default:
			p.Angle += t.Angle
		}
		p.LaunchAngle = p.Angle
	}
	if r := step.Rotation; r != nil {
		p.RotationMode = r.Mode
		p.SpinSpeed = r.SpinSpeed
	}
	return colliderChanged
}

// faceAngle is the sprite rotation that points its top along the heading.
func (p *Projectile) faceAngle() float64 {
	return p.Angle - 90
}
