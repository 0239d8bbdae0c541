package system

import (
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/pattern"
)

// ConstructSystem moves, sizes and retires orbiting constructs and fires
// the ones that carry shots.
type ConstructSystem struct{}

func NewConstructSystem() *ConstructSystem {
	return &ConstructSystem{}
}

func (s *ConstructSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DT()
	tuning := w.Arena().Construct
	for _, c := range w.Constructs {
		if c.Destroyed {
			continue
		}
		c.Rotation = common.NormalizeAngle(c.Rotation + tuning.RotationSpeed*dt)

		switch c.Mode {
		case component.ConstructAnchored:
			if c.Owner != nil {
				c.Position = c.Owner.Position
			}
		case component.ConstructManualPush:
			s.push(w, c, dt)
		case component.ConstructHomingFire:
			s.home(w, c, dt)
		case component.ConstructTravelBurst:
			s.travel(w, c, dt)
		}

		if c.Deployed && !c.Expiring {
			c.Countdown -= dt
			if c.Countdown <= 0 {
				c.Expire()
			}
		}

		rate := tuning.ExpandRate
		if c.TargetRadius < c.Radius {
			rate = tuning.ShrinkRate
		}
		c.Radius += (c.TargetRadius - c.Radius) * min(1, dt*rate)

		if c.Expiring && c.Radius < tuning.DespawnRadius {
			w.DestroyConstruct(c)
		}
	}
}

func (s *ConstructSystem) push(w *ecs.World, c *component.Construct, dt float64) {
	tuning := w.Arena().Construct
	if c.Expiring {
		c.Pushing = false
		return
	}
	if !c.Pushing {
		if !c.Deployed && c.Owner != nil {
			c.Position = c.Owner.Position
		}
		return
	}
	c.PushSpeed = min(tuning.ManualStartSpeed+tuning.ManualAccel*c.PushElapsed, tuning.ManualMaxSpeed)
	c.PushElapsed += dt
	c.Position.X += c.Direction * c.PushSpeed * dt

	bounds := w.Arena().Bounds
	if c.Position.X < bounds.MinX || c.Position.X > bounds.MaxX {
		c.Position.X = min(max(c.Position.X, bounds.MinX), bounds.MaxX)
		c.Pushing = false
	}
}

// home steers toward a point between the owner and its opponent so the
// construct arrives as its life runs out.
func (s *ConstructSystem) home(w *ecs.World, c *component.Construct, dt float64) {
	tuning := w.Arena().Construct
	if c.Expiring {
		return
	}
	if c.Owner != nil {
		target := c.Owner.Position
		if opp := w.Opponent(c.Owner); opp != nil {
			target = common.LerpVec(c.Owner.Position, opp.Position, tuning.HomingBias)
		}
		speed := c.Position.Dist(target) / max(c.Life, 0.01)
		c.Position = common.MoveTowardsVec(c.Position, target, speed*dt)
	}

	c.Life -= dt
	if c.Life <= 0 {
		c.Expire()
		return
	}

	c.FireTimer -= dt
	if c.FireTimer <= 0 {
		c.FireTimer = c.FireInterval
		s.fire(w, c)
	}
}

func (s *ConstructSystem) travel(w *ecs.World, c *component.Construct, dt float64) {
	tuning := w.Arena().Construct
	if c.Expiring {
		return
	}
	if !c.Arrived {
		c.Position = common.MoveTowardsVec(c.Position, c.Destination, c.TravelSpeed*dt)
		if c.Position.Dist(c.Destination) < 0.01 {
			c.Position = c.Destination
			c.Arrived = true
			c.Deploy(c.DeployRadius, c.DeployTime)
			c.Dwell = tuning.DwellSeconds
		}
		return
	}
	if c.Fired {
		return
	}
	c.Dwell -= dt
	if c.Dwell <= 0 {
		c.Fired = true
		s.fire(w, c)
		c.Expire()
	}
}

func (s *ConstructSystem) fire(w *ecs.World, c *component.Construct) {
	params := pattern.Params{Origin: c.Position, Team: c.Team}
	if c.Owner != nil {
		params.Target, params.HasTarget = c.Owner.Aim()
	}
	for i := range c.Shots {
		w.FireShot(&c.Shots[i], params)
	}
}
