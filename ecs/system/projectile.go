package system

import (
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/pattern"
)

// ProjectileSystem advances every live projectile: startup and close
// effects, lifespan, mutation steps, motion, sub-shots and the play-field
// bounds. Colliders are synced and reindexed at the end.
type ProjectileSystem struct{}

func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DT()
	bounds := w.Arena().Bounds
	w.Pool.Each(func(e ecs.Entity, p *component.Projectile) {
		if p.BornTick == w.Tick {
			return
		}

		switch p.Phase {
		case component.PhasePreparing:
			p.Elapsed += dt
			p.Prepare(dt)
			return
		case component.PhaseClosing:
			if p.Close(dt) {
				w.Retire(e, true)
			}
			return
		case component.PhaseActive:
		default:
			return
		}

		p.Elapsed += dt
		spec := p.Spec
		if spec.HasLifespan() {
			p.LifeTimer += dt
			if p.LifeTimer >= spec.Lifespan {
				w.Deactivate(e)
				return
			}
		}

		target, hasTarget := opposingPosition(w, p.Team)
		for p.NextStep < len(spec.Steps) && spec.Steps[p.NextStep].TriggerFrame <= p.Frames() {
			aim := 0.0
			if hasTarget {
				aim = target.Sub(p.Position).Angle()
			}
			p.ApplyStep(&spec.Steps[p.NextStep], aim, hasTarget)
			p.NextStep++
		}

		p.Integrate(dt)

		if spec.SpawnsSubShots() {
			p.SubSpawnTimer += dt
			if p.SubSpawnTimer >= common.FramesToSeconds(spec.SubShotInterval) {
				p.SubSpawnTimer = 0
				w.FireShot(spec.SubShot, pattern.Params{
					Origin:    p.Position,
					Team:      p.Team,
					Target:    target,
					HasTarget: hasTarget,
				})
			}
		}

		if !bounds.Contains(p.Position) {
			w.Retire(e, false)
			return
		}
		w.Physics.SyncProjectile(e, p)
	})
	w.Physics.Step(dt)
}

func opposingPosition(w *ecs.World, team common.Team) (common.Vec2, bool) {
	if c := w.Combatant(team.Opponent()); c != nil {
		return c.Position, true
	}
	return common.Vec2{}, false
}
