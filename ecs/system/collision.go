package system

import (
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
)

// CollisionSystem resolves overlaps after everything has moved: constructs
// and assaults clearing bullets, combatant hits and grazes.
type CollisionSystem struct{}

func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{}
}

func (s *CollisionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, con := range w.Constructs {
		if con.ClearsBullets() {
			s.clearAround(w, con.Position, con.Radius, con.Team)
		}
	}

	for _, a := range w.Assaults {
		if a.Destroyed {
			continue
		}
		s.clearAround(w, a.Position, a.Radius, a.Team)
		opp := w.Combatant(a.Team.Opponent())
		if opp == nil || a.HasHit || opp.IsInvulnerable() {
			continue
		}
		if a.Position.Dist(opp.Position) <= a.Radius+opp.Spec.HitRadius {
			a.HasHit = true
			s.hit(w, opp, float64(a.Damage), ecs.Entity(a.ID), a.Position)
		}
	}

	for _, c := range w.Combatants {
		s.resolveHits(w, c)
		s.resolveGrazes(w, c)
	}
}

// clearAround deactivates every collidable projectile of the team opposing
// owner inside the circle.
func (s *CollisionSystem) clearAround(w *ecs.World, center common.Vec2, radius float64, owner common.Team) {
	w.Physics.OverlapCircle(center, radius, owner.Opponent(), func(e ecs.Entity) {
		if p, ok := w.Pool.Get(e); ok && p.Collidable {
			w.Deactivate(e)
		}
	})
}

func (s *CollisionSystem) resolveHits(w *ecs.World, c *component.Combatant) {
	w.Physics.OverlapCircle(c.Position, c.Spec.HitRadius, c.Team.Opponent(), func(e ecs.Entity) {
		p, ok := w.Pool.Get(e)
		if !ok || !p.Collidable || c.IsInvulnerable() {
			return
		}
		damage := 0.0
		if p.Spec != nil {
			damage = float64(p.Spec.Damage)
		}
		pos := p.Position
		w.Deactivate(e)
		s.hit(w, c, damage, e, pos)
	})
}

func (s *CollisionSystem) hit(w *ecs.World, c *component.Combatant, damage float64, source ecs.Entity, at common.Vec2) {
	c.Health -= damage
	c.Invulnerable = w.Arena().InvulnerableOnHit
	w.CancelAll(c)
	w.Emit(ecs.Event{Kind: ecs.EventCombatantHit, Team: c.Team, Entity: source, Position: at, Value: damage})
}

func (s *CollisionSystem) resolveGrazes(w *ecs.World, c *component.Combatant) {
	idx := c.Team.Index()
	w.Physics.OverlapCircle(c.Position, c.Spec.GrazeRadius, c.Team.Opponent(), func(e ecs.Entity) {
		p, ok := w.Pool.Get(e)
		if !ok || !p.Collidable || p.Grazed[idx] {
			return
		}
		p.Grazed[idx] = true
		w.AddGauge(c, w.Arena().GrazeGain)
		w.Emit(ecs.Event{Kind: ecs.EventGraze, Team: c.Team, Entity: e, Position: p.Position})
	})
}
