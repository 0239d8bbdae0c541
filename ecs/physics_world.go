package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/prefabs"
)

const projectileGroup uint = 1

type projectileBody struct {
	body   *cp.Body
	shape  *cp.Shape
	radius float64
}

// PhysicsWorld owns the Chipmunk space used for overlap triggers. Every
// live projectile has a kinematic body with a sensor shape; constructs,
// assaults and combatants query it with temporary circles. Nothing is
// simulated, bodies are moved by the projectile system.
type PhysicsWorld struct {
	space *cp.Space

	bodies        map[Entity]*projectileBody
	shapeToEntity map[*cp.Shape]Entity

	queryBody *cp.Body
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		space:         cp.NewSpace(),
		bodies:        make(map[Entity]*projectileBody),
		shapeToEntity: make(map[*cp.Shape]Entity),
		queryBody:     cp.NewKinematicBody(),
	}
}

func (pw *PhysicsWorld) Len() int {
	if pw == nil {
		return 0
	}
	return len(pw.bodies)
}

// AddProjectile registers a collider for a freshly launched projectile.
func (pw *PhysicsWorld) AddProjectile(e Entity, p *component.Projectile) {
	if pw == nil || p == nil || p.Spec == nil {
		return
	}
	pw.RemoveProjectile(e)

	body := cp.NewKinematicBody()
	pw.space.AddBody(body)
	pb := &projectileBody{body: body}
	pw.bodies[e] = pb
	pw.attachShape(e, pb, p)
	pw.place(pb, p)
}

// SyncProjectile moves the projectile's body and rebuilds its shape when a
// mutation changed the collider radius.
func (pw *PhysicsWorld) SyncProjectile(e Entity, p *component.Projectile) {
	if pw == nil || p == nil {
		return
	}
	pb, ok := pw.bodies[e]
	if !ok {
		return
	}
	if pb.radius != p.ColliderRadius {
		pw.detachShape(pb)
		pw.attachShape(e, pb, p)
	}
	pw.place(pb, p)
}

func (pw *PhysicsWorld) RemoveProjectile(e Entity) {
	if pw == nil {
		return
	}
	pb, ok := pw.bodies[e]
	if !ok {
		return
	}
	pw.detachShape(pb)
	pw.space.RemoveBody(pb.body)
	delete(pw.bodies, e)
}

// Clear removes every projectile collider.
func (pw *PhysicsWorld) Clear() {
	if pw == nil {
		return
	}
	for e := range pw.bodies {
		pw.RemoveProjectile(e)
	}
}

// Step reindexes the moved shapes. Call once per tick after projectiles
// have moved and before any overlap query.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.Step(dt)
}

// OverlapCircle reports every projectile of team whose collider overlaps
// the circle. Results are collected before fn runs so fn may deactivate
// projectiles.
func (pw *PhysicsWorld) OverlapCircle(center common.Vec2, radius float64, team common.Team, fn func(Entity)) {
	if pw == nil || radius <= 0 || len(pw.bodies) == 0 {
		return
	}
	pw.queryBody.SetPosition(cp.Vector{X: center.X, Y: center.Y})
	query := cp.NewCircle(pw.queryBody, radius, cp.Vector{})
	query.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, teamCategory(team)))

	var hits []Entity
	pw.space.ShapeQuery(query, func(shape *cp.Shape, _ *cp.ContactPointSet) {
		if e, ok := pw.shapeToEntity[shape]; ok {
			hits = append(hits, e)
		}
	})
	for _, e := range hits {
		fn(e)
	}
}

func (pw *PhysicsWorld) attachShape(e Entity, pb *projectileBody, p *component.Projectile) {
	shape := newColliderShape(pb.body, p.Spec.Collider, p.ColliderRadius)
	shape.SetSensor(true)
	shape.SetFilter(cp.NewShapeFilter(projectileGroup, teamCategory(p.Team), cp.ALL_CATEGORIES))
	pw.space.AddShape(shape)
	pb.shape = shape
	pb.radius = p.ColliderRadius
	pw.shapeToEntity[shape] = e
}

func (pw *PhysicsWorld) detachShape(pb *projectileBody) {
	if pb.shape == nil {
		return
	}
	delete(pw.shapeToEntity, pb.shape)
	pw.space.RemoveShape(pb.shape)
	pb.shape = nil
}

func (pw *PhysicsWorld) place(pb *projectileBody, p *component.Projectile) {
	pb.body.SetPosition(cp.Vector{X: p.Position.X, Y: p.Position.Y})
	pb.body.SetAngle(p.Rotation * common.Deg2Rad)
}

// newColliderShape builds the sensor for a bullet. Capsules run along the
// sprite's local Y axis, which face_movement keeps on the heading.
func newColliderShape(body *cp.Body, c prefabs.ColliderSpec, radius float64) *cp.Shape {
	offset := cp.Vector{X: c.Offset.X, Y: c.Offset.Y}
	switch c.Shape {
	case prefabs.ShapeCapsule:
		half := math.Max(c.Height/2-radius, 0)
		a := offset.Add(cp.Vector{Y: -half})
		b := offset.Add(cp.Vector{Y: half})
		return cp.NewSegment(body, a, b, radius)
	case prefabs.ShapePolygon:
		verts := make([]cp.Vector, len(c.Vertices))
		for i, v := range c.Vertices {
			verts[i] = cp.Vector{X: v.X + c.Offset.X, Y: v.Y + c.Offset.Y}
		}
		return cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), math.Max(radius, 0))
	default:
		return cp.NewCircle(body, math.Max(radius, 0.001), offset)
	}
}

func teamCategory(t common.Team) uint {
	return 1 << uint(t)
}
