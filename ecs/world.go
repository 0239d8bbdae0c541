package ecs

import (
	"errors"
	"log"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/pattern"
	"github.com/milk9111/danmaku/prefabs"
)

// PendingSpawn is a spawn request waiting out its launch delay.
type PendingSpawn struct {
	Request   pattern.SpawnRequest
	Remaining float64
	// Tick is when the request was queued; the delay starts counting on
	// the following tick.
	Tick uint64
}

// Snapshot is the kinematic state of one projectile for observers.
type Snapshot struct {
	Entity       Entity
	Team         common.Team
	Phase        component.ProjectilePhase
	Position     common.Vec2
	Velocity     common.Vec2
	Acceleration common.Vec2
	Radius       float64
}

// World owns the simulation state and runs systems once per tick.
type World struct {
	Round     uuid.UUID
	Tick      uint64
	TimeScale float64

	Library *prefabs.Library
	Pool    *Pool
	Physics *PhysicsWorld
	Order   *OrderAllocator
	Rand    *rand.Rand

	Combatants []*component.Combatant
	Constructs []*component.Construct
	Assaults   []*component.Assault
	Pending    []PendingSpawn

	events    EventQueue
	ids       entityStore
	scheduler *Scheduler
	dt        float64
}

// NewWorld creates a world for lib. seed drives every random draw.
func NewWorld(lib *prefabs.Library, seed uint64) *World {
	arena := lib.Arena
	return &World{
		Round:     uuid.New(),
		TimeScale: 1,
		Library:   lib,
		Pool:      NewPool(arena.Pool.InitialSize, arena.Pool.MaxSize),
		Physics:   NewPhysicsWorld(),
		Order:     NewOrderAllocator(),
		Rand:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		scheduler: NewScheduler(),
	}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.scheduler.Add(s)
}

// Step advances the world by dt seconds scaled by TimeScale. Events from
// the previous step are discarded first; drain them between steps.
func (w *World) Step(dt float64) {
	if w == nil {
		return
	}
	w.events.flush()
	w.dt = dt * w.TimeScale
	if w.dt <= 0 {
		return
	}
	w.Tick++
	w.scheduler.Update(w)
	w.sweep()
}

// DT is the scaled delta of the step in progress.
func (w *World) DT() float64 {
	return w.dt
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Emit stamps evt with the round and tick and queues it.
func (w *World) Emit(evt Event) {
	evt.Round = w.Round
	evt.Tick = w.Tick
	w.events.Push(evt)
}

func (w *World) Arena() *prefabs.ArenaSpec {
	return &w.Library.Arena
}

// AddCombatant places a character at its team's spawn point and points
// both combatants at each other.
func (w *World) AddCombatant(spec *prefabs.CharacterSpec, team common.Team) *component.Combatant {
	arena := w.Arena()
	var pos common.Vec2
	if idx := team.Index(); idx < len(arena.Spawns) {
		pos = arena.Spawns[idx]
	}
	c := component.NewCombatant(spec, team, pos, arena.GaugeMax)
	w.Combatants = append(w.Combatants, c)
	for _, other := range w.Combatants {
		if opp := w.Opponent(other); opp != nil {
			other.Target = component.BodyTarget{Combatant: opp}
		}
	}
	return c
}

func (w *World) Combatant(team common.Team) *component.Combatant {
	for _, c := range w.Combatants {
		if c.Team == team {
			return c
		}
	}
	return nil
}

func (w *World) Opponent(c *component.Combatant) *component.Combatant {
	if c == nil {
		return nil
	}
	return w.Combatant(c.Team.Opponent())
}

// FireShot expands shot and spawns every resulting request. It returns the
// number of requests generated.
func (w *World) FireShot(shot *prefabs.ShotSpec, params pattern.Params) int {
	reqs := pattern.Expand(shot, params, w.Rand)
	for _, req := range reqs {
		w.Spawn(req)
	}
	return len(reqs)
}

// Spawn realizes req now, or queues it when it has a launch delay.
func (w *World) Spawn(req pattern.SpawnRequest) {
	if req.Bullet == nil {
		return
	}
	if req.LaunchDelay > 0 {
		w.Pending = append(w.Pending, PendingSpawn{
			Request:   req,
			Remaining: common.FramesToSeconds(req.LaunchDelay),
			Tick:      w.Tick,
		})
		if req.Bullet.LaunchTelegraph {
			w.Emit(Event{
				Kind:     EventProjectileTelegraphed,
				Team:     req.Team,
				Position: req.Position,
				Value:    common.FramesToSeconds(req.LaunchDelay),
				Effect:   req.Bullet.DelayColor,
			})
		}
		return
	}
	w.Realize(req)
}

// Realize acquires a projectile for req and launches it this tick. It
// advances from the next tick on.
func (w *World) Realize(req pattern.SpawnRequest) (Entity, bool) {
	e, p, err := w.Pool.Acquire()
	if err != nil {
		if !errors.Is(err, ErrPoolExhausted) {
			log.Printf("ecs: spawn %s: %v", req.Bullet.Name, err)
		}
		return 0, false
	}
	p.Launch(req, w.Order.Next(req.Bullet.Size), w.Tick)
	w.Physics.AddProjectile(e, p)
	w.Emit(Event{
		Kind:     EventProjectileSpawned,
		Team:     req.Team,
		Entity:   e,
		Position: p.Position,
		Effect:   p.Sprite,
	})
	return e, true
}

// Deactivate asks a projectile to leave play, animating its close when the
// bullet has a startup effect.
func (w *World) Deactivate(e Entity) {
	p, ok := w.Pool.Get(e)
	if !ok {
		return
	}
	if p.Deactivate() {
		w.Retire(e, true)
	}
}

// Retire returns a projectile to the pool. destroyed marks a deactivation
// as opposed to leaving the play field.
func (w *World) Retire(e Entity, destroyed bool) {
	p, ok := w.Pool.Get(e)
	if !ok {
		return
	}
	pos, team := p.Position, p.Team
	effect := ""
	if p.Spec != nil {
		effect = p.Spec.DeathEffect
	}
	w.Physics.RemoveProjectile(e)
	w.Pool.Release(e)
	if destroyed {
		w.Emit(Event{Kind: EventProjectileDestroyed, Team: team, Entity: e, Position: pos, Effect: effect})
	}
	w.Emit(Event{Kind: EventProjectileRetired, Team: team, Entity: e, Position: pos})
}

func (w *World) AddConstruct(c *component.Construct) {
	c.ID = uint64(w.ids.create())
	w.Constructs = append(w.Constructs, c)
	w.Emit(Event{Kind: EventConstructSpawned, Team: c.Team, Entity: Entity(c.ID), Position: c.Position, Effect: c.Mode.String()})
}

// DestroyConstruct removes c at the end of the tick.
func (w *World) DestroyConstruct(c *component.Construct) {
	if c.Destroyed {
		return
	}
	c.Destroyed = true
	w.ids.destroy(Entity(c.ID))
	w.Emit(Event{Kind: EventConstructDestroyed, Team: c.Team, Entity: Entity(c.ID), Position: c.Position})
}

func (w *World) AddAssault(a *component.Assault) {
	a.ID = uint64(w.ids.create())
	w.Assaults = append(w.Assaults, a)
	w.Emit(Event{Kind: EventAssaultSpawned, Team: a.Team, Entity: Entity(a.ID), Position: a.Position})
}

func (w *World) DestroyAssault(a *component.Assault) {
	if a.Destroyed {
		return
	}
	a.Destroyed = true
	w.ids.destroy(Entity(a.ID))
}

// AddGauge changes c's gauge and reports the applied delta.
func (w *World) AddGauge(c *component.Combatant, delta float64) {
	if applied := c.AddGauge(delta); applied != 0 {
		w.Emit(Event{Kind: EventGaugeChanged, Team: c.Team, Value: applied})
	}
}

// CancelAll idles every slot of c, destroys its constructs and drops its
// delayed spawns. It takes effect immediately.
func (w *World) CancelAll(c *component.Combatant) {
	if c == nil {
		return
	}
	for i := range c.Slots {
		c.Slots[i].Cancel()
	}
	for _, con := range w.Constructs {
		if con.Owner == c {
			w.DestroyConstruct(con)
		}
	}
	kept := w.Pending[:0]
	for _, ps := range w.Pending {
		if ps.Request.Team != c.Team {
			kept = append(kept, ps)
		}
	}
	w.Pending = kept
}

// ResetRound clears every projectile, construct and assault, restores the
// combatants and starts a new round id.
func (w *World) ResetRound() {
	for _, c := range w.Combatants {
		w.CancelAll(c)
	}
	w.Physics.Clear()
	w.Pool.ReleaseAll()
	w.Constructs = w.Constructs[:0]
	w.Assaults = w.Assaults[:0]
	w.Pending = w.Pending[:0]
	w.ids.reset()

	arena := w.Arena()
	for _, c := range w.Combatants {
		c.Health = c.Spec.MaxHealth
		c.Gauge = 0
		c.Invulnerable = 0
		c.DodgeTimer = 0
		c.Input = 0
		if idx := c.Team.Index(); idx < len(arena.Spawns) {
			c.Position = arena.Spawns[idx]
		}
		for i := range c.Slots {
			c.Slots[i] = component.NewSkillSlot(c.Slots[i].Pattern)
		}
	}
	w.Round = uuid.New()
	w.Emit(Event{Kind: EventRoundReset})
}

// SetLibrary swaps in a reloaded library between ticks. Combatants keep
// their timers; their slots pick up the new patterns.
func (w *World) SetLibrary(lib *prefabs.Library) {
	if lib == nil {
		return
	}
	w.Library = lib
	for _, c := range w.Combatants {
		spec, ok := lib.Character(c.Spec.Name)
		if !ok {
			log.Printf("ecs: reload dropped character %q, keeping old spec", c.Spec.Name)
			continue
		}
		c.Spec = spec
		c.GaugeMax = lib.Arena.GaugeMax
		for i, p := range spec.Patterns() {
			c.Slots[i].Pattern = p
		}
	}
}

// Observe appends a snapshot of every live projectile to dst.
func (w *World) Observe(dst []Snapshot) []Snapshot {
	w.Pool.Each(func(e Entity, p *component.Projectile) {
		dst = append(dst, Snapshot{
			Entity:       e,
			Team:         p.Team,
			Phase:        p.Phase,
			Position:     p.Position,
			Velocity:     p.Velocity,
			Acceleration: p.Acceleration,
			Radius:       p.ColliderRadius,
		})
	})
	return dst
}

func (w *World) sweep() {
	constructs := w.Constructs[:0]
	for _, c := range w.Constructs {
		if !c.Destroyed {
			constructs = append(constructs, c)
		}
	}
	clear(w.Constructs[len(constructs):])
	w.Constructs = constructs

	assaults := w.Assaults[:0]
	for _, a := range w.Assaults {
		if !a.Destroyed {
			assaults = append(assaults, a)
		}
	}
	clear(w.Assaults[len(assaults):])
	w.Assaults = assaults
}
