package ecs

import (
	"github.com/google/uuid"
	"github.com/milk9111/danmaku/common"
)

type EventKind string

const (
	EventProjectileSpawned     EventKind = "projectile_spawned"
	EventProjectileTelegraphed EventKind = "projectile_telegraphed"
	// EventProjectileDestroyed is emitted when a deactivated projectile
	// reaches the pool; presentation spawns its death effect.
	EventProjectileDestroyed EventKind = "projectile_destroyed"
	// EventProjectileRetired is emitted on every return to the pool.
	EventProjectileRetired  EventKind = "projectile_retired"
	EventConstructSpawned   EventKind = "construct_spawned"
	EventConstructDestroyed EventKind = "construct_destroyed"
	EventSkillFired         EventKind = "skill_fired"
	EventGaugeChanged       EventKind = "gauge_changed"
	EventCombatantHit       EventKind = "combatant_hit"
	EventGraze              EventKind = "graze"
	EventDodge              EventKind = "dodge"
	EventAssaultSpawned     EventKind = "assault_spawned"
	EventRoundReset         EventKind = "round_reset"
)

// Event is one entry of the simulation's notification stream.
type Event struct {
	Kind  EventKind
	Round uuid.UUID
	Tick  uint64

	Team     common.Team
	Entity   Entity
	Slot     int
	Position common.Vec2
	Value    float64
	// Effect names the sprite or effect presentation should play.
	Effect string
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Peek returns the queued events without clearing them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = q.items[:0]
}
