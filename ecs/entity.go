package ecs

import "fmt"

// Entity is a generational handle: the low half indexes a slot, the high
// half is the slot's generation when the handle was issued. A slot that is
// released and reused gets a new generation, so stale handles never alias.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return fmt.Sprintf("%d@%d", e.id(), e.generation())
}

// Valid reports whether e was ever issued. Generations start at 1.
func (e Entity) Valid() bool {
	return e.generation() > 0
}
