package ecs

import (
	"errors"
	"log"

	"github.com/milk9111/danmaku/ecs/component"
)

var ErrPoolExhausted = errors.New("ecs: pool exhausted")

// Pool owns every projectile. Instances are allocated up front and
// recycled; pointers stay valid for the life of the pool.
type Pool struct {
	items  []*component.Projectile
	gen    []generation
	active []bool
	free   []entityID
	max    int

	exhausted bool
}

func NewPool(initial, max int) *Pool {
	if initial < 0 {
		initial = 0
	}
	if max < initial {
		max = initial
	}
	p := &Pool{
		items:  make([]*component.Projectile, 0, initial),
		gen:    make([]generation, 0, initial),
		active: make([]bool, 0, initial),
		free:   make([]entityID, 0, initial),
		max:    max,
	}
	for i := 0; i < initial; i++ {
		p.grow()
	}
	// free is a stack; low ids on top
	for i := initial - 1; i >= 0; i-- {
		p.free = append(p.free, entityID(i))
	}
	return p
}

func (p *Pool) grow() entityID {
	id := entityID(len(p.items))
	p.items = append(p.items, &component.Projectile{})
	p.gen = append(p.gen, 1)
	p.active = append(p.active, false)
	return id
}

// Acquire hands out a free projectile, growing the pool by one when it is
// empty. Past the maximum size it returns ErrPoolExhausted.
func (p *Pool) Acquire() (Entity, *component.Projectile, error) {
	var id entityID
	if n := len(p.free); n > 0 {
		id = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		if len(p.items) >= p.max {
			if !p.exhausted {
				log.Printf("ecs: projectile pool exhausted at %d instances, dropping spawns", len(p.items))
				p.exhausted = true
			}
			return 0, nil, ErrPoolExhausted
		}
		id = p.grow()
	}
	p.active[id] = true
	return makeEntity(id, p.gen[id]), p.items[id], nil
}

// Release returns a projectile to the pool. Stale handles and handles to
// free instances are ignored; it reports whether anything was released.
func (p *Pool) Release(e Entity) bool {
	id := e.id()
	if int(id) >= len(p.items) || !p.active[id] || p.gen[id] != e.generation() {
		return false
	}
	p.active[id] = false
	p.gen[id]++
	p.items[id].Phase = component.PhaseFree
	p.items[id].Collidable = false
	p.free = append(p.free, id)
	p.exhausted = false
	return true
}

// ReleaseAll frees every active projectile whatever its phase.
func (p *Pool) ReleaseAll() {
	for i := range p.items {
		if p.active[i] {
			p.Release(makeEntity(entityID(i), p.gen[i]))
		}
	}
}

// Get resolves a handle; stale handles resolve to nothing.
func (p *Pool) Get(e Entity) (*component.Projectile, bool) {
	id := e.id()
	if int(id) >= len(p.items) || !p.active[id] || p.gen[id] != e.generation() {
		return nil, false
	}
	return p.items[id], true
}

// Each calls fn for every active projectile in slot order. Slots added
// during the walk are not visited.
func (p *Pool) Each(fn func(Entity, *component.Projectile)) {
	n := len(p.items)
	for i := 0; i < n; i++ {
		if !p.active[i] {
			continue
		}
		fn(makeEntity(entityID(i), p.gen[i]), p.items[i])
	}
}

func (p *Pool) FreeCount() int {
	return len(p.free)
}

func (p *Pool) ActiveCount() int {
	return len(p.items) - len(p.free)
}

func (p *Pool) Cap() int {
	return len(p.items)
}

func (p *Pool) MaxSize() int {
	return p.max
}
