package ecs

// entityStore hands out ids for constructs and assaults.
type entityStore struct {
	gen  []generation
	free []entityID
}

func (s *entityStore) create() Entity {
	if s == nil {
		return 0
	}
	var id entityID
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		id = entityID(len(s.gen))
		s.gen = append(s.gen, 1)
	}
	return makeEntity(id, s.gen[id])
}

func (s *entityStore) destroy(e Entity) {
	if !s.isAlive(e) {
		return
	}
	s.gen[e.id()]++
	s.free = append(s.free, e.id())
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || int(e.id()) >= len(s.gen) {
		return false
	}
	return s.gen[e.id()] == e.generation()
}

func (s *entityStore) reset() {
	s.gen = s.gen[:0]
	s.free = s.free[:0]
}
