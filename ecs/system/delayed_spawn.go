package system

import "github.com/milk9111/danmaku/ecs"

// DelayedSpawnSystem realizes queued spawns once their launch delay has
// elapsed. A spawn queued this tick starts counting on the next one.
type DelayedSpawnSystem struct{}

func NewDelayedSpawnSystem() *DelayedSpawnSystem {
	return &DelayedSpawnSystem{}
}

func (s *DelayedSpawnSystem) Update(w *ecs.World) {
	if w == nil || len(w.Pending) == 0 {
		return
	}

	dt := w.DT()
	var due []ecs.PendingSpawn
	kept := w.Pending[:0]
	for _, ps := range w.Pending {
		if ps.Tick == w.Tick {
			kept = append(kept, ps)
			continue
		}
		ps.Remaining -= dt
		if ps.Remaining <= 0 {
			due = append(due, ps)
			continue
		}
		kept = append(kept, ps)
	}
	w.Pending = kept

	for _, ps := range due {
		w.Realize(ps.Request)
	}
}
