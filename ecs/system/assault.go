package system

import "github.com/milk9111/danmaku/ecs"

// AssaultSystem moves assault bodies and retires them when their time is up.
type AssaultSystem struct{}

func NewAssaultSystem() *AssaultSystem {
	return &AssaultSystem{}
}

func (s *AssaultSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DT()
	for _, a := range w.Assaults {
		if a.Destroyed {
			continue
		}
		a.Position.X += a.Direction * a.Speed * dt
		a.Life -= dt
		if a.Life <= 0 {
			w.DestroyAssault(a)
		}
	}
}
