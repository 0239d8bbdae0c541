package system

import (
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
)

//go:generate go tool mockgen -source=input.go -destination=mock_input.go -package=system

// InputSource produces the slot signal for one combatant each tick: 0 for
// none, 1..5 for the held slot.
type InputSource interface {
	SlotInput(tick uint64, self, opponent *component.Combatant) int
}

// InputSystem copies each team's input signal onto its combatant. Teams
// without a source keep whatever Input was set externally.
type InputSystem struct {
	Sources map[common.Team]InputSource
}

func NewInputSystem() *InputSystem {
	return &InputSystem{Sources: map[common.Team]InputSource{}}
}

func (i *InputSystem) Bind(team common.Team, src InputSource) {
	if src == nil {
		delete(i.Sources, team)
		return
	}
	i.Sources[team] = src
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, c := range w.Combatants {
		src, ok := i.Sources[c.Team]
		if !ok {
			continue
		}
		in := src.SlotInput(w.Tick, c, w.Opponent(c))
		if in < 0 || in > component.SlotCount {
			in = 0
		}
		c.Input = in
	}
}
