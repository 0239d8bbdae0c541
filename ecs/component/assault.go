package component

import "github.com/milk9111/danmaku/common"

// Assault is a short-lived body that rams toward the opponent.
type Assault struct {
	ID        uint64
	Owner     *Combatant
	Team      common.Team
	Position  common.Vec2
	Direction float64
	Speed     float64
	Life      float64
	Radius    float64
	Damage    int
	HasHit    bool
	Destroyed bool
}
