package component

import "github.com/milk9111/danmaku/common"

//go:generate go tool mockgen -source=target.go -destination=mock_target.go -package=component

// Target reports where a combatant should aim. ok is false when there is
// nothing to aim at.
type Target interface {
	TargetPosition() (pos common.Vec2, ok bool)
}

// PointTarget is a Target fixed at one position.
type PointTarget common.Vec2

func (p PointTarget) TargetPosition() (common.Vec2, bool) {
	return common.Vec2(p), true
}

// BodyTarget aims at a combatant's current position.
type BodyTarget struct {
	Combatant *Combatant
}

func (b BodyTarget) TargetPosition() (common.Vec2, bool) {
	if b.Combatant == nil {
		return common.Vec2{}, false
	}
	return b.Combatant.Position, true
}
