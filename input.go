package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs/component"
)

// slotKeys maps slots 1..5 to keys, ultimate last.
var slotKeys = [component.SlotCount]ebiten.Key{
	ebiten.KeyZ,
	ebiten.KeyX,
	ebiten.KeyC,
	ebiten.KeyV,
	ebiten.KeyB,
}

// KeyboardInput reads the held slot key. When several are held the lowest
// slot wins.
type KeyboardInput struct{}

func (KeyboardInput) SlotInput(uint64, *component.Combatant, *component.Combatant) int {
	for i, key := range slotKeys {
		if ebiten.IsKeyPressed(key) {
			return i + 1
		}
	}
	return 0
}

// Movement returns the arrow key direction and whether shift is held.
func Movement() (common.Vec2, bool) {
	var dir common.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dir.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dir.X++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dir.Y++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dir.Y--
	}
	if l := dir.Len(); l > 0 {
		dir = dir.Scale(1 / l)
	}
	return dir, ebiten.IsKeyPressed(ebiten.KeyShift)
}
