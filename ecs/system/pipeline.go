package system

import "github.com/milk9111/danmaku/ecs"

// Pipeline returns the simulation systems in update order. input may be
// nil when combatant input is written directly.
func Pipeline(input *InputSystem) []ecs.System {
	var systems []ecs.System
	if input != nil {
		systems = append(systems, input)
	}
	return append(systems,
		NewSkillSystem(),
		NewDelayedSpawnSystem(),
		NewConstructSystem(),
		NewAssaultSystem(),
		NewProjectileSystem(),
		NewCollisionSystem(),
	)
}

// Install adds the pipeline to w.
func Install(w *ecs.World, input *InputSystem) {
	for _, s := range Pipeline(input) {
		w.AddSystem(s)
	}
}
