package component

import (
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/prefabs"
)

// Combatant is one side of the duel: its body, resources and skill slots.
// Position is written by whatever moves the combatant; the simulation
// only reads it.
type Combatant struct {
	Spec   *prefabs.CharacterSpec
	Team   common.Team
	Target Target

	Position common.Vec2
	// Facing is +1 or -1 along X.
	Facing float64

	Health       float64
	Gauge        float64
	GaugeMax     float64
	Invulnerable float64

	DodgeTimer      float64
	DodgeMultiplier float64

	// Input is the slot signal for the current tick: 0 for none, 1..5 for
	// the pressed slot.
	Input int
	Slots [SlotCount]SkillSlot
}

func NewCombatant(spec *prefabs.CharacterSpec, team common.Team, pos common.Vec2, gaugeMax float64) *Combatant {
	c := &Combatant{
		Spec:     spec,
		Team:     team,
		Position: pos,
		Facing:   1,
		Health:   spec.MaxHealth,
		GaugeMax: gaugeMax,
	}
	if team == common.TeamP2 {
		c.Facing = -1
	}
	for i, p := range spec.Patterns() {
		c.Slots[i] = NewSkillSlot(p)
	}
	return c
}

// Aim returns the aim point, if any.
func (c *Combatant) Aim() (common.Vec2, bool) {
	if c.Target == nil {
		return common.Vec2{}, false
	}
	return c.Target.TargetPosition()
}

func (c *Combatant) IsInvulnerable() bool {
	return c.Invulnerable > 0 || c.DodgeTimer > 0
}

func (c *Combatant) GaugeFull() bool {
	return c.GaugeMax > 0 && c.Gauge >= c.GaugeMax
}

// AddGauge adds delta, clamped to [0, GaugeMax], and returns the applied
// change.
func (c *Combatant) AddGauge(delta float64) float64 {
	before := c.Gauge
	c.Gauge = min(max(c.Gauge+delta, 0), c.GaugeMax)
	return c.Gauge - before
}

// MoveSpeedMultiplier is the lowest firing multiplier among slots that are
// charging or bursting, times the dodge multiplier.
func (c *Combatant) MoveSpeedMultiplier() float64 {
	m := 1.0
	for i := range c.Slots {
		s := &c.Slots[i]
		if s.Charging() || s.Bursting() {
			m = min(m, s.Pattern.MoveMultiplier())
		}
	}
	if c.DodgeTimer > 0 && c.DodgeMultiplier > 0 {
		m *= c.DodgeMultiplier
	}
	return m
}

// MoveSpeed is the current movement speed for the movement collaborator.
func (c *Combatant) MoveSpeed(slow bool) float64 {
	base := c.Spec.NormalSpeed
	if slow {
		base = c.Spec.SlowSpeed
	}
	return base * c.MoveSpeedMultiplier()
}
