package component

import (
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/prefabs"
)

// SlotCount is four attack slots plus the ultimate.
const (
	SlotCount    = 5
	UltimateSlot = SlotCount - 1
)

type SlotPhase uint8

const (
	SlotIdle SlotPhase = iota
	SlotCharging
	SlotBursting
	SlotRecast
)

func (p SlotPhase) String() string {
	switch p {
	case SlotCharging:
		return "charging"
	case SlotBursting:
		return "bursting"
	case SlotRecast:
		return "recast"
	default:
		return "idle"
	}
}

// SkillSlot is the timing state of one attack pattern.
type SkillSlot struct {
	Pattern *prefabs.AttackPatternSpec

	Phase          SlotPhase
	RecastTimer    float64
	BurstRemaining int
	BurstTimer     float64

	// AimAngle is captured when a charge starts and used by the charged burst.
	AimAngle  float64
	AimLocked bool
	FanSpread float64
	HoldTimer float64
	// HoldLatch blocks a new charge after an auto-fire until the input is
	// released.
	HoldLatch bool
	Held      bool
	Launched  bool
	// Construct is the manual construct held open by this slot, if any.
	Construct *Construct
}

func NewSkillSlot(pattern *prefabs.AttackPatternSpec) SkillSlot {
	return SkillSlot{Pattern: pattern, FanSpread: pattern.IdleSpread()}
}

func (s *SkillSlot) Enabled() bool {
	return s.Pattern != nil
}

// Charging reports whether the slot is holding a charge.
func (s *SkillSlot) Charging() bool {
	return s.Phase == SlotCharging
}

func (s *SkillSlot) Bursting() bool {
	return s.Phase == SlotBursting
}

// Ready reports whether a new burst may start.
func (s *SkillSlot) Ready() bool {
	return s.Enabled() && s.RecastTimer <= 0 && s.Phase != SlotBursting && s.Phase != SlotCharging
}

// RecastProgress is the remaining fraction of the cooldown: 1 right after
// firing, 0 once ready.
func (s *SkillSlot) RecastProgress() float64 {
	if s.Pattern == nil || s.Pattern.Recast <= 0 {
		return 0
	}
	return common.Clamp01(s.RecastTimer / s.Pattern.Recast)
}

func (s *SkillSlot) RemainingRecast() float64 {
	return max(0, s.RecastTimer)
}

// ChargeProgress maps the fan spread onto [0, 1] between the idle spread
// and minSpread.
func (s *SkillSlot) ChargeProgress(minSpread float64) float64 {
	idle := s.Pattern.IdleSpread()
	if idle <= minSpread {
		return 0
	}
	return common.Clamp01((idle - s.FanSpread) / (idle - minSpread))
}

// StartRecast ends any burst or charge and starts the cooldown.
func (s *SkillSlot) StartRecast() {
	s.Phase = SlotRecast
	s.BurstRemaining = 0
	s.BurstTimer = 0
	s.AimLocked = false
	s.HoldTimer = 0
	s.Construct = nil
	if s.Pattern != nil {
		s.RecastTimer = s.Pattern.Recast
	}
	if s.RecastTimer <= 0 {
		s.Phase = SlotIdle
	}
}

// Cancel returns the slot to idle with every timer cleared.
func (s *SkillSlot) Cancel() {
	s.Phase = SlotIdle
	s.RecastTimer = 0
	s.BurstRemaining = 0
	s.BurstTimer = 0
	s.AimLocked = false
	s.HoldTimer = 0
	s.HoldLatch = false
	s.Launched = false
	s.Construct = nil
}
