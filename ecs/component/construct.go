package component

import (
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/prefabs"
)

type ConstructMode uint8

const (
	// ConstructAnchored follows its owner.
	ConstructAnchored ConstructMode = iota
	// ConstructManualPush slides horizontally until finalized.
	ConstructManualPush
	// ConstructHomingFire homes between the combatants and fires periodically.
	ConstructHomingFire
	// ConstructTravelBurst flies to a point, dwells, then fires once.
	ConstructTravelBurst
)

func (m ConstructMode) String() string {
	switch m {
	case ConstructManualPush:
		return "manual_push"
	case ConstructHomingFire:
		return "homing_fire"
	case ConstructTravelBurst:
		return "travel_burst"
	default:
		return "anchored"
	}
}

// Construct is an orbiting magic circle owned by a combatant.
type Construct struct {
	ID    uint64
	Owner *Combatant
	Team  common.Team
	Mode  ConstructMode

	Position common.Vec2
	Rotation float64
	// Radius is the current eased size; TargetRadius is what it eases to.
	Radius       float64
	TargetRadius float64
	Clearing     bool
	Expiring     bool

	// Countdown runs once deployed; at zero the construct starts expiring.
	Countdown float64
	Deployed  bool

	// Pushing is set while a held manual construct slides along X.
	Pushing     bool
	Direction   float64
	PushSpeed   float64
	PushElapsed float64

	Destination  common.Vec2
	TravelSpeed  float64
	Arrived      bool
	Dwell        float64
	Fired        bool
	DeployRadius float64
	DeployTime   float64

	Life         float64
	FireInterval float64
	FireTimer    float64
	Shots        []prefabs.ShotSpec

	Destroyed bool
}

// Deploy sets the construct's resting radius and starts its countdown.
func (c *Construct) Deploy(radius, duration float64) {
	c.TargetRadius = radius
	c.Countdown = duration
	c.Deployed = true
	c.Expiring = false
}

// Finalize stops a manual push and deploys in place.
func (c *Construct) Finalize(radius, duration float64) {
	c.Pushing = false
	c.PushSpeed = 0
	c.Deploy(radius, duration)
}

// Launch deploys the construct and keeps it sliding along direction until
// its countdown ends or it reaches the arena edge.
func (c *Construct) Launch(radius, duration, direction float64) {
	if !c.Pushing {
		c.PushElapsed = 0
	}
	c.Pushing = true
	c.Direction = direction
	c.Deploy(radius, duration)
}

// Expire starts the shrink-away.
func (c *Construct) Expire() {
	c.Expiring = true
	c.TargetRadius = 0
	c.Deployed = false
}

// ClearsBullets reports whether the construct currently deletes opposing
// projectiles.
func (c *Construct) ClearsBullets() bool {
	return c.Clearing && !c.Expiring && !c.Destroyed && c.Radius > 0
}
