package system

import (
	"github.com/milk9111/danmaku/common"
	"github.com/milk9111/danmaku/ecs"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/pattern"
	"github.com/milk9111/danmaku/prefabs"
)

// SkillSystem runs every combatant's skill slots: recast, fan, input edges
// and bursts, then dispatches each fire by skill kind.
type SkillSystem struct{}

func NewSkillSystem() *SkillSystem {
	return &SkillSystem{}
}

func (s *SkillSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DT()
	for _, c := range w.Combatants {
		tickStatus(c, dt)
		for i := range c.Slots {
			s.updateSlot(w, c, i, dt)
		}
	}
}

func tickStatus(c *component.Combatant, dt float64) {
	if c.Invulnerable > 0 {
		c.Invulnerable = max(0, c.Invulnerable-dt)
	}
	if c.DodgeTimer > 0 {
		c.DodgeTimer -= dt
		if c.DodgeTimer <= 0 {
			c.DodgeTimer = 0
			c.DodgeMultiplier = 0
		}
	}
}

func (s *SkillSystem) updateSlot(w *ecs.World, c *component.Combatant, i int, dt float64) {
	slot := &c.Slots[i]
	if !slot.Enabled() {
		return
	}
	pat := slot.Pattern
	arena := w.Arena()

	if slot.Phase == component.SlotRecast {
		slot.RecastTimer -= dt
		if slot.RecastTimer <= 0 {
			slot.RecastTimer = 0
			slot.Phase = component.SlotIdle
		}
	}

	idle := pat.IdleSpread()
	switch {
	case slot.Charging():
		slot.FanSpread = common.MoveTowards(slot.FanSpread, min(arena.Fan.MinSpread, idle), arena.Fan.ShrinkSpeed*dt)
	case !slot.Bursting():
		slot.FanSpread = common.MoveTowards(slot.FanSpread, idle, arena.Fan.ExpandSpeed*dt)
	}

	pressed := c.Input == i+1
	wasHeld := slot.Held
	slot.Held = pressed
	canStart := slot.Ready() && (i != component.UltimateSlot || c.GaugeFull())

	started := false
	switch pat.Kind {
	case prefabs.SkillOrbitingConstruct:
		s.updateConstructInput(w, c, i, pressed, wasHeld, canStart, dt)
		return
	case prefabs.SkillRemoteBarrage:
		if pressed && !wasHeld && canStart {
			consumeUltimate(w, c, i)
			s.startBurst(w, c, i)
			started = true
		}
	default:
		if !pressed {
			slot.HoldLatch = false
		}
		switch {
		case slot.Charging() && pressed:
			slot.HoldTimer += dt
			if pat.MaxChargeHold > 0 && slot.HoldTimer >= pat.MaxChargeHold {
				s.startBurst(w, c, i)
				slot.HoldLatch = true
				started = true
			}
		case slot.Charging():
			s.startBurst(w, c, i)
			started = true
		case pressed && !slot.HoldLatch && canStart:
			trigger := !wasHeld || (pat.AutoRepeat && slot.RecastTimer <= 0 && !slot.Bursting())
			if !trigger {
				break
			}
			consumeUltimate(w, c, i)
			if pat.Trigger == prefabs.TriggerOnRelease {
				slot.Phase = component.SlotCharging
				slot.HoldTimer = 0
				slot.AimAngle = lockAim(c, pat)
				slot.AimLocked = true
				break
			}
			s.startBurst(w, c, i)
			started = true
		}
	}

	if !slot.Bursting() || started {
		return
	}
	if pat.Trigger == prefabs.TriggerInstant && stopsOnRelease(pat.Kind) && !pressed {
		slot.StartRecast()
		return
	}
	slot.BurstTimer -= dt
	if slot.BurstTimer <= 0 {
		s.fire(w, c, i)
	}
}

// updateConstructInput opens a construct on press and pushes it once the
// press outlasts the long-press threshold. Releasing a long press launches
// it toward the opponent; a short press anchors it.
func (s *SkillSystem) updateConstructInput(w *ecs.World, c *component.Combatant, i int, pressed, wasHeld, canStart bool, dt float64) {
	slot := &c.Slots[i]
	arena := w.Arena()
	con := slot.Construct

	if slot.Charging() && (con == nil || con.Destroyed) {
		slot.StartRecast()
		return
	}

	switch {
	case slot.Charging() && pressed:
		slot.HoldTimer += dt
		if !con.Pushing && slot.HoldTimer > arena.LongPressThreshold && con.Radius > arena.Construct.PushRadius {
			con.Pushing = true
			con.Direction = towardOpponent(w, c)
			con.PushElapsed = 0
		}
	case slot.Charging():
		params := slot.Pattern.Construct
		slot.Launched = slot.HoldTimer >= arena.LongPressThreshold
		if slot.Launched {
			dir := con.Direction
			if !con.Pushing {
				dir = towardOpponent(w, c)
			}
			con.Launch(params.LaunchedRadius, params.Duration, dir)
		} else {
			con.Mode = component.ConstructAnchored
			con.Finalize(params.AnchoredRadius, params.Duration)
		}
		s.fired(w, c, i)
		slot.StartRecast()
	case pressed && !wasHeld && canStart:
		consumeUltimate(w, c, i)
		con = &component.Construct{
			Owner:        c,
			Team:         c.Team,
			Mode:         component.ConstructManualPush,
			Position:     c.Position,
			TargetRadius: arena.Construct.HoldRadius,
			Clearing:     !slot.Pattern.Construct.NonClearing,
		}
		w.AddConstruct(con)
		slot.Construct = con
		slot.Phase = component.SlotCharging
		slot.HoldTimer = 0
		slot.Launched = false
	}
}

func (s *SkillSystem) startBurst(w *ecs.World, c *component.Combatant, i int) {
	slot := &c.Slots[i]
	slot.Phase = component.SlotBursting
	slot.BurstRemaining = max(slot.Pattern.BurstCount, 1)
	slot.BurstTimer = 0
	slot.HoldTimer = 0
	s.fire(w, c, i)
}

// fire runs one fire event of slot i's burst.
func (s *SkillSystem) fire(w *ecs.World, c *component.Combatant, i int) {
	slot := &c.Slots[i]
	pat := slot.Pattern

	var ok bool
	switch pat.Kind {
	case prefabs.SkillRemoteBarrage:
		ok = s.fireRemote(w, c, pat)
	case prefabs.SkillDodge:
		ok = s.fireDodge(w, c, pat)
	case prefabs.SkillAssault:
		ok = s.fireAssault(w, c, pat)
	default:
		ok = s.fireNormal(w, c, slot)
	}
	if !ok {
		slot.StartRecast()
		return
	}

	s.fired(w, c, i)
	slot.BurstRemaining--
	if slot.BurstRemaining > 0 {
		slot.BurstTimer = pat.BurstInterval
		return
	}
	slot.StartRecast()
}

func (s *SkillSystem) fired(w *ecs.World, c *component.Combatant, i int) {
	pat := c.Slots[i].Pattern
	w.Emit(ecs.Event{Kind: ecs.EventSkillFired, Team: c.Team, Slot: i, Position: c.Position, Effect: pat.Name})
	if pat.GaugeGain > 0 {
		w.AddGauge(c, pat.GaugeGain)
	}
}

func (s *SkillSystem) fireNormal(w *ecs.World, c *component.Combatant, slot *component.SkillSlot) bool {
	pat := slot.Pattern
	if !hasUsableShot(pat.Shots) {
		return false
	}

	step := pat.BurstCount - slot.BurstRemaining
	target, hasTarget := c.Aim()
	for j := range pat.Shots {
		shot := &pat.Shots[j]
		params := pattern.Params{
			Step:      step,
			Origin:    c.Position,
			Team:      c.Team,
			Target:    target,
			HasTarget: hasTarget,
		}
		if shot.Pattern == prefabs.PatternNWay {
			spread := slot.FanSpread
			params.SpreadOverride = &spread
		}
		if slot.AimLocked {
			aim := slot.AimAngle
			params.AimLock = &aim
		}
		w.FireShot(shot, params)
	}
	return true
}

func (s *SkillSystem) fireRemote(w *ecs.World, c *component.Combatant, pat *prefabs.AttackPatternSpec) bool {
	params := pat.Remote
	if params == nil || !hasUsableShot(pat.Shots) {
		return false
	}
	arena := w.Arena()

	con := &component.Construct{
		Owner:        c,
		Team:         c.Team,
		Position:     c.Position,
		Shots:        pat.Shots,
		DeployRadius: params.DeployRadius,
		DeployTime:   params.DeployTime,
	}
	if params.Continuous {
		con.Mode = component.ConstructHomingFire
		con.Life = params.Duration
		con.FireInterval = params.Interval
		con.FireTimer = 0
		con.TargetRadius = params.DeployRadius
		w.AddConstruct(con)
		return true
	}

	dest := c.Position.Add(common.Vec2{X: c.Facing * arena.Remote.FallbackDistance})
	if target, ok := c.Aim(); ok {
		jitter := arena.Remote.TargetJitter
		dest = target.Add(common.Vec2{
			X: (w.Rand.Float64()*2 - 1) * jitter,
			Y: (w.Rand.Float64()*2 - 1) * jitter,
		})
	}
	if params.SnapToFloor {
		dest.Y = arena.FloorY
	}
	con.Mode = component.ConstructTravelBurst
	con.Destination = dest
	con.TravelSpeed = arena.Construct.TravelSpeed
	if params.MoveSpeed > 0 {
		con.TravelSpeed = params.MoveSpeed
	}
	con.Clearing = true
	w.AddConstruct(con)
	return true
}

func (s *SkillSystem) fireDodge(w *ecs.World, c *component.Combatant, pat *prefabs.AttackPatternSpec) bool {
	if pat.Dodge == nil {
		return false
	}
	c.DodgeTimer = pat.Dodge.Duration
	c.DodgeMultiplier = pat.Dodge.SpeedMultiplier
	w.Emit(ecs.Event{Kind: ecs.EventDodge, Team: c.Team, Position: c.Position, Value: pat.Dodge.Duration})
	return true
}

func (s *SkillSystem) fireAssault(w *ecs.World, c *component.Combatant, pat *prefabs.AttackPatternSpec) bool {
	p := pat.Assault
	if p == nil {
		return false
	}
	w.AddAssault(&component.Assault{
		Owner:     c,
		Team:      c.Team,
		Position:  c.Position,
		Direction: towardOpponent(w, c),
		Speed:     p.Speed,
		Life:      p.Duration,
		Radius:    p.Radius,
		Damage:    p.Damage,
	})
	return true
}

func consumeUltimate(w *ecs.World, c *component.Combatant, i int) {
	if i == component.UltimateSlot {
		w.AddGauge(c, -c.Gauge)
	}
}

// lockAim is the angle a charge holds: toward the target when there is
// one, else the first shot's fixed angle.
func lockAim(c *component.Combatant, pat *prefabs.AttackPatternSpec) float64 {
	if target, ok := c.Aim(); ok {
		return target.Sub(c.Position).Angle()
	}
	if len(pat.Shots) > 0 {
		return pat.Shots[0].FixedAngle
	}
	return 0
}

// towardOpponent is +1 or -1 along X.
func towardOpponent(w *ecs.World, c *component.Combatant) float64 {
	if opp := w.Opponent(c); opp != nil && opp.Position.X != c.Position.X {
		if opp.Position.X > c.Position.X {
			return 1
		}
		return -1
	}
	if c.Facing < 0 {
		return -1
	}
	return 1
}

func stopsOnRelease(kind prefabs.SkillKind) bool {
	switch kind {
	case prefabs.SkillNormal, prefabs.SkillDodge, prefabs.SkillAssault:
		return true
	}
	return false
}

func hasUsableShot(shots []prefabs.ShotSpec) bool {
	for i := range shots {
		if shots[i].BulletRef != nil {
			return true
		}
	}
	return false
}
