package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/danmaku/common"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type ColliderShape string

const (
	ShapeCircle  ColliderShape = "circle"
	ShapeCapsule ColliderShape = "capsule"
	ShapePolygon ColliderShape = "polygon"
)

type RotationMode string

const (
	RotationFaceMovement RotationMode = "face_movement"
	RotationFixed        RotationMode = "fixed"
	RotationConstantSpin RotationMode = "constant_spin"
)

// SizeCategory buckets bullets for draw ordering.
type SizeCategory string

const (
	SizeLarge  SizeCategory = "large"
	SizeMiddle SizeCategory = "middle"
	SizeSmall  SizeCategory = "small"
)

type StartupType string

const (
	StartupRotateX   StartupType = "rotate_x"
	StartupRotateY   StartupType = "rotate_y"
	StartupRotateZ   StartupType = "rotate_z"
	StartupTranslate StartupType = "translate"
	StartupScale     StartupType = "scale"
)

type PatternKind string

const (
	PatternSingle        PatternKind = "single"
	PatternNWay          PatternKind = "nway"
	PatternAllDirections PatternKind = "all_directions"
	PatternRandomGap     PatternKind = "random_gap"
)

type AngleSource string

const (
	AngleFixed  AngleSource = "fixed"
	AngleAim    AngleSource = "aim"
	AngleRandom AngleSource = "random"
)

type FireTrigger string

const (
	TriggerInstant   FireTrigger = "instant"
	TriggerOnRelease FireTrigger = "on_release"
)

type SkillKind string

const (
	SkillNormal            SkillKind = "normal"
	SkillOrbitingConstruct SkillKind = "orbiting_construct"
	SkillRemoteBarrage     SkillKind = "remote_barrage"
	SkillDodge             SkillKind = "dodge"
	SkillAssault           SkillKind = "assault"
)

type ColliderSpec struct {
	Shape    ColliderShape `yaml:"shape"`
	Radius   float64       `yaml:"radius"`
	Height   float64       `yaml:"height"`
	Vertices []common.Vec2 `yaml:"vertices"`
	Offset   common.Vec2   `yaml:"offset"`
}

// StartupEffect is played forward on spawn and backward on close.
type StartupEffect struct {
	Type           StartupType `yaml:"type"`
	Start          float64     `yaml:"start"`
	End            float64     `yaml:"end"`
	DurationFrames int         `yaml:"duration_frames"`
}

func (e *StartupEffect) Enabled() bool {
	return e != nil && e.DurationFrames > 0 && e.Type != ""
}

func (e *StartupEffect) Duration() float64 {
	if e == nil {
		return 0
	}
	return common.FramesToSeconds(e.DurationFrames)
}

type TrajectoryOverride struct {
	Speed       float64 `yaml:"speed"`
	Accel       float64 `yaml:"accel"`
	Angle       float64 `yaml:"angle"`
	Absolute    bool    `yaml:"absolute"`
	AimAtTarget bool    `yaml:"aim_at_target"`
}

type RotationOverride struct {
	Mode      RotationMode `yaml:"mode"`
	SpinSpeed float64      `yaml:"spin_speed"`
}

// MutationStep changes a live bullet once its frame counter reaches
// TriggerFrame. Nil fields leave the bullet untouched.
type MutationStep struct {
	TriggerFrame   int                 `yaml:"frame"`
	Sprite         *string             `yaml:"sprite"`
	ColliderRadius *float64            `yaml:"collider_radius"`
	Scale          *common.Vec2        `yaml:"scale"`
	Trajectory     *TrajectoryOverride `yaml:"trajectory"`
	Rotation       *RotationOverride   `yaml:"rotation"`
}

type BulletSpec struct {
	Name            string         `yaml:"name"`
	Sprite          string         `yaml:"sprite"`
	DeathEffect     string         `yaml:"death_effect"`
	Size            SizeCategory   `yaml:"size"`
	Damage          int            `yaml:"damage"`
	DelayColor      string         `yaml:"delay_color"`
	Additive        bool           `yaml:"additive"`
	LaunchTelegraph bool           `yaml:"launch_telegraph"`
	Rotation        RotationMode   `yaml:"rotation"`
	SpinSpeed       float64        `yaml:"spin_speed"`
	Collider        ColliderSpec   `yaml:"collider"`
	Scale           common.Vec2    `yaml:"scale"`
	Startup         *StartupEffect `yaml:"startup"`
	SubShot         *ShotSpec      `yaml:"sub_shot"`
	SubShotInterval int            `yaml:"sub_shot_interval"`
	Lifespan        float64        `yaml:"lifespan"`
	Steps           []MutationStep `yaml:"steps"`
}

// HasLifespan reports whether the bullet expires on its own.
func (b *BulletSpec) HasLifespan() bool {
	return b != nil && b.Lifespan > 0
}

func (b *BulletSpec) SpawnsSubShots() bool {
	return b != nil && b.SubShot != nil && b.SubShot.BulletRef != nil && b.SubShotInterval > 0
}

type NWayExpand struct {
	CountAdd  int     `yaml:"count_add"`
	SpreadAdd float64 `yaml:"spread_add"`
}

type NWaySpec struct {
	Count  int        `yaml:"count"`
	Spread float64    `yaml:"spread"`
	Expand NWayExpand `yaml:"expand"`
}

type RingSpec struct {
	Count      int  `yaml:"count"`
	EvenOffset bool `yaml:"even_offset"`
}

// MotionSpec is a base value, a linear acceleration and a cap.
type MotionSpec struct {
	Base  float64 `yaml:"base"`
	Accel float64 `yaml:"accel"`
	Max   float64 `yaml:"max"`
}

type JitterSpec struct {
	Angle float64 `yaml:"angle"`
	Speed float64 `yaml:"speed"`
}

type ShotSpec struct {
	Bullet          string      `yaml:"bullet"`
	Pattern         PatternKind `yaml:"pattern"`
	Angle           AngleSource `yaml:"angle"`
	FixedAngle      float64     `yaml:"fixed_angle"`
	NWay            NWaySpec    `yaml:"nway"`
	Ring            RingSpec    `yaml:"ring"`
	GapWidth        float64     `yaml:"gap_width"`
	RotationPerStep float64     `yaml:"rotation_per_step"`
	SpeedCount      int         `yaml:"speed_count"`
	SpeedMax        float64     `yaml:"speed_max"`
	Speed           MotionSpec  `yaml:"speed"`
	Angular         MotionSpec  `yaml:"angular"`
	Jitter          JitterSpec  `yaml:"jitter"`
	LaunchDelay     int         `yaml:"launch_delay"`
	SpawnRadius     float64     `yaml:"spawn_radius"`

	BulletRef *BulletSpec `yaml:"-"`
}

type DodgeParams struct {
	Duration        float64 `yaml:"duration"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
}

type AssaultParams struct {
	Speed    float64 `yaml:"speed"`
	Duration float64 `yaml:"duration"`
	Damage   int     `yaml:"damage"`
	Radius   float64 `yaml:"radius"`
}

type ConstructParams struct {
	AnchoredRadius float64 `yaml:"anchored_radius"`
	LaunchedRadius float64 `yaml:"launched_radius"`
	Duration       float64 `yaml:"duration"`
	NonClearing    bool    `yaml:"non_clearing"`
}

type RemoteParams struct {
	Continuous   bool    `yaml:"continuous"`
	SnapToFloor  bool    `yaml:"snap_to_floor"`
	MoveSpeed    float64 `yaml:"move_speed"`
	Interval     float64 `yaml:"interval"`
	Duration     float64 `yaml:"duration"`
	DeployRadius float64 `yaml:"deploy_radius"`
	DeployTime   float64 `yaml:"deploy_time"`
}

type AttackPatternSpec struct {
	Name                  string         `yaml:"name"`
	Icon                  string         `yaml:"icon"`
	Shots                 []ShotSpec     `yaml:"shots"`
	BurstCount            int            `yaml:"burst_count"`
	BurstInterval         float64        `yaml:"burst_interval"`
	Recast                float64        `yaml:"recast"`
	Trigger               FireTrigger    `yaml:"trigger"`
	AutoRepeat            bool           `yaml:"auto_repeat"`
	FiringSpeedMultiplier *float64       `yaml:"firing_speed_multiplier"`
	GaugeGain             float64        `yaml:"gauge_gain"`
	MaxChargeHold         float64        `yaml:"max_charge_hold"`
	Kind                  SkillKind      `yaml:"kind"`
	Params                map[string]any `yaml:"params"`

	Dodge     *DodgeParams     `yaml:"-"`
	Assault   *AssaultParams   `yaml:"-"`
	Construct *ConstructParams `yaml:"-"`
	Remote    *RemoteParams    `yaml:"-"`
}

// MoveMultiplier is the owner's move speed factor while this pattern is
// charging or firing.
func (p *AttackPatternSpec) MoveMultiplier() float64 {
	if p == nil || p.FiringSpeedMultiplier == nil {
		return 1
	}
	return *p.FiringSpeedMultiplier
}

// IdleSpread is the fan width a charging slot relaxes back to.
func (p *AttackPatternSpec) IdleSpread() float64 {
	if p == nil || len(p.Shots) == 0 {
		return 0
	}
	return p.Shots[0].NWay.Spread
}

type CharacterSpec struct {
	Name        string             `yaml:"name"`
	Color       *YAMLColor         `yaml:"color"`
	NormalSpeed float64            `yaml:"normal_speed"`
	SlowSpeed   float64            `yaml:"slow_speed"`
	MaxHealth   float64            `yaml:"max_health"`
	HitRadius   float64            `yaml:"hit_radius"`
	GrazeRadius float64            `yaml:"graze_radius"`
	Z           *AttackPatternSpec `yaml:"z"`
	X           *AttackPatternSpec `yaml:"x"`
	C           *AttackPatternSpec `yaml:"c"`
	V           *AttackPatternSpec `yaml:"v"`
	Ultimate    *AttackPatternSpec `yaml:"ultimate"`
}

// Patterns returns the slot-ordered patterns; the last entry is the ultimate.
func (c *CharacterSpec) Patterns() []*AttackPatternSpec {
	if c == nil {
		return nil
	}
	return []*AttackPatternSpec{c.Z, c.X, c.C, c.V, c.Ultimate}
}

type PoolSpec struct {
	InitialSize int `yaml:"initial_size"`
	MaxSize     int `yaml:"max_size"`
}

type FanSpec struct {
	ShrinkSpeed float64 `yaml:"shrink_speed"`
	ExpandSpeed float64 `yaml:"expand_speed"`
	MinSpread   float64 `yaml:"min_spread"`
}

type RemoteTuningSpec struct {
	TargetJitter     float64 `yaml:"target_jitter"`
	FallbackDistance float64 `yaml:"fallback_distance"`
}

type ConstructTuningSpec struct {
	RotationSpeed    float64 `yaml:"rotation_speed"`
	ExpandRate       float64 `yaml:"expand_rate"`
	ShrinkRate       float64 `yaml:"shrink_rate"`
	TravelSpeed      float64 `yaml:"travel_speed"`
	DwellSeconds     float64 `yaml:"dwell_seconds"`
	HomingBias       float64 `yaml:"homing_bias"`
	ManualStartSpeed float64 `yaml:"manual_start_speed"`
	ManualAccel      float64 `yaml:"manual_accel"`
	ManualMaxSpeed   float64 `yaml:"manual_max_speed"`
	DespawnRadius    float64 `yaml:"despawn_radius"`
	// HoldRadius is the size a held construct opens to; it starts pushing
	// once past PushRadius.
	HoldRadius float64 `yaml:"hold_radius"`
	PushRadius float64 `yaml:"push_radius"`
}

type ArenaSpec struct {
	Name               string              `yaml:"name"`
	Bounds             common.Rect         `yaml:"bounds"`
	FloorY             float64             `yaml:"floor_y"`
	Pool               PoolSpec            `yaml:"pool"`
	Fan                FanSpec             `yaml:"fan"`
	LongPressThreshold float64             `yaml:"long_press_threshold"`
	Remote             RemoteTuningSpec    `yaml:"remote"`
	Construct          ConstructTuningSpec `yaml:"construct"`
	InvulnerableOnHit  float64             `yaml:"invulnerable_on_hit"`
	GaugeMax           float64             `yaml:"gauge_max"`
	GrazeGain          float64             `yaml:"graze_gain"`
	Spawns             []common.Vec2       `yaml:"spawns"`
}

type BulletFile struct {
	Bullets []*BulletSpec `yaml:"bullets"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
