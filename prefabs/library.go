package prefabs

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/milk9111/danmaku/common"
)

var (
	ErrUnknownBullet  = errors.New("prefabs: unknown bullet")
	ErrUnorderedSteps = errors.New("prefabs: mutation steps out of order")
	ErrInvalidSpec    = errors.New("prefabs: invalid spec")
)

const (
	ArenaFile   = "arena.yaml"
	BulletsFile = "bullets.yaml"

	characterPrefix = "character_"
)

// Library is the resolved, validated set of specs a world runs against.
// Specs are shared by reference and must not be mutated after NewLibrary.
type Library struct {
	Arena      ArenaSpec
	Bullets    map[string]*BulletSpec
	Characters map[string]*CharacterSpec
}

// LoadLibrary reads arena.yaml, bullets.yaml and every character_*.yaml.
func LoadLibrary() (*Library, error) {
	arena, err := LoadSpec[ArenaSpec](ArenaFile)
	if err != nil {
		return nil, err
	}
	bullets, err := LoadSpec[BulletFile](BulletsFile)
	if err != nil {
		return nil, err
	}

	names, err := Glob(characterPrefix + "*.yaml")
	if err != nil {
		return nil, err
	}
	chars := make([]*CharacterSpec, 0, len(names))
	for _, name := range names {
		spec, err := LoadSpec[CharacterSpec](name)
		if err != nil {
			return nil, err
		}
		if spec.Name == "" {
			spec.Name = CharacterName(name)
		}
		chars = append(chars, &spec)
	}

	return NewLibrary(arena, bullets.Bullets, chars)
}

// CharacterName derives a character name from its prefab file name.
func CharacterName(file string) string {
	base := path.Base(prefabPath(file))
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.TrimPrefix(base, characterPrefix)
}

func NewLibrary(arena ArenaSpec, bullets []*BulletSpec, chars []*CharacterSpec) (*Library, error) {
	lib := &Library{
		Arena:      arena,
		Bullets:    make(map[string]*BulletSpec, len(bullets)),
		Characters: make(map[string]*CharacterSpec, len(chars)),
	}
	applyArenaDefaults(&lib.Arena)

	for _, b := range bullets {
		if b == nil {
			continue
		}
		if b.Name == "" {
			return nil, fmt.Errorf("%w: bullet without a name", ErrInvalidSpec)
		}
		if _, dup := lib.Bullets[b.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate bullet %q", ErrInvalidSpec, b.Name)
		}
		applyBulletDefaults(b)
		lib.Bullets[b.Name] = b
	}
	for _, c := range chars {
		if c == nil {
			continue
		}
		if c.Name == "" {
			return nil, fmt.Errorf("%w: character without a name", ErrInvalidSpec)
		}
		applyCharacterDefaults(c)
		lib.Characters[c.Name] = c
	}

	if err := lib.resolve(); err != nil {
		return nil, err
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return lib, nil
}

func (l *Library) Bullet(name string) (*BulletSpec, bool) {
	b, ok := l.Bullets[name]
	return b, ok
}

func (l *Library) Character(name string) (*CharacterSpec, bool) {
	c, ok := l.Characters[name]
	return c, ok
}

func (l *Library) CharacterNames() []string {
	names := make([]string, 0, len(l.Characters))
	for name := range l.Characters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Library) resolve() error {
	for _, b := range l.Bullets {
		if b.SubShot == nil {
			continue
		}
		if err := l.resolveShot(b.SubShot); err != nil {
			return fmt.Errorf("bullet %s sub shot: %w", b.Name, err)
		}
	}
	for _, c := range l.Characters {
		for i, p := range c.Patterns() {
			if p == nil {
				continue
			}
			if err := decodeSkillParams(p); err != nil {
				return fmt.Errorf("character %s slot %d: %w", c.Name, i, err)
			}
			for j := range p.Shots {
				if err := l.resolveShot(&p.Shots[j]); err != nil {
					return fmt.Errorf("character %s pattern %s shot %d: %w", c.Name, p.Name, j, err)
				}
			}
		}
	}
	return nil
}

// resolveShot links a shot to its bullet. Empty bullet names are allowed
// and leave the shot unusable.
func (l *Library) resolveShot(s *ShotSpec) error {
	applyShotDefaults(s)
	if s.Bullet == "" {
		s.BulletRef = nil
		return nil
	}
	b, ok := l.Bullets[s.Bullet]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBullet, s.Bullet)
	}
	s.BulletRef = b
	return nil
}

// Validate checks invariants the simulation relies on but never rechecks
// at tick time.
func (l *Library) Validate() error {
	for _, b := range l.Bullets {
		for i := 1; i < len(b.Steps); i++ {
			if b.Steps[i].TriggerFrame < b.Steps[i-1].TriggerFrame {
				return fmt.Errorf("%w: bullet %s step %d (frame %d after %d)",
					ErrUnorderedSteps, b.Name, i, b.Steps[i].TriggerFrame, b.Steps[i-1].TriggerFrame)
			}
		}
		switch b.Collider.Shape {
		case ShapeCircle, ShapeCapsule:
		case ShapePolygon:
			if len(b.Collider.Vertices) < 3 {
				return fmt.Errorf("%w: bullet %s polygon needs 3 vertices", ErrInvalidSpec, b.Name)
			}
		default:
			return fmt.Errorf("%w: bullet %s collider shape %q", ErrInvalidSpec, b.Name, b.Collider.Shape)
		}
	}
	for _, c := range l.Characters {
		for _, p := range c.Patterns() {
			if p == nil {
				continue
			}
			switch p.Trigger {
			case TriggerInstant, TriggerOnRelease:
			default:
				return fmt.Errorf("%w: pattern %s trigger %q", ErrInvalidSpec, p.Name, p.Trigger)
			}
		}
	}
	b := l.Arena.Bounds
	if b.MaxX <= b.MinX || b.MaxY <= b.MinY {
		return fmt.Errorf("%w: arena bounds are empty", ErrInvalidSpec)
	}
	if l.Arena.Pool.MaxSize < l.Arena.Pool.InitialSize {
		return fmt.Errorf("%w: pool max_size below initial_size", ErrInvalidSpec)
	}
	return nil
}

func applyArenaDefaults(a *ArenaSpec) {
	if a.Bounds == (common.Rect{}) {
		a.Bounds = common.Rect{MinX: -10, MinY: -6, MaxX: 10, MaxY: 6}
	}
	if a.FloorY == 0 {
		a.FloorY = -5.5
	}
	if a.Pool.InitialSize <= 0 {
		a.Pool.InitialSize = 500
	}
	if a.Pool.MaxSize <= 0 {
		a.Pool.MaxSize = 4000
	}
	setDefault(&a.Fan.ShrinkSpeed, 200)
	setDefault(&a.Fan.ExpandSpeed, 400)
	setDefault(&a.Fan.MinSpread, 10)
	setDefault(&a.LongPressThreshold, 0.3)
	setDefault(&a.Remote.TargetJitter, 1.5)
	setDefault(&a.Remote.FallbackDistance, 7)

	ct := &a.Construct
	setDefault(&ct.RotationSpeed, 300)
	setDefault(&ct.ExpandRate, 8)
	setDefault(&ct.ShrinkRate, 5)
	setDefault(&ct.TravelSpeed, 18)
	setDefault(&ct.DwellSeconds, 0.6)
	setDefault(&ct.HomingBias, 0.7)
	setDefault(&ct.ManualStartSpeed, 1)
	setDefault(&ct.ManualAccel, 25)
	setDefault(&ct.ManualMaxSpeed, 15)
	setDefault(&ct.DespawnRadius, 0.05)
	setDefault(&ct.HoldRadius, 1)
	setDefault(&ct.PushRadius, 0.6)

	setDefault(&a.InvulnerableOnHit, 5)
	setDefault(&a.GaugeMax, 100)
	setDefault(&a.GrazeGain, 1)
	if len(a.Spawns) == 0 {
		a.Spawns = []common.Vec2{{X: -6, Y: 0}, {X: 6, Y: 0}}
	}
}

func applyBulletDefaults(b *BulletSpec) {
	if b.Collider.Shape == "" {
		b.Collider.Shape = ShapeCircle
	}
	if b.Collider.Radius <= 0 && b.Collider.Shape != ShapePolygon {
		b.Collider.Radius = 0.1
	}
	if b.Rotation == "" {
		b.Rotation = RotationFaceMovement
	}
	if b.Size == "" {
		b.Size = SizeMiddle
	}
	if b.Scale == (common.Vec2{}) {
		b.Scale = common.Vec2{X: 1, Y: 1}
	}
	if b.Damage <= 0 {
		b.Damage = 1
	}
}

func applyShotDefaults(s *ShotSpec) {
	if s.Pattern == "" {
		s.Pattern = PatternSingle
	}
	if s.Angle == "" {
		s.Angle = AngleFixed
	}
	if s.SpeedCount < 1 {
		s.SpeedCount = 1
	}
}

func applyCharacterDefaults(c *CharacterSpec) {
	setDefault(&c.NormalSpeed, 5)
	setDefault(&c.SlowSpeed, 2.5)
	setDefault(&c.MaxHealth, 5)
	setDefault(&c.HitRadius, 0.15)
	setDefault(&c.GrazeRadius, 0.6)
	for _, p := range c.Patterns() {
		if p == nil {
			continue
		}
		if p.BurstCount < 1 {
			p.BurstCount = 1
		}
		if p.Trigger == "" {
			p.Trigger = TriggerInstant
		}
		if p.Kind == "" {
			p.Kind = SkillNormal
		}
	}
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}
