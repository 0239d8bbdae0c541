package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/danmaku/ecs/component"
	"github.com/milk9111/danmaku/prefabs"
)

const inputDispatchScript = `
__result = decide(__engine, __state)
`

// ScriptInput drives a combatant from a tengo script that defines
// decide(engine, state) and returns the slot to hold. state persists
// between ticks.
type ScriptInput struct {
	Path  string
	Debug bool

	compiled  *tengo.Compiled
	stateData *tengo.Map
	failed    bool
}

// NewScriptInput compiles the script at path, as resolved by
// prefabs.LoadScript.
func NewScriptInput(path string) (*ScriptInput, error) {
	si := &ScriptInput{Path: path}
	if err := si.Reload(); err != nil {
		return nil, err
	}
	return si, nil
}

// NewScriptInputSource compiles src directly.
func NewScriptInputSource(name string, src []byte) (*ScriptInput, error) {
	si := &ScriptInput{Path: name}
	if err := si.compile(src); err != nil {
		return nil, err
	}
	return si, nil
}

// Reload recompiles the script from disk and resets its state. On error
// the previous program stays loaded.
func (si *ScriptInput) Reload() error {
	if si == nil || strings.TrimSpace(si.Path) == "" {
		return fmt.Errorf("input script: empty path")
	}
	src, err := prefabs.LoadScript(si.Path)
	if err != nil {
		return err
	}
	return si.compile(src)
}

func (si *ScriptInput) compile(src []byte) error {
	script := tengo.NewScript([]byte(string(src) + "\n" + inputDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__result", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("input script %s: %w", si.Path, err)
	}
	si.compiled = compiled
	si.stateData = &tengo.Map{Value: map[string]tengo.Object{}}
	si.failed = false
	return nil
}

func (si *ScriptInput) SlotInput(tick uint64, self, opponent *component.Combatant) int {
	if si == nil || si.compiled == nil || self == nil {
		return 0
	}

	engine := buildInputEngine(tick, self, opponent, si.Debug)
	if err := si.compiled.Set("__engine", engine); err != nil {
		return si.fail(err)
	}
	if err := si.compiled.Set("__state", si.stateData); err != nil {
		return si.fail(err)
	}
	if err := si.compiled.Run(); err != nil {
		return si.fail(err)
	}
	si.failed = false
	return si.compiled.Get("__result").Int()
}

// fail logs the first error of a run of failures and releases every slot.
func (si *ScriptInput) fail(err error) int {
	if !si.failed {
		log.Printf("input script %s: %v", si.Path, err)
		si.failed = true
	}
	return 0
}

func buildInputEngine(tick uint64, self, opponent *component.Combatant, debug bool) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(tick)}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(self.Position.X, self.Position.Y), nil
	}}

	values["opponent_position"] = &tengo.UserFunction{Name: "opponent_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if opponent == nil {
			return vecObject(self.Position.X, self.Position.Y), nil
		}
		return vecObject(opponent.Position.X, opponent.Position.Y), nil
	}}

	values["health"] = &tengo.UserFunction{Name: "health", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: self.Health}, nil
	}}

	values["gauge"] = &tengo.UserFunction{Name: "gauge", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: self.Gauge}, nil
	}}

	values["gauge_max"] = &tengo.UserFunction{Name: "gauge_max", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: self.GaugeMax}, nil
	}}

	values["ready"] = &tengo.UserFunction{Name: "ready", Value: func(args ...tengo.Object) (tengo.Object, error) {
		slot, ok := slotArg(self, args)
		if !ok || !slot.Ready() {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["charging"] = &tengo.UserFunction{Name: "charging", Value: func(args ...tengo.Object) (tengo.Object, error) {
		slot, ok := slotArg(self, args)
		if !ok || !slot.Charging() {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["debug"] = &tengo.UserFunction{Name: "debug", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if debug {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// slotArg resolves a 1-based slot number argument.
func slotArg(c *component.Combatant, args []tengo.Object) (*component.SkillSlot, bool) {
	if len(args) < 1 {
		return nil, false
	}
	n, ok := tengo.ToInt(args[0])
	if !ok || n < 1 || n > component.SlotCount {
		return nil, false
	}
	return &c.Slots[n-1], true
}

func vecObject(x, y float64) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}
}
