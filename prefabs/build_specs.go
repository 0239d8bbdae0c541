package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeParams re-decodes a loosely typed params block into T.
func DecodeParams[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type paramsDecodeFn func(p *AttackPatternSpec) error

var skillParamsRegistry = map[SkillKind]paramsDecodeFn{
	SkillNormal:            func(p *AttackPatternSpec) error { return nil },
	SkillDodge:             decodeDodge,
	SkillAssault:           decodeAssault,
	SkillOrbitingConstruct: decodeConstruct,
	SkillRemoteBarrage:     decodeRemote,
}

func decodeSkillParams(p *AttackPatternSpec) error {
	if p.Kind == "" {
		p.Kind = SkillNormal
	}
	fn, ok := skillParamsRegistry[p.Kind]
	if !ok {
		return fmt.Errorf("%w: skill kind %q", ErrInvalidSpec, p.Kind)
	}
	return fn(p)
}

func decodeDodge(p *AttackPatternSpec) error {
	params, err := DecodeParams[DodgeParams](p.Params)
	if err != nil {
		return err
	}
	if params.Duration <= 0 {
		params.Duration = 0.5
	}
	if params.SpeedMultiplier <= 0 {
		params.SpeedMultiplier = 1.5
	}
	p.Dodge = &params
	return nil
}

func decodeAssault(p *AttackPatternSpec) error {
	params, err := DecodeParams[AssaultParams](p.Params)
	if err != nil {
		return err
	}
	if params.Speed <= 0 {
		params.Speed = 20
	}
	if params.Duration <= 0 {
		params.Duration = 0.6
	}
	if params.Radius <= 0 {
		params.Radius = 0.5
	}
	p.Assault = &params
	return nil
}

func decodeConstruct(p *AttackPatternSpec) error {
	params, err := DecodeParams[ConstructParams](p.Params)
	if err != nil {
		return err
	}
	if params.AnchoredRadius <= 0 {
		params.AnchoredRadius = 2.5
	}
	if params.LaunchedRadius <= 0 {
		params.LaunchedRadius = 2.0
	}
	if params.Duration <= 0 {
		params.Duration = 4.0
	}
	p.Construct = &params
	return nil
}

func decodeRemote(p *AttackPatternSpec) error {
	params, err := DecodeParams[RemoteParams](p.Params)
	if err != nil {
		return err
	}
	if params.DeployRadius <= 0 {
		params.DeployRadius = 0.5
	}
	if params.DeployTime <= 0 {
		params.DeployTime = 2.0
	}
	if params.Continuous {
		if params.Interval <= 0 {
			params.Interval = 0.25
		}
		if params.Duration <= 0 {
			params.Duration = 3.0
		}
	}
	p.Remote = &params
	return nil
}
