package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/nstehr/ordnance/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// fileRoot decodes the top-level blocks of a search file.
type fileRoot struct {
	Technology     technologyBlock      `hcl:"technology,block"`
	Constraints    constraintsBlock     `hcl:"constraints,block"`
	Model          *modelBlock          `hcl:"model,block"`
	Ranking        *rankingBlock        `hcl:"ranking,block"`
	Discretization *discretizationBlock `hcl:"discretization,block"`
}

type technologyBlock struct {
	Warhead         *string  `hcl:"warhead,optional"`
	DamagePerMSP    *float64 `hcl:"damage_per_msp,optional"`
	AgilityPerMSP   *float64 `hcl:"agility_per_msp,optional"`
	Engine          *string  `hcl:"engine,optional"`
	EPPerHS         *float64 `hcl:"ep_per_hs,optional"`
	EPPerMSP        *float64 `hcl:"ep_per_msp,optional"`
	FuelConsumption *float64 `hcl:"fuel_consumption,optional"`
	MinPowerFactor  *float64 `hcl:"min_power_factor,optional"`
	MaxPowerFactor  *float64 `hcl:"max_power_factor,optional"`
}

type constraintsBlock struct {
	Size                float64  `hcl:"size"`
	MinExcessSize       *float64 `hcl:"min_excess_size,optional"`
	IntendedTargetSpeed *float64 `hcl:"intended_target_speed,optional"`
	MinCth              *float64 `hcl:"min_cth,optional"`
	MinSpeed            *float64 `hcl:"min_speed,optional"`
	MaxSpeed            *float64 `hcl:"max_speed,optional"`
	MinRange            *float64 `hcl:"min_range,optional"`
	MinDamage           *int     `hcl:"min_damage,optional"`
	MaxDamage           *int     `hcl:"max_damage,optional"`
	MaxEngines          *int     `hcl:"max_engines,optional"`
}

type modelBlock struct {
	SizeCurve *string `hcl:"size_curve,optional"`
	Ceiling   *string `hcl:"ceiling,optional"`
}

type rankingBlock struct {
	Keys      []string `hcl:"keys,optional"`
	Ascending *bool    `hcl:"ascending,optional"`
	Top       *int     `hcl:"top,optional"`
	Where     *string  `hcl:"where,optional"`
}

type discretizationBlock struct {
	EngineMSPs  []float64 `hcl:"engine_msps,optional"`
	Multipliers []float64 `hcl:"multipliers,optional"`
}

// Load reads and resolves one search file.
func Load(path string) (*Search, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read search file: %w", err)
	}
	return Parse(src, path)
}

// Parse resolves HCL source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Search, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse search file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode search file %s: %w", filename, diags)
	}

	s := Default()
	if err := root.Technology.apply(&s.Technology); err != nil {
		return nil, fmt.Errorf("search file %s: technology: %w", filename, err)
	}
	root.Constraints.apply(&s.Constraints)
	if root.Model != nil {
		m, err := model.ParseModel(deref(root.Model.SizeCurve), deref(root.Model.Ceiling))
		if err != nil {
			return nil, fmt.Errorf("search file %s: model: %w", filename, err)
		}
		s.Model = m
	}
	if r := root.Ranking; r != nil {
		s.Keys = r.Keys
		if r.Ascending != nil {
			s.Ascending = *r.Ascending
		}
		if r.Top != nil {
			s.Top = *r.Top
		}
		s.Where = deref(r.Where)
	}
	if d := root.Discretization; d != nil {
		if d.EngineMSPs != nil {
			s.Discretization.EngineMSPs = d.EngineMSPs
		}
		if d.Multipliers != nil {
			s.Discretization.Multipliers = d.Multipliers
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("search file %s: %w", filename, err)
	}
	slog.Debug("search file loaded",
		"file", filename,
		"size", s.Constraints.Size,
		"model", s.Model.String(),
		"engineSizes", len(s.Discretization.EngineMSPs),
		"multipliers", len(s.Discretization.Multipliers),
	)
	return &s, nil
}

func (b technologyBlock) apply(t *model.Technology) error {
	if b.Warhead != nil && b.DamagePerMSP != nil {
		return fmt.Errorf("set either warhead or damage_per_msp, not both")
	}
	if b.Warhead != nil {
		v, ok := model.WarheadTech[*b.Warhead]
		if !ok {
			return fmt.Errorf("unknown warhead technology %q", *b.Warhead)
		}
		t.DamagePerMSP = v
	}
	if b.DamagePerMSP != nil {
		t.DamagePerMSP = *b.DamagePerMSP
	}
	if b.AgilityPerMSP != nil {
		t.AgilityPerMSP = *b.AgilityPerMSP
	}

	set := 0
	for _, p := range []bool{b.Engine != nil, b.EPPerHS != nil, b.EPPerMSP != nil} {
		if p {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("set only one of engine, ep_per_hs and ep_per_msp")
	}
	switch {
	case b.Engine != nil:
		v, ok := model.EngineTech[*b.Engine]
		if !ok {
			return fmt.Errorf("unknown engine technology %q", *b.Engine)
		}
		t.EPPerHS = v
	case b.EPPerHS != nil:
		t.EPPerHS = *b.EPPerHS
	case b.EPPerMSP != nil:
		t.SetEPPerMSP(*b.EPPerMSP)
	}

	if b.FuelConsumption != nil {
		t.FuelConsumption = *b.FuelConsumption
	}
	if b.MinPowerFactor != nil {
		t.MinPowerFactor = b.MinPowerFactor
	}
	if b.MaxPowerFactor != nil {
		t.MaxPowerFactor = b.MaxPowerFactor
	}
	return nil
}

// apply overlays the block on c. max_engines = 0 lifts the engine cap.
func (b constraintsBlock) apply(c *model.Constraints) {
	c.Size = b.Size
	if b.MinExcessSize != nil {
		c.MinExcessSize = *b.MinExcessSize
	}
	if b.IntendedTargetSpeed != nil {
		c.IntendedTargetSpeed = *b.IntendedTargetSpeed
	}
	if b.MinCth != nil {
		c.MinCth = *b.MinCth
	}
	c.MinSpeed = b.MinSpeed
	c.MaxSpeed = b.MaxSpeed
	c.MinRange = b.MinRange
	c.MinDamage = b.MinDamage
	c.MaxDamage = b.MaxDamage
	if b.MaxEngines != nil {
		c.MaxEngines = b.MaxEngines
		if *b.MaxEngines == 0 {
			c.MaxEngines = nil
		}
	}
}

// evalContext exposes the named technology tables and a few list helpers,
// so files can write `damage_per_msp = warhead_tech["Antimatter"]` or
// `multipliers = range(0.5, 3.05, 0.05)`.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"warhead_tech":   numberMap(model.WarheadTech),
			"engine_tech":    numberMap(model.EngineTech),
			"agility_tech":   numberList(model.AgilityTech),
			"fuel_tech":      numberList(model.FuelConsumptionTech),
			"min_power_tech": numberList(model.MinPowerFactorTech),
			"max_power_tech": numberList(model.MaxPowerFactorTech),
		},
		Functions: map[string]function.Function{
			"range":  stdlib.RangeFunc,
			"concat": stdlib.ConcatFunc,
			"min":    stdlib.MinFunc,
			"max":    stdlib.MaxFunc,
		},
	}
}

func numberMap(m map[string]float64) cty.Value {
	vals := make(map[string]cty.Value, len(m))
	for k, v := range m {
		vals[k] = cty.NumberFloatVal(v)
	}
	return cty.MapVal(vals)
}

func numberList(vs []float64) cty.Value {
	vals := make([]cty.Value, len(vs))
	for i, v := range vs {
		vals[i] = cty.NumberFloatVal(v)
	}
	return cty.ListVal(vals)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
