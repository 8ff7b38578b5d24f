package optimizer

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/ordnance/model"
)

// DesignEnv exposes a design's metrics to sort-key and filter expressions,
// e.g. `Damage()`, `Cth(5000.0)` or `Range() > 1e8 && MR() >= 20`.
type DesignEnv struct {
	Missile model.Missile
}

func (e DesignEnv) Damage() int                     { return e.Missile.Damage() }
func (e DesignEnv) Speed() float64                  { return e.Missile.Speed() }
func (e DesignEnv) RoundedSpeed() float64           { return e.Missile.RoundedSpeed() }
func (e DesignEnv) Range() float64                  { return e.Missile.Range() }
func (e DesignEnv) RangeMkm() float64               { return e.Missile.Range() / 1e6 }
func (e DesignEnv) FlightTime() float64             { return e.Missile.FlightTime() }
func (e DesignEnv) Fuel() float64                   { return e.Missile.Fuel() }
func (e DesignEnv) MR() int                         { return e.Missile.MR() }
func (e DesignEnv) Cth(targetSpeed float64) float64 { return e.Missile.Cth(targetSpeed) }
func (e DesignEnv) Size() float64                   { return e.Missile.Size() }
func (e DesignEnv) WarheadMSP() float64             { return e.Missile.WarheadMSP }
func (e DesignEnv) FuelMSP() float64                { return e.Missile.FuelMSP }
func (e DesignEnv) AgilityMSP() float64             { return e.Missile.AgilityMSP }
func (e DesignEnv) EngineMSP() float64              { return e.Missile.Engine.TotalMSP() }
func (e DesignEnv) Engines() int                    { return e.Missile.Engine.Count }
func (e DesignEnv) Multiplier() float64             { return e.Missile.Engine.Multiplier }
func (e DesignEnv) EP() float64                     { return e.Missile.Engine.EP }

// CompileKeys compiles one expression per key component. Each must
// evaluate to a number or a bool.
func CompileKeys(srcs []string) (SortKey, error) {
	if len(srcs) == 0 {
		return nil, fmt.Errorf("no sort key expressions")
	}
	programs := make([]*vm.Program, len(srcs))
	for i, src := range srcs {
		p, err := expr.Compile(src, expr.Env(DesignEnv{}))
		if err != nil {
			return nil, fmt.Errorf("compile sort key %q: %w", src, err)
		}
		programs[i] = p
	}
	return func(m model.Missile) ([]float64, error) {
		env := DesignEnv{Missile: m}
		key := make([]float64, len(programs))
		for i, p := range programs {
			out, err := vm.Run(p, env)
			if err != nil {
				return nil, fmt.Errorf("sort key %q: %w", srcs[i], err)
			}
			v, err := toFloat(out)
			if err != nil {
				return nil, fmt.Errorf("sort key %q: %w", srcs[i], err)
			}
			key[i] = v
		}
		return key, nil
	}, nil
}

// Filter is a compiled boolean condition on a design.
type Filter struct {
	src     string
	program *vm.Program
}

// CompileFilter compiles a condition such as `MR() >= 20 && Engines() == 1`.
func CompileFilter(src string) (*Filter, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty filter expression")
	}
	p, err := expr.Compile(src, expr.Env(DesignEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Filter{src: src, program: p}, nil
}

func (f *Filter) Match(m model.Missile) (bool, error) {
	out, err := vm.Run(f.program, DesignEnv{Missile: m})
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.src, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func (f *Filter) String() string { return f.src }

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("result %v (%T) is not a number", v, v)
}
