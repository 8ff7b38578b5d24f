package optimizer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nstehr/ordnance/model"
)

func TestWarheadAxis(t *testing.T) {
	example, exampleCalc := exampleSearch()

	small := model.DefaultConstraints()
	small.MaxDamage = model.Int(5)

	// 63 / 5.6 ceils to exactly 11.25, which floors to 62 damage.
	bumped := model.Technology{DamagePerMSP: 5.6}
	bumpedCalc := model.DefaultConstraints()
	bumpedCalc.Size = 13
	bumpedCalc.MinExcessSize = 1
	bumpedCalc.MinDamage = model.Int(63)
	bumpedCalc.MaxDamage = model.Int(63)

	tests := []struct {
		name     string
		tech     model.Technology
		calc     model.Constraints
		minLevel int
		want     []float64
	}{
		{"example", example, exampleCalc, 13, []float64{2.1667, 2.3334}},
		{"default technology", model.DefaultTechnology(), small, 0, []float64{0, 0.05, 0.1, 0.1501, 0.2, 0.25}},
		{"floor falls short", bumped, bumpedCalc, 63, []float64{11.2501}},
		{"no warhead tech", model.Technology{}, small, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := warheadAxis(tt.tech, tt.calc)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("warheadAxis mismatch (-want +got):\n%s", diff)
			}
			for i, msp := range got {
				level := tt.minLevel + i
				if dmg := int(math.Floor(tt.tech.DamagePerMSP * msp)); dmg < level {
					t.Errorf("mass %v yields %d damage, want at least %d", msp, dmg, level)
				}
			}
		})
	}
}

func TestWarheadAxisBudgetCapsLevels(t *testing.T) {
	calc := model.DefaultConstraints()
	calc.MaxDamage = nil
	got := warheadAxis(model.DefaultTechnology(), calc)
	// 6 MSP at 20 dmg/MSP
	if len(got) != 121 {
		t.Fatalf("levels = %d, want 121", len(got))
	}
	if last := got[len(got)-1]; last > calc.Size-calc.MinExcessSize {
		t.Errorf("largest warhead %v exceeds budget", last)
	}
}

func TestAgilityAxis(t *testing.T) {
	tech, calc := exampleSearch()
	const minWarhead, minEngine = 2.1667, 5.653116955104056

	got := agilityAxis(tech, calc, minWarhead, minEngine)
	want := []float64{0, 0.1253, 0.3752, 0.6252, 0.8752, 1.1253, 1.3753, 1.6253, 1.8753, 2.1252, 2.3752, 2.6252, 2.8752, 3.1252}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("agilityAxis mismatch (-want +got):\n%s", diff)
	}

	mspPerMR := 1.0 / (tech.AgilityPerMSP / calc.Size)
	first := model.Round(10*gridStep*mspPerMR+0.5*calc.Size/tech.AgilityPerMSP, gridPrecision)
	if got[0] != 0 || got[1] != first {
		t.Errorf("leading steps = %v, %v, want 0, %v", got[0], got[1], first)
	}
	for i, msp := range got[1:] {
		if mr := int(msp * tech.AgilityPerMSP / calc.Size); mr != i {
			t.Errorf("step %d at %v gives %d MR", i, msp, mr)
		}
	}
}

func TestAgilityAxisZeroOnly(t *testing.T) {
	tech, calc := exampleSearch()
	noAgility := tech
	noAgility.AgilityPerMSP = 0

	tests := []struct {
		name      string
		tech      model.Technology
		minEngine float64
	}{
		{"no agility tech", noAgility, 5.65},
		{"no engine fits", tech, NoComposition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agilityAxis(tt.tech, calc, 2.1667, tt.minEngine)
			if diff := cmp.Diff([]float64{0}, got); diff != "" {
				t.Errorf("agilityAxis mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

type engineKey struct {
	MSP        float64
	Multiplier float64
	Count      int
}

func engineKeys(es []model.Engine) []engineKey {
	out := make([]engineKey, len(es))
	for i, e := range es {
		out[i] = engineKey{e.MSP, e.Multiplier, e.Count}
	}
	return out
}

func TestEngineAxis(t *testing.T) {
	tech, calc := exampleSearch()
	calc.MinSpeed = nil
	calc.MaxSpeed = nil
	const minWarhead = 2.1667
	tables := model.Discretization{
		EngineMSPs:  []float64{0, 1, 2},
		Multipliers: []float64{0.2, 0.25, 1, 2},
	}

	hardTech := tech
	hardTech.MaxPowerFactor = model.Float(1)
	hard := model.Model{Curve: model.CurveSqrt, Ceiling: model.CeilingHard}

	tests := []struct {
		name       string
		tech       model.Technology
		perf       model.PerformanceModel
		maxEngines *int
		// engines kept per (msp, multiplier) pair
		counts map[float64]int
		mults  []float64
	}{
		// 8.8333 MSP left: eight 1 MSP engines, four 2 MSP engines
		{"uncapped", tech, model.DefaultModel(), nil, map[float64]int{1: 8, 2: 4}, []float64{0.25, 1, 2}},
		{"capped", tech, model.DefaultModel(), model.Int(3), map[float64]int{1: 3, 2: 3}, []float64{0.25, 1, 2}},
		{"hard ceiling", hardTech, hard, nil, map[float64]int{1: 8, 2: 4}, []float64{0.25, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := calc
			c.MaxEngines = tt.maxEngines
			got := engineAxis(tt.tech, c, tables, tt.perf, minWarhead)

			var want []engineKey
			for _, msp := range []float64{1, 2} {
				for _, m := range tt.mults {
					for nr := 1; nr <= tt.counts[msp]; nr++ {
						want = append(want, engineKey{msp, m, nr})
					}
				}
			}
			if diff := cmp.Diff(want, engineKeys(got)); diff != "" {
				t.Errorf("engineAxis mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngineAxisSpeedAtFullSize(t *testing.T) {
	tech, calc := exampleSearch()
	calc.MinSpeed = model.Float(5000)
	calc.MaxSpeed = nil
	calc.MaxEngines = nil
	tables := model.Discretization{
		EngineMSPs:  []float64{1, 2},
		Multipliers: []float64{0.25, 1, 2},
	}

	got := engineAxis(tech, calc, tables, model.DefaultModel(), 2.1667)
	// Two 2 MSP engines at x2 make 4300 km/s in 12 MSP, although they
	// would clear 5000 in any design under 10 MSP.
	want := []engineKey{
		{1, 2, 5}, {1, 2, 6}, {1, 2, 7}, {1, 2, 8},
		{2, 2, 3}, {2, 2, 4},
	}
	if diff := cmp.Diff(want, engineKeys(got)); diff != "" {
		t.Fatalf("engineAxis mismatch (-want +got):\n%s", diff)
	}
	for _, e := range got {
		if s := e.RoundedSpeed(calc.Size); s < *calc.MinSpeed {
			t.Errorf("engine %+v kept at %v km/s", e, s)
		}
	}
}
