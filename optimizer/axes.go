package optimizer

import (
	"math"

	"github.com/nstehr/ordnance/model"
)

// NoComposition is the minimum mass reported for an empty axis. It exceeds
// any realistic budget, so nothing downstream of it can be composed.
const NoComposition = 10000000.0

// Axis masses sit on a 4-decimal grid, coarser than model.Precision so
// composed metrics never straddle a grid step.
const (
	gridPrecision = 4
	gridScale     = 1e4
	gridStep      = 1e-4
)

type axes struct {
	warheads      []float64
	engines       []model.Engine
	agility       []float64
	minWarheadMSP float64
	minEngineMSP  float64
}

func buildAxes(tech model.Technology, calc model.Constraints, tables model.Discretization, perf model.PerformanceModel) *axes {
	a := &axes{minWarheadMSP: NoComposition, minEngineMSP: NoComposition}
	if calc.Degenerate() {
		return a
	}

	a.warheads = warheadAxis(tech, calc)
	if len(a.warheads) > 0 {
		a.minWarheadMSP = minFloat(a.warheads)
	}

	a.engines = engineAxis(tech, calc, tables, perf, a.minWarheadMSP)
	if len(a.engines) > 0 {
		a.minEngineMSP = math.Inf(1)
		for _, e := range a.engines {
			a.minEngineMSP = math.Min(a.minEngineMSP, e.TotalMSP()+e.RequiredFuelMSP(calc.Size, calc.MinRange))
		}
	}

	a.agility = agilityAxis(tech, calc, a.minWarheadMSP, a.minEngineMSP)
	return a
}

// warheadAxis yields one warhead mass per whole damage level in
// [MinDamage, MaxDamage]. Each mass is dmg/DamagePerMSP rounded up onto the
// grid, bumped one step when its floored damage still falls short. Float
// noise in the ceiling can leave a mass one step above the least that
// suffices (0.1501 rather than 0.15 for level 3 at 20 dmg/MSP).
func warheadAxis(tech model.Technology, calc model.Constraints) []float64 {
	maxMSP := calc.Size - calc.MinExcessSize
	if maxMSP <= 0 || tech.DamagePerMSP <= 0 {
		return nil
	}
	mspPerDamage := 1.0 / tech.DamagePerMSP

	minDmg := 0
	if calc.MinDamage != nil {
		minDmg = *calc.MinDamage
	}
	maxDmg := int(math.Floor(maxMSP / mspPerDamage))
	if calc.MaxDamage != nil && *calc.MaxDamage < maxDmg {
		maxDmg = *calc.MaxDamage
	}

	var out []float64
	for dmg := minDmg; dmg <= maxDmg; dmg++ {
		msp := math.Ceil(float64(dmg)*mspPerDamage*gridScale) / gridScale
		if int(math.Floor(tech.DamagePerMSP*msp)) < dmg {
			msp = model.Round(msp+gridStep, gridPrecision)
		}
		out = append(out, msp)
	}
	return out
}

// engineAxis crosses engine sizes, multipliers and engine counts. Speed
// bounds are probed at the full design size; the enumerator re-checks them
// on each composed design.
func engineAxis(tech model.Technology, calc model.Constraints, tables model.Discretization, perf model.PerformanceModel, minWarheadMSP float64) []model.Engine {
	maxMSP := calc.Size - calc.MinExcessSize - minWarheadMSP
	var out []model.Engine
	for _, msp := range tables.EngineMSPs {
		if msp <= 0 {
			continue
		}
		maxNr := int(math.Floor(maxMSP / msp))
		if calc.MaxEngines != nil && *calc.MaxEngines < maxNr {
			maxNr = *calc.MaxEngines
		}
		if maxNr < 1 {
			continue
		}
		for _, multiplier := range tables.Multipliers {
			if !admitsMultiplier(tech, perf, multiplier) {
				continue
			}
			for nr := 1; nr <= maxNr; nr++ {
				e := model.NewEngine(tech, perf, nr, multiplier, msp)
				if speedInBounds(calc, e.RoundedSpeed(calc.Size)) {
					out = append(out, e)
				}
			}
		}
	}
	return out
}

func admitsMultiplier(tech model.Technology, perf model.PerformanceModel, multiplier float64) bool {
	if multiplier <= 0 {
		return false
	}
	if tech.MinPowerFactor != nil && multiplier < *tech.MinPowerFactor {
		return false
	}
	return perf.Admits(tech, multiplier)
}

func speedInBounds(calc model.Constraints, speed float64) bool {
	if calc.MinSpeed != nil && speed < *calc.MinSpeed {
		return false
	}
	if calc.MaxSpeed != nil && speed > *calc.MaxSpeed {
		return false
	}
	return true
}

// agilityAxis steps agility mass one maneuver point at a time through what
// the smallest warhead and engine leave over. The first non-zero step sits
// half a point in, so rounding lands on each whole MR. Zero agility is
// always a candidate.
func agilityAxis(tech model.Technology, calc model.Constraints, minWarheadMSP, minEngineMSP float64) []float64 {
	out := []float64{0}
	if tech.AgilityPerMSP <= 0 || calc.Size <= 0 {
		return out
	}
	maxMSP := calc.Size - calc.MinExcessSize - minWarheadMSP - minEngineMSP
	mspPerMR := 1.0 / (tech.AgilityPerMSP / calc.Size)
	minStep := 10 * gridStep * mspPerMR
	initial := minStep + 0.5*calc.Size/tech.AgilityPerMSP

	steps := int(math.Floor((maxMSP - initial) / mspPerMR))
	for k := 0; k <= steps; k++ {
		out = append(out, model.Round(initial+float64(k)*mspPerMR, gridPrecision))
	}
	return out
}

func minFloat(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Min(m, v)
	}
	return m
}
