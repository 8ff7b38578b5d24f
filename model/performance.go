package model

import (
	"fmt"
	"math"
)

// PerformanceModel is the physical fuel model behind an engine design.
// Swapping it changes fuel burn and multiplier admission without touching
// the search.
type PerformanceModel interface {
	// SizeModifier scales fuel burn by engine size; small engines burn more.
	SizeModifier(msp float64) float64
	// MultiplierModifier scales fuel burn by the power multiplier.
	MultiplierModifier(tech Technology, multiplier float64) float64
	// Admits reports whether a multiplier may be used at all.
	Admits(tech Technology, multiplier float64) bool
}

// SizeCurve selects the engine-size efficiency curve.
type SizeCurve string

const (
	CurveSqrt  SizeCurve = "sqrt"  // sqrt(200 / msp)
	CurvePower SizeCurve = "power" // 1 / (msp/5)^0.683
)

// CeilingPolicy decides what the technology's max power factor means.
type CeilingPolicy string

const (
	// CeilingSoft admits any multiplier and applies a boost penalty above the max.
	CeilingSoft CeilingPolicy = "soft"
	// CeilingHard rejects multipliers above the max.
	CeilingHard CeilingPolicy = "hard"
)

// Model is the configurable PerformanceModel.
type Model struct {
	Curve   SizeCurve     `json:"size_curve"`
	Ceiling CeilingPolicy `json:"ceiling"`
}

// DefaultModel uses the square-root size curve and a soft ceiling.
func DefaultModel() Model {
	return Model{Curve: CurveSqrt, Ceiling: CeilingSoft}
}

// ParseModel builds a Model from its names. Empty names take the default.
func ParseModel(curve, ceiling string) (Model, error) {
	m := DefaultModel()
	switch SizeCurve(curve) {
	case "":
	case CurveSqrt, CurvePower:
		m.Curve = SizeCurve(curve)
	default:
		return Model{}, fmt.Errorf("unknown size curve %q (want %q or %q)", curve, CurveSqrt, CurvePower)
	}
	switch CeilingPolicy(ceiling) {
	case "":
	case CeilingSoft, CeilingHard:
		m.Ceiling = CeilingPolicy(ceiling)
	default:
		return Model{}, fmt.Errorf("unknown ceiling policy %q (want %q or %q)", ceiling, CeilingSoft, CeilingHard)
	}
	return m, nil
}

func (m Model) SizeModifier(msp float64) float64 {
	if m.Curve == CurvePower {
		return 1.0 / math.Pow(msp/5.0, 0.683)
	}
	return math.Sqrt(200.0 / msp)
}

func (m Model) MultiplierModifier(tech Technology, multiplier float64) float64 {
	boost := 1.0
	if limit := tech.MaxPowerFactor; limit != nil && multiplier > *limit {
		boost = (multiplier-*limit)*4.0/(*limit) + 1.0
	}
	return boost * math.Pow(multiplier, 2.5)
}

func (m Model) Admits(tech Technology, multiplier float64) bool {
	if m.Ceiling == CeilingHard && tech.MaxPowerFactor != nil {
		return multiplier <= *tech.MaxPowerFactor
	}
	return true
}

func (m Model) String() string {
	return fmt.Sprintf("%s/%s", m.Curve, m.Ceiling)
}
