package optimizer

import (
	"fmt"

	"github.com/nstehr/ordnance/model"
)

// InvariantViolation means a composed design broke a bound that the axis
// generators already guarantee. It always indicates a bug and aborts the
// search.
type InvariantViolation struct {
	Field    string  // "size", "excess", "speed" or "damage"
	Observed float64 // value on the composed design
	Relation string  // "<=" or ">="
	Bound    float64 // configured bound
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated: %s = %v, want %s %v", e.Field, e.Observed, e.Relation, e.Bound)
}

type verdict int

const (
	accepted verdict = iota
	rejectedRange
	rejectedCth
	rejectedFilter
)

func (v verdict) String() string {
	switch v {
	case accepted:
		return "accepted"
	case rejectedRange:
		return "range"
	case rejectedCth:
		return "cth"
	case rejectedFilter:
		return "filter"
	}
	return "unknown"
}

// check applies the two-tier policy. Hard bounds return an
// *InvariantViolation; range, chance to hit and the extra filter only
// reject.
func (o *Optimizer) check(m model.Missile) (verdict, error) {
	calc := o.calc

	if size := m.Size(); size > calc.Size {
		return 0, &InvariantViolation{Field: "size", Observed: size, Relation: "<=", Bound: calc.Size}
	}
	if m.ExcessMSP < calc.MinExcessSize {
		return 0, &InvariantViolation{Field: "excess", Observed: m.ExcessMSP, Relation: ">=", Bound: calc.MinExcessSize}
	}
	speed := m.RoundedSpeed()
	if calc.MinSpeed != nil && speed < *calc.MinSpeed {
		return 0, &InvariantViolation{Field: "speed", Observed: speed, Relation: ">=", Bound: *calc.MinSpeed}
	}
	if calc.MaxSpeed != nil && speed > *calc.MaxSpeed {
		return 0, &InvariantViolation{Field: "speed", Observed: speed, Relation: "<=", Bound: *calc.MaxSpeed}
	}
	damage := m.Damage()
	if calc.MinDamage != nil && damage < *calc.MinDamage {
		return 0, &InvariantViolation{Field: "damage", Observed: float64(damage), Relation: ">=", Bound: float64(*calc.MinDamage)}
	}
	if calc.MaxDamage != nil && damage > *calc.MaxDamage {
		return 0, &InvariantViolation{Field: "damage", Observed: float64(damage), Relation: "<=", Bound: float64(*calc.MaxDamage)}
	}

	if calc.MinRange != nil && m.Range() < *calc.MinRange {
		return rejectedRange, nil
	}
	if m.Cth(calc.IntendedTargetSpeed) < calc.MinCth {
		return rejectedCth, nil
	}
	if o.filter != nil {
		ok, err := o.filter.Match(m)
		if err != nil {
			return 0, err
		}
		if !ok {
			return rejectedFilter, nil
		}
	}
	return accepted, nil
}
