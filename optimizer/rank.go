package optimizer

import (
	"cmp"
	"slices"

	"github.com/nstehr/ordnance/model"
)

// DefaultTop is how many designs TopCandidates keeps when asked for none.
const DefaultTop = 5

// SortKey maps a design to a key compared lexicographically.
type SortKey func(m model.Missile) ([]float64, error)

// DamageThenCth is the default ranking: damage first, then chance to hit a
// target moving at targetSpeed.
func DamageThenCth(targetSpeed float64) SortKey {
	return func(m model.Missile) ([]float64, error) {
		return []float64{float64(m.Damage()), m.Cth(targetSpeed)}, nil
	}
}

// ByCth ranks by chance to hit alone.
func ByCth(targetSpeed float64) SortKey {
	return func(m model.Missile) ([]float64, error) {
		return []float64{m.Cth(targetSpeed)}, nil
	}
}

// Rank sorts missiles by key and returns at most top of them. Designs with
// equal keys keep their enumeration order, in either direction. The input
// slice is not modified.
func Rank(missiles []model.Missile, key SortKey, descending bool, top int) ([]model.Missile, error) {
	if top <= 0 {
		top = DefaultTop
	}

	type keyed struct {
		m   model.Missile
		key []float64
	}
	ks := make([]keyed, len(missiles))
	for i, m := range missiles {
		k, err := key(m)
		if err != nil {
			return nil, err
		}
		ks[i] = keyed{m: m, key: k}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		c := compareKeys(a.key, b.key)
		if descending {
			return -c
		}
		return c
	})

	n := min(top, len(ks))
	out := make([]model.Missile, n)
	for i := range out {
		out[i] = ks[i].m
	}
	return out, nil
}

func compareKeys(a, b []float64) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}
