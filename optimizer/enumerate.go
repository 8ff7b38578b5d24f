package optimizer

import "github.com/nstehr/ordnance/model"

// budget is the MSP still unallocated at one level of composition. Each
// level derives a new budget instead of mutating its parent's.
type budget float64

func (b budget) fits(msp float64) bool    { return msp <= float64(b) }
func (b budget) after(msp float64) budget { return b - budget(msp) }
func (b budget) remaining() float64       { return float64(b) }

// enumerate walks warhead, then engine, then agility. Whatever mass is left
// becomes fuel; tuples with no fuel left are skipped. There is no early exit:
// the whole discretized space is visited.
func (o *Optimizer) enumerate(a *axes) ([]model.Missile, Stats, error) {
	var (
		out   []model.Missile
		stats Stats
	)
	if o.calc.Degenerate() {
		return out, stats, nil
	}
	root := budget(o.calc.Size - o.calc.MinExcessSize)
	for _, warhead := range a.warheads {
		var err error
		out, err = o.composeWarhead(a, root.after(warhead), warhead, out, &stats)
		if err != nil {
			return nil, stats, err
		}
	}
	return out, stats, nil
}

func (o *Optimizer) composeWarhead(a *axes, left budget, warhead float64, out []model.Missile, stats *Stats) ([]model.Missile, error) {
	for _, engine := range a.engines {
		if !left.fits(engine.TotalMSP()) {
			continue
		}
		var err error
		out, err = o.composeEngine(a, left.after(engine.TotalMSP()), warhead, engine, out, stats)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (o *Optimizer) composeEngine(a *axes, left budget, warhead float64, engine model.Engine, out []model.Missile, stats *Stats) ([]model.Missile, error) {
	for _, agility := range a.agility {
		if !left.fits(agility) {
			continue
		}
		fuel := left.after(agility).remaining()
		if fuel <= 0 {
			stats.SkippedNoFuel++
			continue
		}
		m := model.NewMissile(o.tech, warhead, fuel, engine, agility, o.calc.MinExcessSize)
		stats.Composed++
		v, err := o.check(m)
		if err != nil {
			return nil, err
		}
		switch v {
		case accepted:
			stats.Accepted++
			out = append(out, m)
		case rejectedRange:
			stats.RejectedRange++
		case rejectedCth:
			stats.RejectedCth++
		case rejectedFilter:
			stats.RejectedFilter++
		}
	}
	return out, nil
}
