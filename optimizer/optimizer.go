// Package optimizer searches the discretized missile design space: it builds
// the warhead, engine and agility axes, composes every design that fits the
// MSP budget, applies the constraint policy and ranks what survives.
package optimizer

import (
	"log/slog"

	"github.com/nstehr/ordnance/model"
)

// Counts reports the size of each generated axis.
type Counts struct {
	Payload    int `json:"payload"`
	Propulsion int `json:"propulsion"`
	Agility    int `json:"agility"`
}

// Stats tallies what happened to every composed tuple during enumeration.
type Stats struct {
	Composed       int `json:"composed"`
	SkippedNoFuel  int `json:"skipped_no_fuel"`
	RejectedRange  int `json:"rejected_range"`
	RejectedCth    int `json:"rejected_cth"`
	RejectedFilter int `json:"rejected_filter"`
	Accepted       int `json:"accepted"`
}

// Optimizer owns one search. Axes and candidates are computed on first use
// and cached for the lifetime of the instance. Not safe for concurrent use.
type Optimizer struct {
	tech   model.Technology
	calc   model.Constraints
	tables model.Discretization
	perf   model.PerformanceModel
	filter *Filter

	axes     *axes
	missiles []model.Missile
	err      error
	done     bool
	stats    Stats
}

// Option customizes an Optimizer.
type Option func(*Optimizer)

// WithModel swaps the physical fuel model.
func WithModel(perf model.PerformanceModel) Option {
	return func(o *Optimizer) {
		if perf != nil {
			o.perf = perf
		}
	}
}

// WithFilter adds an extra soft filter every accepted design must match.
func WithFilter(f *Filter) Option {
	return func(o *Optimizer) { o.filter = f }
}

// New prepares a search. A degenerate budget (slack >= size) is not an
// error: every axis is simply empty, so callers should check Counts.
func New(tech model.Technology, calc model.Constraints, tables model.Discretization, opts ...Option) *Optimizer {
	o := &Optimizer{
		tech:   tech,
		calc:   calc,
		tables: tables,
		perf:   model.DefaultModel(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Optimizer) ensureAxes() *axes {
	if o.axes == nil {
		o.axes = buildAxes(o.tech, o.calc, o.tables, o.perf)
		slog.Debug("axes generated",
			"payload", len(o.axes.warheads),
			"propulsion", len(o.axes.engines),
			"agility", len(o.axes.agility),
			"minWarheadMSP", o.axes.minWarheadMSP,
			"minEngineMSP", o.axes.minEngineMSP,
		)
	}
	return o.axes
}

// CandidateCounts reports the size of each axis.
func (o *Optimizer) CandidateCounts() Counts {
	a := o.ensureAxes()
	return Counts{
		Payload:    len(a.warheads),
		Propulsion: len(a.engines),
		Agility:    len(a.agility),
	}
}

// MinWarheadMSP is the smallest payload candidate, or NoComposition when
// the payload axis is empty.
func (o *Optimizer) MinWarheadMSP() float64 { return o.ensureAxes().minWarheadMSP }

// MinEngineMSP is the smallest propulsion mass including the fuel needed
// for the minimum range, or NoComposition when the propulsion axis is empty.
func (o *Optimizer) MinEngineMSP() float64 { return o.ensureAxes().minEngineMSP }

// AllCandidates returns every design that passes the constraint policy.
// The result, or the invariant violation that aborted the search, is cached.
func (o *Optimizer) AllCandidates() ([]model.Missile, error) {
	if !o.done {
		o.missiles, o.stats, o.err = o.enumerate(o.ensureAxes())
		o.done = true
		slog.Debug("enumeration finished",
			"composed", o.stats.Composed,
			"accepted", o.stats.Accepted,
			"rejectedRange", o.stats.RejectedRange,
			"rejectedCth", o.stats.RejectedCth,
			"error", o.err,
		)
	}
	if o.err != nil {
		return nil, o.err
	}
	return o.missiles, nil
}

// TopCandidates ranks AllCandidates by key and keeps the first top. A nil
// key ranks by damage, then chance to hit the intended target; top <= 0
// keeps DefaultTop.
func (o *Optimizer) TopCandidates(key SortKey, descending bool, top int) ([]model.Missile, error) {
	all, err := o.AllCandidates()
	if err != nil {
		return nil, err
	}
	if key == nil {
		key = DamageThenCth(o.calc.IntendedTargetSpeed)
	}
	return Rank(all, key, descending, top)
}

// Stats is empty until AllCandidates has run.
func (o *Optimizer) Stats() Stats { return o.stats }

func (o *Optimizer) Technology() model.Technology   { return o.tech }
func (o *Optimizer) Constraints() model.Constraints { return o.calc }
