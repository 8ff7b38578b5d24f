// Package config loads search scenarios from HCL files.
package config

import (
	"errors"
	"fmt"

	"github.com/nstehr/ordnance/model"
	"github.com/nstehr/ordnance/optimizer"
)

// Search is one fully resolved scenario: what to search and how to rank it.
type Search struct {
	Technology     model.Technology     `json:"technology"`
	Constraints    model.Constraints    `json:"constraints"`
	Discretization model.Discretization `json:"discretization"`
	Model          model.Model          `json:"model"`
	Keys           []string             `json:"keys,omitempty"`
	Ascending      bool                 `json:"ascending,omitempty"`
	Top            int                  `json:"top,omitempty"`
	Where          string               `json:"where,omitempty"`
}

// Default returns the baseline scenario with the standard discretization.
func Default() Search {
	return Search{
		Technology:     model.DefaultTechnology(),
		Constraints:    model.DefaultConstraints(),
		Discretization: model.DefaultDiscretization(),
		Model:          model.DefaultModel(),
		Top:            optimizer.DefaultTop,
	}
}

// Validate rejects scenarios no search can make sense of. A degenerate
// budget is allowed; it simply yields no designs.
func (s Search) Validate() error {
	var errs []error
	c := s.Constraints
	if c.Size <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %v", c.Size))
	}
	if c.MinExcessSize < 0 {
		errs = append(errs, fmt.Errorf("min_excess_size must not be negative, got %v", c.MinExcessSize))
	}
	if c.IntendedTargetSpeed <= 0 {
		errs = append(errs, fmt.Errorf("intended_target_speed must be positive, got %v", c.IntendedTargetSpeed))
	}
	if c.MinSpeed != nil && c.MaxSpeed != nil && *c.MinSpeed > *c.MaxSpeed {
		errs = append(errs, fmt.Errorf("min_speed %v above max_speed %v", *c.MinSpeed, *c.MaxSpeed))
	}
	if c.MinDamage != nil && c.MaxDamage != nil && *c.MinDamage > *c.MaxDamage {
		errs = append(errs, fmt.Errorf("min_damage %d above max_damage %d", *c.MinDamage, *c.MaxDamage))
	}
	if c.MinDamage != nil && *c.MinDamage < 0 {
		errs = append(errs, fmt.Errorf("min_damage must not be negative, got %d", *c.MinDamage))
	}
	if c.MaxDamage != nil && *c.MaxDamage < 0 {
		errs = append(errs, fmt.Errorf("max_damage must not be negative, got %d", *c.MaxDamage))
	}
	if c.MaxEngines != nil && *c.MaxEngines < 0 {
		errs = append(errs, fmt.Errorf("max_engines must not be negative, got %d", *c.MaxEngines))
	}
	t := s.Technology
	if t.DamagePerMSP < 0 || t.AgilityPerMSP < 0 || t.EPPerHS < 0 || t.FuelConsumption < 0 {
		errs = append(errs, errors.New("technology yields must not be negative"))
	}
	if t.MinPowerFactor != nil && t.MaxPowerFactor != nil && *t.MinPowerFactor > *t.MaxPowerFactor {
		errs = append(errs, fmt.Errorf("min_power_factor %v above max_power_factor %v", *t.MinPowerFactor, *t.MaxPowerFactor))
	}
	if t.MaxPowerFactor != nil && *t.MaxPowerFactor <= 0 {
		errs = append(errs, fmt.Errorf("max_power_factor must be positive, got %v", *t.MaxPowerFactor))
	}
	if s.Top < 0 {
		errs = append(errs, fmt.Errorf("top must not be negative, got %d", s.Top))
	}
	return errors.Join(errs...)
}

// Build validates the scenario and prepares its optimizer and sort key.
// A nil key means the default damage-then-hit-chance ranking.
func (s Search) Build() (*optimizer.Optimizer, optimizer.SortKey, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	opts := []optimizer.Option{optimizer.WithModel(s.Model)}
	if s.Where != "" {
		f, err := optimizer.CompileFilter(s.Where)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, optimizer.WithFilter(f))
	}
	var key optimizer.SortKey
	if len(s.Keys) > 0 {
		k, err := optimizer.CompileKeys(s.Keys)
		if err != nil {
			return nil, nil, err
		}
		key = k
	}
	return optimizer.New(s.Technology, s.Constraints, s.Discretization, opts...), key, nil
}
