package model

// Technology holds the researched per-MSP yields that drive every derived
// metric. Built once per search; never mutated once a search starts.
type Technology struct {
	DamagePerMSP    float64  `json:"damage_per_msp"`
	AgilityPerMSP   float64  `json:"agility_per_msp"`
	EPPerHS         float64  `json:"ep_per_hs"` // engine power per hull space (20 MSP)
	FuelConsumption float64  `json:"fuel_consumption"`
	MinPowerFactor  *float64 `json:"min_power_factor,omitempty"`
	MaxPowerFactor  *float64 `json:"max_power_factor,omitempty"`
}

// DefaultTechnology returns a mid-game baseline.
func DefaultTechnology() Technology {
	return Technology{
		DamagePerMSP:    20,
		AgilityPerMSP:   160,
		EPPerHS:         50,
		FuelConsumption: 0.2,
		MinPowerFactor:  Float(0.1),
		MaxPowerFactor:  Float(6),
	}
}

// EPPerMSP is the engine power yielded by one MSP of engine.
func (t Technology) EPPerMSP() float64 {
	return t.EPPerHS / 20.0
}

func (t *Technology) SetEPPerMSP(epPerMSP float64) {
	t.EPPerHS = epPerMSP * 20.0
}

// Constraints bound the design space. Nil pointers mean "unbounded".
type Constraints struct {
	IntendedTargetSpeed float64  `json:"intended_target_speed"`
	Size                float64  `json:"size"`            // total MSP budget
	MinExcessSize       float64  `json:"min_excess_size"` // slack reserved in every design
	MinCth              float64  `json:"min_cth"`
	MinSpeed            *float64 `json:"min_speed,omitempty"`
	MaxSpeed            *float64 `json:"max_speed,omitempty"`
	MinRange            *float64 `json:"min_range,omitempty"`
	MinDamage           *int     `json:"min_damage,omitempty"`
	MaxDamage           *int     `json:"max_damage,omitempty"`
	MaxEngines          *int     `json:"max_engines,omitempty"`
}

// DefaultConstraints mirrors a 6 MSP anti-ship missile with a single engine.
func DefaultConstraints() Constraints {
	return Constraints{
		IntendedTargetSpeed: 10000,
		Size:                6,
		MinRange:            Float(0),
		MinDamage:           Int(0),
		MaxEngines:          Int(1),
	}
}

// Degenerate reports whether the reserved slack leaves nothing to allocate.
func (c Constraints) Degenerate() bool {
	return c.Size <= c.MinExcessSize
}

// Float returns a pointer to v, for optional bounds.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional bounds.
func Int(v int) *int { return &v }
