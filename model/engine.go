package model

// Engine is one propulsion configuration: Count identical engines of MSP
// size each, run at Multiplier times nominal power. EP and FuelPerEPH are
// derived at construction and never change.
type Engine struct {
	Count      int     `json:"count"`
	Multiplier float64 `json:"multiplier"`
	MSP        float64 `json:"msp"`
	EP         float64 `json:"ep"`
	FuelPerEPH float64 `json:"fuel_per_eph"`
}

// NewEngine derives engine power and fuel efficiency. A nil perf uses
// DefaultModel.
func NewEngine(tech Technology, perf PerformanceModel, count int, multiplier, msp float64) Engine {
	if perf == nil {
		perf = DefaultModel()
	}
	ep := tech.EPPerMSP() * msp * multiplier
	efficiency := tech.FuelConsumption * perf.SizeModifier(msp) * perf.MultiplierModifier(tech, multiplier)
	return Engine{
		Count:      count,
		Multiplier: multiplier,
		MSP:        msp,
		EP:         Round(ep, 2),
		FuelPerEPH: efficiency,
	}
}

// FuelPerHour is the burn of a single engine.
func (e Engine) FuelPerHour() float64 {
	return e.FuelPerEPH * e.EP
}

// TotalFuelPerSecond is the burn of all engines together.
func (e Engine) TotalFuelPerSecond() float64 {
	return e.FuelPerHour() * float64(e.Count) / 3600.0
}

func (e Engine) TotalMSP() float64 {
	return e.MSP * float64(e.Count)
}

// Speed in km/s of a missile of totalMSP driven by this configuration.
func (e Engine) Speed(totalMSP float64) float64 {
	return Round(1000*e.EP*float64(e.Count)*20.0/totalMSP, Precision)
}

// RoundedSpeed is Speed to the nearest 100 km/s, the granularity speed
// bounds are compared at.
func (e Engine) RoundedSpeed(totalMSP float64) float64 {
	return Round(e.Speed(totalMSP), -2)
}

// RequiredFuelMSP is the fuel tank needed to fly desiredRange km in a
// missile of totalMSP. A nil range needs no fuel.
func (e Engine) RequiredFuelMSP(totalMSP float64, desiredRange *float64) float64 {
	if desiredRange == nil {
		return 0
	}
	speed := e.Speed(totalMSP)
	fuel := *desiredRange * e.TotalFuelPerSecond() / speed
	return fuel / FuelPerMSP
}
