package model

import "math"

// Missile is one fully composed design. FuelMSP is whatever the other
// components left of the budget; it is always positive for designs the
// optimizer builds. All metrics are derived on demand from the stored
// masses, so a Missile is safe to share and compare.
type Missile struct {
	Tech       Technology `json:"-"`
	WarheadMSP float64    `json:"warhead_msp"`
	FuelMSP    float64    `json:"fuel_msp"`
	Engine     Engine     `json:"engine"`
	AgilityMSP float64    `json:"agility_msp"`
	ExcessMSP  float64    `json:"excess_msp"`
}

func NewMissile(tech Technology, warheadMSP, fuelMSP float64, engine Engine, agilityMSP, excessMSP float64) Missile {
	return Missile{
		Tech:       tech,
		WarheadMSP: warheadMSP,
		FuelMSP:    fuelMSP,
		Engine:     engine,
		AgilityMSP: agilityMSP,
		ExcessMSP:  excessMSP,
	}
}

// Size is the total MSP of all components.
func (m Missile) Size() float64 {
	size := m.WarheadMSP + m.Engine.TotalMSP() + m.FuelMSP + m.AgilityMSP + m.ExcessMSP
	return Round(size, Precision)
}

func (m Missile) Speed() float64 {
	return Round(m.Engine.Speed(m.Size()), Precision)
}

func (m Missile) RoundedSpeed() float64 {
	return m.Engine.RoundedSpeed(m.Size())
}

// Damage is always a whole number; partial warhead MSP is wasted.
func (m Missile) Damage() int {
	return int(math.Floor(m.Tech.DamagePerMSP * m.WarheadMSP))
}

// Fuel is the tank capacity in fuel units.
func (m Missile) Fuel() float64 {
	return Round(m.FuelMSP*FuelPerMSP, Precision)
}

// Range in km.
func (m Missile) Range() float64 {
	return Round(m.Fuel()*m.Speed()/m.Engine.TotalFuelPerSecond(), Precision)
}

// FlightTime in seconds.
func (m Missile) FlightTime() float64 {
	return m.Fuel() / m.Engine.TotalFuelPerSecond()
}

// MR is the maneuver rating; 10 with no agility investment.
func (m Missile) MR() int {
	return 10 + int(math.RoundToEven(m.Tech.AgilityPerMSP*m.AgilityMSP/m.Size()))
}

// Cth is the chance to hit, in percent, against a target moving at
// targetSpeed km/s.
func (m Missile) Cth(targetSpeed float64) float64 {
	return Round(m.Speed()/targetSpeed*float64(m.MR()), Precision)
}
