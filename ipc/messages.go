package ipc

import (
	"github.com/nstehr/ordnance/model"
	"github.com/nstehr/ordnance/optimizer"
)

const (
	TypeHello        = "hello"
	TypeAck          = "ack"
	TypeSearch       = "search"
	TypeSearchResult = "search_result"
	TypeError        = "error"
)

type HelloMessage struct {
	Client  string `json:"client"`
	Version string `json:"version,omitempty"`
}

type AckMessage struct {
	Status string `json:"status"`
}

// SearchRequest asks for one search. Absent model and discretization fall
// back to the defaults; an empty key list means damage, then chance to hit.
type SearchRequest struct {
	ID             string                `json:"id,omitempty"`
	Technology     model.Technology      `json:"technology"`
	Constraints    model.Constraints     `json:"constraints"`
	Model          *model.Model          `json:"model,omitempty"`
	Discretization *model.Discretization `json:"discretization,omitempty"`
	Keys           []string              `json:"keys,omitempty"`
	Ascending      bool                  `json:"ascending,omitempty"`
	Top            int                   `json:"top,omitempty"`
	Where          string                `json:"where,omitempty"`
}

type SearchResult struct {
	ID        string           `json:"id,omitempty"`
	Counts    optimizer.Counts `json:"counts"`
	Stats     optimizer.Stats  `json:"stats"`
	Total     int              `json:"total"`
	Designs   []DesignSummary  `json:"designs"`
	ElapsedMS int64            `json:"elapsed_ms"`
}

// DesignSummary flattens a design and its derived figures for clients that
// cannot recompute them.
type DesignSummary struct {
	WarheadMSP float64 `json:"warhead_msp"`
	FuelMSP    float64 `json:"fuel_msp"`
	AgilityMSP float64 `json:"agility_msp"`
	ExcessMSP  float64 `json:"excess_msp"`
	Engines    int     `json:"engines"`
	EngineMSP  float64 `json:"engine_msp"`
	Multiplier float64 `json:"multiplier"`
	EP         float64 `json:"ep"`
	Size       float64 `json:"size"`
	Speed      float64 `json:"speed"`
	Damage     int     `json:"damage"`
	Range      float64 `json:"range"`
	Fuel       float64 `json:"fuel"`
	FlightTime float64 `json:"flight_time"`
	MR         int     `json:"mr"`
	Cth        float64 `json:"cth"` // against the intended target speed
}

func NewDesignSummary(m model.Missile, targetSpeed float64) DesignSummary {
	return DesignSummary{
		WarheadMSP: m.WarheadMSP,
		FuelMSP:    m.FuelMSP,
		AgilityMSP: m.AgilityMSP,
		ExcessMSP:  m.ExcessMSP,
		Engines:    m.Engine.Count,
		EngineMSP:  m.Engine.MSP,
		Multiplier: m.Engine.Multiplier,
		EP:         m.Engine.EP,
		Size:       m.Size(),
		Speed:      m.Speed(),
		Damage:     m.Damage(),
		Range:      m.Range(),
		Fuel:       m.Fuel(),
		FlightTime: model.Round(m.FlightTime(), model.Precision),
		MR:         m.MR(),
		Cth:        m.Cth(targetSpeed),
	}
}

type ErrorMessage struct {
	ID        string           `json:"id,omitempty"`
	Message   string           `json:"message"`
	Invariant *InvariantDetail `json:"invariant,omitempty"`
}

// InvariantDetail identifies the broken bound of a fatal search error.
type InvariantDetail struct {
	Field    string  `json:"field"`
	Observed float64 `json:"observed"`
	Relation string  `json:"relation"`
	Bound    float64 `json:"bound"`
}
