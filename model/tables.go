package model

// Discretization is the finite grid the engine axis is drawn from.
type Discretization struct {
	EngineMSPs  []float64 `json:"engine_msps"`
	Multipliers []float64 `json:"multipliers"`
}

// DefaultDiscretization covers multipliers 0.10 to 6.00 in 0.05 steps and
// engine sizes 0.10 to 50 MSP, coarser as engines grow.
func DefaultDiscretization() Discretization {
	return Discretization{
		EngineMSPs:  defaultEngineMSPs(),
		Multipliers: defaultMultipliers(),
	}
}

func defaultMultipliers() []float64 {
	out := make([]float64, 0, 119)
	for i := 2; i <= 120; i++ {
		out = append(out, float64(i)/20.0)
	}
	return out
}

func defaultEngineMSPs() []float64 {
	var out []float64
	for i := 10; i < 300; i++ {
		out = append(out, float64(i)/100.0)
	}
	for i := 300; i < 1000; i += 10 {
		out = append(out, float64(i)/100.0)
	}
	for i := 1000; i < 5050; i += 50 {
		out = append(out, float64(i)/100.0)
	}
	return out
}

// Named technology levels. The search never reads these; they let search
// files refer to researched technologies by name.

// WarheadTech maps warhead technology to damage per MSP.
var WarheadTech = map[string]float64{
	"Gun-Type Fission":            2.0,
	"Implosion Fission":           3.0,
	"Levitated-pit Implosion":     4.0,
	"Fusion-boosted Fission":      5.0,
	"Two-stage Thermonuclear":     6.0,
	"Three-stage Thermonuclear":   8.0,
	"Cobalt":                      10.0,
	"Tri-Cobalt":                  12.0,
	"Antimatter Catalyzed Cobalt": 16.0,
	"Antimatter":                  20.0,
	"Advanced Antimatter":         24.0,
	"Gravitonic":                  30.0,
}

// EngineTech maps engine technology to EP per hull space.
var EngineTech = map[string]float64{
	"Conventional Engine":               0.1,
	"Nuclear Thermal Engine":            5.0,
	"Improved Nuclear Thermal Engine":   6.4,
	"Nuclear Pulse Engine":              8.0,
	"Improved Nuclear Pulse Engine":     10.0,
	"Ion Drive":                         12.5,
	"Magneto-plasma Drive":              16.0,
	"Internal Confinement Fusion Drive": 20.0,
	"Magnetic Confinement Fusion Drive": 25.0,
	"Inertial Confinement Fusion Drive": 32.0,
	"Solid-core Anti-matter Drive":      40.0,
	"Gas-core Anti-matter Drive":        50.0,
	"Plasma-core Anti-matter Drive":     64.0,
	"Beam-core Anti-matter Drive":       80.0,
	"Photonic Drive":                    100.0,
}

// Research levels, lowest first.
var (
	AgilityTech         = []float64{20, 32, 48, 64, 80, 100, 128, 160, 200, 240, 320, 400}
	FuelConsumptionTech = []float64{1, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.25, 0.2, 0.16, 0.125, 0.1}
	MinPowerFactorTech  = []float64{0.5, 0.4, 0.3, 0.25, 0.2, 0.15, 0.1}
	MaxPowerFactorTech  = []float64{1.0, 1.25, 1.5, 1.75, 2.0, 2.5, 3.0}
)
