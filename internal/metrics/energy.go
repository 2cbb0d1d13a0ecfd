package metrics

import (
	"math"

	"github.com/san-kum/phasependulum/internal/dynamo"
	"github.com/san-kum/phasependulum/internal/physics"
)

// Metric accumulates a scalar over observed frames.
type Metric interface {
	Name() string
	Observe(frame int, x dynamo.State)
	Value() float64
	Reset()
}

// Energy is the mean mechanical energy per unit mass over observed frames.
type Energy struct {
	name        string
	params      *dynamo.Params
	samples     int
	totalEnergy float64
}

func NewEnergy(p *dynamo.Params) *Energy {
	return &Energy{name: "energy", params: p}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(frame int, x dynamo.State) {
	e.totalEnergy += physics.Energy(x.Theta, x.ThetaDot, x.PivotLength, e.params.Gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure from the first observed
// energy, and keeps the series for plotting.
type EnergyDrift struct {
	name          string
	params        *dynamo.Params
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	series        []float64
}

func NewEnergyDrift(p *dynamo.Params) *EnergyDrift {
	return &EnergyDrift{name: "energy_drift", params: p}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(frame int, x dynamo.State) {
	energy := physics.Energy(x.Theta, x.ThetaDot, x.PivotLength, e.params.Gravity)

	if len(e.series) == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.series = append(e.series, energy)

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Current() float64  { return e.currentEnergy }
func (e *EnergyDrift) Series() []float64 { return e.series }

// Oscillating reports whether the energy both rose and fell between
// consecutive observations.
func (e *EnergyDrift) Oscillating() bool {
	var rose, fell bool
	for i := 1; i < len(e.series); i++ {
		switch {
		case e.series[i] > e.series[i-1]:
			rose = true
		case e.series[i] < e.series[i-1]:
			fell = true
		}
	}
	return rose && fell
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.series = nil
}
