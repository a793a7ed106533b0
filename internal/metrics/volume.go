package metrics

import (
	"math"

	"github.com/sbrunel/cytomech/internal/sim"
)

// RadiusDrift tracks the maximum relative deviation of the population mean
// corrected radius from its first observed value. A drifting corrected
// radius in a stable aggregate means the volume compensation is fighting the
// connection rest lengths.
type RadiusDrift struct {
	samples  int
	initial  float64
	maxDrift float64
}

func NewRadiusDrift() *RadiusDrift { return &RadiusDrift{} }

func (m *RadiusDrift) Name() string { return "radius_drift" }

func (m *RadiusDrift) Observe(s sim.StepStats) {
	if m.samples == 0 {
		m.initial = s.MeanRadius
	}
	m.samples++
	if m.initial != 0 {
		drift := math.Abs(s.MeanRadius-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *RadiusDrift) Value() float64 { return m.maxDrift }

func (m *RadiusDrift) Reset() {
	m.samples = 0
	m.initial = 0
	m.maxDrift = 0
}
