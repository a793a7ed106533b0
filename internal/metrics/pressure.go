// Package metrics provides run-level scalar metrics over the per-step
// aggregate stats.
package metrics

import "github.com/sbrunel/cytomech/internal/sim"

// MeanPressure averages the population mean pressure over a run.
type MeanPressure struct {
	samples int
	total   float64
}

func NewMeanPressure() *MeanPressure { return &MeanPressure{} }

func (m *MeanPressure) Name() string { return "mean_pressure" }

func (m *MeanPressure) Observe(s sim.StepStats) {
	m.total += s.MeanPressure
	m.samples++
}

func (m *MeanPressure) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanPressure) Reset() {
	m.samples = 0
	m.total = 0
}
