package metrics

import "github.com/sbrunel/cytomech/internal/sim"

// ConnectionChurn sums the absolute step-to-step change in active connection
// count. High churn with a stable population points at connect/disconnect
// oscillation that the hysteresis conditions should be suppressing.
type ConnectionChurn struct {
	samples int
	prev    int
	total   float64
}

func NewConnectionChurn() *ConnectionChurn { return &ConnectionChurn{} }

func (m *ConnectionChurn) Name() string { return "connection_churn" }

func (m *ConnectionChurn) Observe(s sim.StepStats) {
	if m.samples > 0 {
		d := s.Connections - m.prev
		if d < 0 {
			d = -d
		}
		m.total += float64(d)
	}
	m.prev = s.Connections
	m.samples++
}

func (m *ConnectionChurn) Value() float64 { return m.total }

func (m *ConnectionChurn) Reset() {
	m.samples = 0
	m.prev = 0
	m.total = 0
}
