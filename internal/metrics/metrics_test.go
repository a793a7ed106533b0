package metrics

import (
	"math"
	"testing"

	"github.com/sbrunel/cytomech/internal/sim"
)

func TestMeanPressure(t *testing.T) {
	m := NewMeanPressure()
	m.Observe(sim.StepStats{MeanPressure: 2})
	m.Observe(sim.StepStats{MeanPressure: 4})

	if v := m.Value(); math.Abs(v-3) > 1e-9 {
		t.Errorf("expected mean 3, got %f", v)
	}

	m.Reset()
	if v := m.Value(); v != 0 {
		t.Errorf("expected 0 after reset, got %f", v)
	}
}

func TestConnectionChurn(t *testing.T) {
	m := NewConnectionChurn()
	m.Observe(sim.StepStats{Connections: 5})
	m.Observe(sim.StepStats{Connections: 8})
	m.Observe(sim.StepStats{Connections: 6})

	if v := m.Value(); math.Abs(v-5) > 1e-9 {
		t.Errorf("expected churn 5, got %f", v)
	}
}

func TestConnectionChurnStablePopulation(t *testing.T) {
	m := NewConnectionChurn()
	for i := 0; i < 10; i++ {
		m.Observe(sim.StepStats{Connections: 12})
	}

	if v := m.Value(); v != 0 {
		t.Errorf("expected zero churn for stable count, got %f", v)
	}
}

func TestRadiusDrift(t *testing.T) {
	m := NewRadiusDrift()
	m.Observe(sim.StepStats{MeanRadius: 40})
	m.Observe(sim.StepStats{MeanRadius: 42})
	m.Observe(sim.StepStats{MeanRadius: 41})

	if v := m.Value(); math.Abs(v-0.05) > 1e-9 {
		t.Errorf("expected max drift 0.05, got %f", v)
	}
}

func TestRadiusDriftNoSamples(t *testing.T) {
	m := NewRadiusDrift()
	if v := m.Value(); v != 0 {
		t.Errorf("expected 0 with no samples, got %f", v)
	}
}
