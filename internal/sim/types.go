package sim

import "github.com/sbrunel/cytomech/internal/mech"

// Integrator advances a cell's kinematic state from its accumulated force
// and torque. Called once per cell per step, after all forces are summed.
type Integrator interface {
	UpdatePosition(c *mech.Cell, dt float64)
	UpdateOrientation(c *mech.Cell, dt float64)
}

// StepStats is the aggregate snapshot recorded after each step.
type StepStats struct {
	Time             float64
	Cells            int
	Connections      int
	ModelConnections int
	MeanPressure     float64
	MeanRadius       float64
	TotalForce       float64
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(s StepStats)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(w *World, s StepStats)
}

// Config drives a Run loop.
type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
}

// Result collects a run's per-step samples and final metric values.
type Result struct {
	Steps      []StepStats
	Metrics    map[string]float64
	StepsTaken int
}
