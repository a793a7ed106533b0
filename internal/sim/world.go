package sim

import (
	"context"
	"math"

	"github.com/sbrunel/cytomech/internal/geom"
	"github.com/sbrunel/cytomech/internal/mech"
	"github.com/sbrunel/cytomech/internal/model"
)

// World owns the cell population and drives the per-step connection
// pipeline: reset accumulators, broad-phase proximity tests, force
// computation, stale-connection removal, integration, volume compensation.
// The step is synchronous and always runs to completion.
type World struct {
	cells      []*mech.Cell
	manager    *mech.Manager
	tracker    *mech.ModelTracker
	partition  mech.Partition
	faces      mech.FacePartition
	models     []*model.Model
	integrator Integrator

	metrics   []Metric
	observers []Observer

	t float64
}

// New builds a world over the given broad-phase partition and integrator.
// faces may be nil when no static geometry is present.
func New(partition mech.Partition, faces mech.FacePartition, integrator Integrator) (*World, error) {
	if partition == nil {
		return nil, ErrNoPartition
	}
	return &World{
		manager:    mech.NewManager(),
		tracker:    mech.NewModelTracker(),
		partition:  partition,
		faces:      faces,
		integrator: integrator,
	}, nil
}

func (w *World) Cells() []*mech.Cell { return w.cells }

func (w *World) Manager() *mech.Manager { return w.manager }

func (w *World) Tracker() *mech.ModelTracker { return w.tracker }

func (w *World) Models() []*model.Model { return w.models }

func (w *World) Time() float64 { return w.t }

func (w *World) AddMetric(m Metric)     { w.metrics = append(w.metrics, m) }
func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// AddCell hands a caller-owned cell to the world. The world never allocates
// or frees cells on its own.
func (w *World) AddCell(c *mech.Cell) {
	w.cells = append(w.cells, c)
}

// RemoveCell disconnects every incident connection, then drops the cell from
// the population. Disconnection must come first; dangling connections are a
// correctness violation.
func (w *World) RemoveCell(c *mech.Cell) {
	w.manager.DisconnectAll(c)
	w.tracker.DisconnectAll(c)
	for i, x := range w.cells {
		if x == c {
			w.cells = append(w.cells[:i], w.cells[i+1:]...)
			return
		}
	}
}

// AddModel registers static geometry for the cell-model tracker.
func (w *World) AddModel(m *model.Model) {
	w.models = append(w.models, m)
}

// Divide splits mother into two cells of half volume along dir. The mother's
// existing connections are dropped (the next proximity pass rebuilds what is
// still justified); the daughter inherits membrane parameters and adhesion
// callbacks.
func (w *World) Divide(mother *mech.Cell, dir geom.Vec) *mech.Cell {
	w.manager.DisconnectAll(mother)
	w.tracker.DisconnectAll(mother)

	halfVol := mother.Membrane.Volume() / 2.0
	mother.Membrane.SetVolume(halfVol)

	dir = dir.Normalized()
	if dir.IsZero() {
		dir = geom.Vec{X: 1}
	}
	daughter := mech.NewCell(mother.Position.Add(dir.Scale(mother.Membrane.Radius)))
	daughter.Mass = mother.Mass
	daughter.AdhesionWith = mother.AdhesionWith
	daughter.AdhesionWithModel = mother.AdhesionWithModel
	dm, mm := daughter.Membrane, mother.Membrane
	dm.BaseRadius = mm.BaseRadius
	dm.Stiffness = mm.Stiffness
	dm.DampRatio = mm.DampRatio
	dm.AngularStiffness = mm.AngularStiffness
	dm.MaxTeta = mm.MaxTeta
	dm.VolumeConservation = mm.VolumeConservation
	dm.SetVolume(halfVol)

	w.AddCell(daughter)
	return daughter
}

// Step runs one full pipeline pass.
func (w *World) Step(dt float64) {
	for _, c := range w.cells {
		c.ResetForces()
	}

	if w.faces != nil && len(w.models) > 0 {
		w.tracker.Check(w.cells, w.faces)
	}
	w.manager.CheckConnections(w.cells, w.partition)

	w.manager.UpdateConnections(dt)
	w.tracker.Update(dt)

	for _, c := range w.cells {
		w.integrator.UpdatePosition(c, dt)
		w.integrator.UpdateOrientation(c, dt)
		if c.Membrane.VolumeConservation {
			c.Membrane.CompensateVolumeLoss(w.manager)
		}
		c.MarkAsNotTested()
		c.Membrane.ComputePressure()
	}

	w.t += dt
}

// Stats summarizes the current world state.
func (w *World) Stats() StepStats {
	s := StepStats{
		Time:             w.t,
		Cells:            len(w.cells),
		Connections:      w.manager.Count(),
		ModelConnections: w.tracker.Count(),
	}
	if len(w.cells) == 0 {
		return s
	}
	for _, c := range w.cells {
		s.MeanPressure += c.Membrane.Pressure
		s.MeanRadius += c.Membrane.CorrectedRadius
		s.TotalForce += c.TotalForce
	}
	n := float64(len(w.cells))
	s.MeanPressure /= n
	s.MeanRadius /= n
	return s
}

func (w *World) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return ErrInvalidTimestep
	}
	if cfg.Duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Run steps the world for cfg.Duration, recording per-step stats and
// feeding metrics and observers. The context is checked between steps; a
// step itself always runs to completion.
func (w *World) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := w.validate(cfg); err != nil {
		return nil, err
	}

	// round instead of truncating: 0.3/0.1 is 2.9999... in float64 and
	// plain int conversion would drop the final step
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Steps:   make([]StepStats, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range w.metrics {
		m.Reset()
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		w.Step(cfg.Dt)
		s := w.Stats()
		result.Steps = append(result.Steps, s)
		result.StepsTaken++

		for _, m := range w.metrics {
			m.Observe(s)
		}
		for _, o := range w.observers {
			o.OnStep(w, s)
		}
	}

	for _, m := range w.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}
