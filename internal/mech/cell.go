package mech

import (
	"sync/atomic"

	"github.com/sbrunel/cytomech/internal/geom"
)

var cellIDs atomic.Int64

// Cell is a mechanical node of the simulation. The connection machinery
// references cells but never allocates or frees them; whoever creates a cell
// must call Manager.DisconnectAll (and ModelTracker.DisconnectAll) before
// dropping it.
type Cell struct {
	id int64

	Position        geom.Vec
	PrevPosition    geom.Vec
	Velocity        geom.Vec
	Orientation     geom.Basis
	AngularVelocity geom.Vec
	Mass            float64

	// per-step accumulators
	Force      geom.Vec
	Torque     geom.Vec
	TotalForce float64 // sum of received force magnitudes, feeds pressure

	Membrane *Membrane

	// AdhesionWith returns the adhesion coefficient toward another cell in
	// [0, 1]. AdhesionWithModel does the same for a named static mesh. A nil
	// callback means no adhesion.
	AdhesionWith      func(other *Cell) float64
	AdhesionWithModel func(name string) float64

	// Tested is scratch state for proximity passes; cleared after each
	// integration via MarkAsNotTested.
	Tested bool
}

// NewCell creates a cell at pos with a default membrane.
func NewCell(pos geom.Vec) *Cell {
	c := &Cell{
		id:           cellIDs.Add(1),
		Position:     pos,
		PrevPosition: pos,
		Orientation:  geom.NewBasis(),
		Mass:         DefaultMass,
	}
	c.Membrane = NewMembrane(c)
	return c
}

// ReceiveForce accumulates f onto the cell and tracks its magnitude for the
// pressure estimate.
func (c *Cell) ReceiveForce(f geom.Vec) {
	c.Force = c.Force.Add(f)
	c.TotalForce += f.Length()
}

func (c *Cell) ReceiveTorque(t geom.Vec) {
	c.Torque = c.Torque.Add(t)
}

// ResetForces zeroes the per-step accumulators. Called once per step before
// any force accumulation.
func (c *Cell) ResetForces() {
	c.Force = geom.Zero()
	c.Torque = geom.Zero()
	c.TotalForce = 0
}

func (c *Cell) MarkAsNotTested() { c.Tested = false }

func (c *Cell) adhesionWith(other *Cell) float64 {
	if c.AdhesionWith == nil {
		return 0
	}
	return c.AdhesionWith(other)
}

func (c *Cell) adhesionWithModel(name string) float64 {
	if c.AdhesionWithModel == nil {
		return 0
	}
	return c.AdhesionWithModel(name)
}
