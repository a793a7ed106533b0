package integrators

import (
	"github.com/sbrunel/cytomech/internal/geom"
	"github.com/sbrunel/cytomech/internal/mech"
)

// Verlet is a position-Verlet integrator: the previous position stands in
// for velocity state, which damps the explicit velocity drift of dense
// aggregates. Orientation still advances semi-implicitly.
type Verlet struct{}

func NewVerlet() *Verlet { return &Verlet{} }

func (v *Verlet) UpdatePosition(c *mech.Cell, dt float64) {
	if c.Mass <= 0 {
		return
	}
	acc := c.Force.Scale(1.0 / c.Mass)
	next := c.Position.Scale(2).Sub(c.PrevPosition).Add(acc.Scale(dt * dt))
	c.PrevPosition = c.Position
	if dt > 0 {
		c.Velocity = next.Sub(c.PrevPosition).Scale(1.0 / dt)
	}
	c.Position = next
}

func (v *Verlet) UpdateOrientation(c *mech.Cell, dt float64) {
	moment := c.Membrane.MomentOfInertia()
	if moment <= 0 {
		return
	}
	c.AngularVelocity = c.AngularVelocity.Add(c.Torque.Scale(dt / moment))
	angle := c.AngularVelocity.Length() * dt
	if angle < geom.Epsilon {
		return
	}
	c.Orientation.Rotate(geom.Rotation{
		Axis:  c.AngularVelocity.Normalized(),
		Angle: angle,
	})
}
