// Package integrators advances cell kinematics from the force and torque
// accumulated by the connection machinery. Integration must run strictly
// after all force accumulation for the step and strictly before the next
// proximity test.
package integrators

import (
	"github.com/sbrunel/cytomech/internal/geom"
	"github.com/sbrunel/cytomech/internal/mech"
)

// Euler is a semi-implicit Euler integrator: velocity first, then position
// with the updated velocity.
type Euler struct{}

func NewEuler() *Euler { return &Euler{} }

func (e *Euler) UpdatePosition(c *mech.Cell, dt float64) {
	if c.Mass <= 0 {
		return
	}
	c.PrevPosition = c.Position
	c.Velocity = c.Velocity.Add(c.Force.Scale(dt / c.Mass))
	c.Position = c.Position.Add(c.Velocity.Scale(dt))
}

func (e *Euler) UpdateOrientation(c *mech.Cell, dt float64) {
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
