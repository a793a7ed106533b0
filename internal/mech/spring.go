package mech

import (
	"math"

	"github.com/sbrunel/cytomech/internal/geom"
)

// Spring is a damped linear spring between two points. Length and Direction
// are cached geometry, refreshed via UpdateLengthDirection before any force
// use; PrevLength advances only when a force is actually computed, so
// refreshing is idempotent within a step.
type Spring struct {
	K          float64
	C          float64
	RestLength float64

	Length     float64
	PrevLength float64
	Direction  geom.Vec // unit vector from endpoint 0 to endpoint 1

	kCoef float64 // contact-surface scaling, 1 when unscaled
}

func NewSpring(k, c, restLength float64) Spring {
	return Spring{K: k, C: c, RestLength: restLength, Length: restLength, PrevLength: restLength, kCoef: 1}
}

// SetKCoef scales the effective stiffness for the current step.
func (s *Spring) SetKCoef(coef float64) { s.kCoef = coef }

func (s *Spring) SetRestLength(l float64) { s.RestLength = l }

// UpdateLengthDirection refreshes the cached length and direction from the
// two endpoint positions.
func (s *Spring) UpdateLengthDirection(p0, p1 geom.Vec) {
	d := p1.Sub(p0)
	s.Length = d.Length()
	if s.Length > geom.Epsilon {
		s.Direction = d.Scale(1.0 / s.Length)
	} else {
		s.Direction = geom.Zero()
	}
}

// ForceMagnitude returns the signed force along Direction applied to endpoint
// 0 (positive pulls the endpoints together) and advances PrevLength. dt must
// be the step the cached geometry was refreshed for.
func (s *Spring) ForceMagnitude(dt float64) float64 {
	speed := 0.0
	if dt > 0 {
		speed = (s.Length - s.PrevLength) / dt
	}
	s.PrevLength = s.Length
	return (s.Length-s.RestLength)*s.K*s.kCoef + s.C*speed
}

// DampingFromRatio converts a damping ratio into a damping coefficient for a
// spring of stiffness k acting on mass m (critical damping at ratio 1).
func DampingFromRatio(ratio, m, k float64) float64 {
	if m <= 0 || k <= 0 {
		return 0
	}
	return ratio * 2.0 * math.Sqrt(m*k)
}

// Joint is a torsional spring attached to one endpoint of a connection. It
// anchors the connection direction in the cell's local frame and produces a
// restoring torque when the cell rotates away from it, clamped at the break
// angle MaxTeta (past it the anchor slips instead of winding up).
type Joint struct {
	K       float64
	C       float64
	MaxTeta float64

	target geom.Vec // anchored direction, cell-local frame
	kCoef  float64
}

func NewJoint(k, c, maxTeta float64) Joint {
	return Joint{K: k, C: c, MaxTeta: maxTeta, kCoef: 1}
}

func (j *Joint) SetKCoef(coef float64) { j.kCoef = coef }

// Anchor records dir (world frame, pointing away from the cell along the
// connection) in the cell's current local frame.
func (j *Joint) Anchor(b geom.Basis, dir geom.Vec) {
	j.target = b.ToLocal(dir)
}

// ApplyTorque accumulates the joint torque onto c. dir is the current
// connection direction pointing away from c; degenerate directions are a
// no-op.
func (j *Joint) ApplyTorque(c *Cell, dir geom.Vec, dt float64) {
	if dir.IsZero() || j.target.IsZero() {
		return
	}
	world := c.Orientation.ToWorld(j.target).Normalized()
	if world.IsZero() {
		return
	}
	teta := geom.AngleBetween(world, dir)
	axis := world.Cross(dir).Normalized()
	if axis.IsZero() {
		return
	}
	if teta > j.MaxTeta {
		// slip: re-anchor so the stored target sits at the break angle
		reanchored := world.Rotated(geom.Rotation{Axis: axis, Angle: teta - j.MaxTeta})
		j.target = c.Orientation.ToLocal(reanchored)
		teta = j.MaxTeta
	}
	torque := axis.Scale(j.K * j.kCoef * teta)
	if j.C > 0 {
		torque = torque.Sub(axis.Scale(j.C * c.AngularVelocity.Dot(axis)))
	}
	c.ReceiveTorque(torque)
}
