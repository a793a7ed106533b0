package mech

import (
	"math"
	"testing"

	"github.com/sbrunel/cytomech/internal/geom"
)

func TestSpringAtRest(t *testing.T) {
	s := NewSpring(10, 0, 5)
	s.UpdateLengthDirection(geom.Vec{}, geom.Vec{X: 5})

	if f := s.ForceMagnitude(0.1); math.Abs(f) > 1e-12 {
		t.Errorf("expected zero force at rest length, got %f", f)
	}
}

func TestSpringExtension(t *testing.T) {
	s := NewSpring(10, 0, 5)
	s.UpdateLengthDirection(geom.Vec{}, geom.Vec{X: 7})

	// with no damping the force depends only on the extension
	f := s.ForceMagnitude(0.1)
	if math.Abs(f-20) > 1e-9 {
		t.Errorf("expected force 20, got %f", f)
	}
}

func TestSpringCompression(t *testing.T) {
	s := NewSpring(10, 0, 5)
	s.UpdateLengthDirection(geom.Vec{}, geom.Vec{X: 3})

	f := s.ForceMagnitude(0.1)
	if f >= 0 {
		t.Errorf("expected negative (repulsive) force under compression, got %f", f)
	}
}

func TestSpringDampingAdvancesPrevLength(t *testing.T) {
	s := NewSpring(0, 2, 5)
	s.UpdateLengthDirection(geom.Vec{}, geom.Vec{X: 7})

	f := s.ForceMagnitude(1.0)
	if math.Abs(f-4) > 1e-9 {
		t.Errorf("expected damping force 4, got %f", f)
	}

	// geometry unchanged: speed is now zero
	s.UpdateLengthDirection(geom.Vec{}, geom.Vec{X: 7})
	f = s.ForceMagnitude(1.0)
	if math.Abs(f) > 1e-12 {
		t.Errorf("expected zero force on second evaluation, got %f", f)
	}
}

func TestSpringKCoefScalesStiffness(t *testing.T) {
	s := NewSpring(10, 0, 5)
	s.SetKCoef(3)
	s.UpdateLengthDirection(geom.Vec{}, geom.Vec{X: 7})

	f := s.ForceMagnitude(0.1)
	if math.Abs(f-60) > 1e-9 {
		t.Errorf("expected force 60 with kCoef 3, got %f", f)
	}
}

func TestSpringDegenerateDirection(t *testing.T) {
	s := NewSpring(10, 0, 5)
	p := geom.Vec{X: 1, Y: 2, Z: 3}
	s.UpdateLengthDirection(p, p)

	if !s.Direction.IsZero() {
		t.Errorf("expected zero direction for coincident endpoints, got %+v", s.Direction)
	}
}

func TestDampingFromRatio(t *testing.T) {
	if c := DampingFromRatio(1, 4, 9); math.Abs(c-12) > 1e-9 {
		t.Errorf("expected critical damping 12, got %f", c)
	}
	if c := DampingFromRatio(0.5, 4, 9); math.Abs(c-6) > 1e-9 {
		t.Errorf("expected damping 6, got %f", c)
	}
	if c := DampingFromRatio(1, 0, 9); c != 0 {
		t.Errorf("expected zero damping for zero mass, got %f", c)
	}
}

func TestJointRestoringTorque(t *testing.T) {
	c := NewCell(geom.Vec{})
	j := NewJoint(2, 0, DefaultMaxTeta)
	j.Anchor(c.Orientation, geom.Vec{X: 1})

	theta := 0.1
	dir := geom.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
	j.ApplyTorque(c, dir, 0.1)

	// axis is +z, magnitude k*theta
	if c.Torque.Z <= 0 {
		t.Errorf("expected positive torque around z, got %f", c.Torque.Z)
	}
	if math.Abs(c.Torque.Length()-2*theta) > 1e-9 {
		t.Errorf("expected torque magnitude %f, got %f", 2*theta, c.Torque.Length())
	}
}

func TestJointSlipsPastBreakAngle(t *testing.T) {
	c := NewCell(geom.Vec{})
	j := NewJoint(2, 0, DefaultMaxTeta)
	j.Anchor(c.Orientation, geom.Vec{X: 1})

	theta := 0.6 // well past the break angle
	dir := geom.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
	j.ApplyTorque(c, dir, 0.1)

	want := 2 * DefaultMaxTeta
	if math.Abs(c.Torque.Length()-want) > 1e-9 {
		t.Errorf("expected torque clamped to %f, got %f", want, c.Torque.Length())
	}
}

func TestJointAlignedNoTorque(t *testing.T) {
	c := NewCell(geom.Vec{})
	j := NewJoint(2, 0, DefaultMaxTeta)
	j.Anchor(c.Orientation, geom.Vec{X: 1})

	j.ApplyTorque(c, geom.Vec{X: 1}, 0.1)
	if !c.Torque.IsZero() {
		t.Errorf("expected no torque when aligned, got %+v", c.Torque)
	}
}
