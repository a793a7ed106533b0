package geom

import "math"

// Rotation is an axis-angle rotation. Axis is assumed unit length.
type Rotation struct {
	Axis  Vec
	Angle float64
}

// Rotated applies r to v (Rodrigues formula).
func (v Vec) Rotated(r Rotation) Vec {
	if math.Abs(r.Angle) < Epsilon || r.Axis.IsZero() {
		return v
	}
	c := math.Cos(r.Angle)
	s := math.Sin(r.Angle)
	k := r.Axis
	return v.Scale(c).
		Add(k.Cross(v).Scale(s)).
		Add(k.Scale(k.Dot(v) * (1.0 - c)))
}

// Basis is an orientation frame defined by two unit axes. The third axis is
// implicit (X cross Y).
type Basis struct {
	X, Y Vec
}

func NewBasis() Basis {
	return Basis{X: Vec{X: 1}, Y: Vec{Y: 1}}
}

func (b Basis) Z() Vec { return b.X.Cross(b.Y) }

// Rotate applies r to both axes in place and renormalizes.
func (b *Basis) Rotate(r Rotation) {
	b.X = b.X.Rotated(r).Normalized()
	b.Y = b.Y.Rotated(r).Normalized()
}

// Rotated returns a rotated copy.
func (b Basis) Rotated(r Rotation) Basis {
	b.Rotate(r)
	return b
}

// ToWorld maps a vector expressed in the basis frame into world space.
func (b Basis) ToWorld(v Vec) Vec {
	return b.X.Scale(v.X).Add(b.Y.Scale(v.Y)).Add(b.Z().Scale(v.Z))
}

// ToLocal maps a world-space vector into the basis frame.
func (b Basis) ToLocal(v Vec) Vec {
	return Vec{v.Dot(b.X), v.Dot(b.Y), v.Dot(b.Z())}
}

// AngleBetween returns the unsigned angle between two directions, assumed
// non-zero.
func AngleBetween(a, b Vec) float64 {
	d := Clamp(a.Normalized().Dot(b.Normalized()), -1, 1)
	return math.Acos(d)
}
