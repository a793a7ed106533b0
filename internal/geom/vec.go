package geom

import "math"

// Vec is a 3-component vector. Values are passed by value; all operations
// return new vectors.
type Vec struct {
	X, Y, Z float64
}

func Zero() Vec { return Vec{} }

func (v Vec) Add(o Vec) Vec        { return Vec{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec) Sub(o Vec) Vec        { return Vec{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec) Scale(s float64) Vec  { return Vec{v.X * s, v.Y * s, v.Z * s} }
func (v Vec) Neg() Vec             { return Vec{-v.X, -v.Y, -v.Z} }
func (v Vec) Dot(o Vec) float64    { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec) SqLength() float64    { return v.Dot(v) }
func (v Vec) Length() float64      { return math.Sqrt(v.SqLength()) }

func (v Vec) Cross(o Vec) Vec {
	return Vec{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalized returns the unit vector along v, or the zero vector when v is
// degenerate. Callers that need a guaranteed direction must guard the
// zero-length case themselves.
func (v Vec) Normalized() Vec {
	l := v.Length()
	if l < Epsilon {
		return Vec{}
	}
	return v.Scale(1.0 / l)
}

// Rounded applies RoundN to every component.
func (v Vec) Rounded() Vec {
	return Vec{RoundN(v.X), RoundN(v.Y), RoundN(v.Z)}
}

func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
