package geom

// ProjectInTriangle projects p onto the plane of triangle (p0, p1, p2) and
// reports whether the projection falls inside the triangle, together with the
// projected point. Degenerate triangles always report false.
func ProjectInTriangle(p0, p1, p2, p Vec) (bool, Vec) {
	u := p1.Sub(p0)
	v := p2.Sub(p0)
	n := u.Cross(v)
	n2 := n.SqLength()
	if n2 < Epsilon {
		return false, p
	}
	w := p.Sub(p0)

	// projection onto the plane
	dist := w.Dot(n) / n2
	proj := p.Sub(n.Scale(dist))

	// barycentric inside test
	wp := proj.Sub(p0)
	gamma := u.Cross(wp).Dot(n) / n2
	beta := wp.Cross(v).Dot(n) / n2
	alpha := 1.0 - gamma - beta

	inside := alpha >= 0 && alpha <= 1 &&
		beta >= 0 && beta <= 1 &&
		gamma >= 0 && gamma <= 1
	return inside, proj
}

// ClosestOnSegment returns the point of segment [a, b] closest to p.
func ClosestOnSegment(a, b, p Vec) Vec {
	ab := b.Sub(a)
	l2 := ab.SqLength()
	if l2 < Epsilon {
		return a
	}
	t := Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return a.Add(ab.Scale(t))
}
