package grid

import (
	"math"

	"github.com/sbrunel/cytomech/internal/geom"
	"github.com/sbrunel/cytomech/internal/mech"
	"github.com/sbrunel/cytomech/internal/model"
)

// FaceGrid indexes static mesh triangles by their bounding boxes. Models are
// inserted once; Retrieve serves the (mesh, triangle) candidates near a
// query sphere.
type FaceGrid struct {
	bucketSize float64
	buckets    map[key][]mech.FaceCandidate
}

func NewFaceGrid(bucketSize float64) *FaceGrid {
	return &FaceGrid{
		bucketSize: bucketSize,
		buckets:    make(map[key][]mech.FaceCandidate),
	}
}

func (g *FaceGrid) Clear() {
	for k := range g.buckets {
		delete(g.buckets, k)
	}
}

func (g *FaceGrid) coord(v float64) int {
	return int(math.Floor(v / g.bucketSize))
}

// InsertModel registers every face of m. Call again after transforming the
// model (after a Clear).
func (g *FaceGrid) InsertModel(m *model.Model) {
	for i := range m.Faces {
		p0, p1, p2 := m.FaceVertices(i)
		lo := geom.Vec{
			X: math.Min(p0.X, math.Min(p1.X, p2.X)),
			Y: math.Min(p0.Y, math.Min(p1.Y, p2.Y)),
			Z: math.Min(p0.Z, math.Min(p1.Z, p2.Z)),
		}
		hi := geom.Vec{
			X: math.Max(p0.X, math.Max(p1.X, p2.X)),
			Y: math.Max(p0.Y, math.Max(p1.Y, p2.Y)),
			Z: math.Max(p0.Z, math.Max(p1.Z, p2.Z)),
		}
		cand := mech.FaceCandidate{Model: m, Face: i}
		for x := g.coord(lo.X); x <= g.coord(hi.X); x++ {
			for y := g.coord(lo.Y); y <= g.coord(hi.Y); y++ {
				for z := g.coord(lo.Z); z <= g.coord(hi.Z); z++ {
					k := key{x, y, z}
					g.buckets[k] = append(g.buckets[k], cand)
				}
			}
		}
	}
}

// Retrieve returns the distinct face candidates whose buckets overlap the
// query sphere.
func (g *FaceGrid) Retrieve(pos geom.Vec, radius float64) []mech.FaceCandidate {
	var out []mech.FaceCandidate
	seen := make(map[mech.FaceCandidate]struct{})
	for x := g.coord(pos.X - radius); x <= g.coord(pos.X+radius); x++ {
		for y := g.coord(pos.Y - radius); y <= g.coord(pos.Y+radius); y++ {
			for z := g.coord(pos.Z - radius); z <= g.coord(pos.Z+radius); z++ {
				for _, cand := range g.buckets[key{x, y, z}] {
					if _, ok := seen[cand]; ok {
						continue
					}
					seen[cand] = struct{}{}
					out = append(out, cand)
				}
			}
		}
	}
	return out
}
