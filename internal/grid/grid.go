// Package grid provides the hash-grid broad phase consumed by the connection
// machinery: a cell partition with adjacency-safe batching and a triangle
// index for static meshes.
package grid

import (
	"math"

	"github.com/sbrunel/cytomech/internal/mech"
)

type key struct {
	x, y, z int
}

// Grid is a uniform hash grid over cells. A cell is registered in every
// bucket its bounding sphere overlaps, so any two cells close enough to
// connect always share at least one bucket. Batches groups buckets by 3-D
// parity color: two distinct buckets of the same color are at least two
// buckets apart on some axis and never adjacent, which is what makes
// per-bucket pair scans within a batch independent (bucket size must be at
// least the largest cell diameter).
type Grid struct {
	bucketSize float64
	buckets    map[key][]*mech.Cell
}

// New creates a grid with the given bucket edge length.
func New(bucketSize float64) *Grid {
	return &Grid{
		bucketSize: bucketSize,
		buckets:    make(map[key][]*mech.Cell),
	}
}

func (g *Grid) Clear() {
	for k := range g.buckets {
		delete(g.buckets, k)
	}
}

func (g *Grid) coord(v float64) int {
	return int(math.Floor(v / g.bucketSize))
}

// Insert registers c in every bucket overlapped by its bounding sphere.
func (g *Grid) Insert(c *mech.Cell) {
	r := c.Membrane.BoundingRadius()
	p := c.Position
	minX, maxX := g.coord(p.X-r), g.coord(p.X+r)
	minY, maxY := g.coord(p.Y-r), g.coord(p.Y+r)
	minZ, maxZ := g.coord(p.Z-r), g.coord(p.Z+r)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				k := key{x, y, z}
				g.buckets[k] = append(g.buckets[k], c)
			}
		}
	}
}

func colorOf(k key) int {
	return (k.x & 1) | (k.y&1)<<1 | (k.z&1)<<2
}

// Batches returns the buckets grouped into 8 parity classes.
func (g *Grid) Batches() [][][]*mech.Cell {
	batches := make([][][]*mech.Cell, 8)
	for k, bucket := range g.buckets {
		if len(bucket) < 2 {
			continue
		}
		c := colorOf(k)
		batches[c] = append(batches[c], bucket)
	}
	return batches
}
