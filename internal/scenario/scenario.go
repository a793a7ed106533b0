// Package scenario builds ready-to-run worlds from configuration.
package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sbrunel/cytomech/internal/config"
	"github.com/sbrunel/cytomech/internal/geom"
	"github.com/sbrunel/cytomech/internal/grid"
	"github.com/sbrunel/cytomech/internal/integrators"
	"github.com/sbrunel/cytomech/internal/mech"
	"github.com/sbrunel/cytomech/internal/model"
	"github.com/sbrunel/cytomech/internal/sim"
)

func getIntegrator(name string) (sim.Integrator, error) {
	switch name {
	case "", "euler":
		return integrators.NewEuler(), nil
	case "verlet":
		return integrators.NewVerlet(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// Build constructs a world from cfg. The population is a cubic lattice
// centered on the origin, spaced in units of the cell radius, with uniform
// jitter drawn from the seeded source. An optional static floor plane is
// added below the lattice.
func Build(cfg *config.Config) (*sim.World, error) {
	integ, err := getIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	bucket := cfg.Grid.BucketSize
	if bucket <= 0 {
		bucket = config.DefaultBucketSize
	}

	var faces mech.FacePartition
	var fg *grid.FaceGrid
	if cfg.Plane != nil {
		fg = grid.NewFaceGrid(bucket)
		faces = fg
	}

	w, err := sim.New(grid.New(bucket), faces, integ)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	placeCells(w, &cfg.Cells, rng)

	if cfg.Plane != nil {
		plane := buildPlane(cfg.Plane)
		w.AddModel(plane)
		fg.InsertModel(plane)
		adh := cfg.Plane.Adhesion
		for _, c := range w.Cells() {
			c.AdhesionWithModel = func(string) float64 { return adh }
		}
	}

	return w, nil
}

func placeCells(w *sim.World, cc *config.CellsConfig, rng *rand.Rand) {
	radius := cc.Radius
	if radius <= 0 {
		radius = mech.DefaultRadius
	}
	spacing := cc.Spacing
	if spacing <= 0 {
		spacing = config.DefaultSpacing
	}
	step := spacing * radius

	side := int(math.Ceil(math.Cbrt(float64(cc.Count))))
	if side < 1 {
		side = 1
	}
	offset := float64(side-1) / 2.0

	adh := cc.Adhesion
	placed := 0
	for ix := 0; ix < side && placed < cc.Count; ix++ {
		for iy := 0; iy < side && placed < cc.Count; iy++ {
			for iz := 0; iz < side && placed < cc.Count; iz++ {
				pos := geom.Vec{
					X: (float64(ix) - offset) * step,
					Y: (float64(iy) - offset) * step,
					Z: (float64(iz) - offset) * step,
				}
				if cc.Jitter > 0 {
					j := cc.Jitter * radius
					pos = pos.Add(geom.Vec{
						X: (rng.Float64()*2 - 1) * j,
						Y: (rng.Float64()*2 - 1) * j,
						Z: (rng.Float64()*2 - 1) * j,
					})
				}

				c := mech.NewCell(pos)
				if cc.Mass > 0 {
					c.Mass = cc.Mass
				}
				m := c.Membrane
				m.SetBaseRadius(radius)
				m.SetRadius(radius)
				if cc.Stiffness > 0 {
					m.Stiffness = cc.Stiffness
				}
				if cc.DampRatio > 0 {
					m.DampRatio = cc.DampRatio
				}
				if cc.AngularStiffness > 0 {
					m.AngularStiffness = cc.AngularStiffness
				}
				m.VolumeConservation = cc.VolumeConserve
				c.AdhesionWith = func(*mech.Cell) float64 { return adh }

				w.AddCell(c)
				placed++
			}
		}
	}
}

func buildPlane(pc *config.PlaneConfig) *model.Model {
	h := pc.HalfSize
	verts := []geom.Vec{
		{X: -h, Y: pc.Y, Z: -h},
		{X: h, Y: pc.Y, Z: -h},
		{X: h, Y: pc.Y, Z: h},
		{X: -h, Y: pc.Y, Z: h},
	}
	faces := []model.Triangle{
		{Indices: [3]int{0, 1, 2}},
		{Indices: [3]int{0, 2, 3}},
	}
	return model.New("floor", verts, faces)
}
