package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sbrunel/cytomech/internal/geom"
	"github.com/sbrunel/cytomech/internal/grid"
	"github.com/sbrunel/cytomech/internal/integrators"
	"github.com/sbrunel/cytomech/internal/mech"
	"github.com/sbrunel/cytomech/internal/model"
	"github.com/sbrunel/cytomech/internal/sim"
)

var _ = Describe("connection lifecycle", func() {
	var (
		w       *sim.World
		a, b, c *mech.Cell
	)

	BeforeEach(func() {
		var err error
		w, err = sim.New(grid.New(120), nil, integrators.NewEuler())
		Expect(err).NotTo(HaveOccurred())

		// a chain: a touches b, b touches c, a never touches c
		a = mech.NewCell(geom.Vec{})
		b = mech.NewCell(geom.Vec{X: 75})
		c = mech.NewCell(geom.Vec{X: 150})
		w.AddCell(a)
		w.AddCell(b)
		w.AddCell(c)
	})

	It("connects adjacent cells on the first step", func() {
		w.Step(0.01)

		Expect(w.Manager().AreConnected(a, b)).To(BeTrue())
		Expect(w.Manager().AreConnected(b, c)).To(BeTrue())
		Expect(w.Manager().AreConnected(a, c)).To(BeFalse())
		Expect(w.Manager().Count()).To(Equal(2))
	})

	It("pushes overlapping cells apart", func() {
		w.Step(0.01)

		// a and b overlap (distance 75 < 80): the spring repels them
		Expect(a.Velocity.X).To(BeNumerically("<", 0))
		Expect(c.Velocity.X).To(BeNumerically(">", 0))
	})

	It("drops both connections when the middle cell leaves", func() {
		w.Step(0.01)
		Expect(w.Manager().Degree(b)).To(Equal(2))

		b.Position = geom.Vec{Y: 1000}
		w.Step(0.01)

		Expect(w.Manager().Degree(b)).To(BeZero())
		Expect(w.Manager().AreConnected(a, b)).To(BeFalse())
		Expect(w.Manager().AreConnected(b, c)).To(BeFalse())
	})

	It("leaves no dangling state after removing a cell", func() {
		w.Step(0.01)
		w.RemoveCell(b)

		Expect(w.Cells()).To(HaveLen(2))
		Expect(w.Manager().Count()).To(BeZero())
		Expect(w.Manager().Degree(a)).To(BeZero())
		Expect(w.Manager().Degree(c)).To(BeZero())

		// the survivors are still too far apart to connect
		w.Step(0.01)
		Expect(w.Manager().Count()).To(BeZero())
	})

	It("keeps the corrected radius above the raw radius while connected", func() {
		w.Step(0.01)

		Expect(a.Membrane.CorrectedRadius).To(BeNumerically(">", a.Membrane.Radius))
		Expect(b.Membrane.CorrectedRadius).To(BeNumerically(">", b.Membrane.Radius))
	})
})

var _ = Describe("settling on a static mesh", func() {
	var (
		w    *sim.World
		cell *mech.Cell
	)

	BeforeEach(func() {
		fg := grid.NewFaceGrid(120)
		var err error
		w, err = sim.New(grid.New(120), fg, integrators.NewEuler())
		Expect(err).NotTo(HaveOccurred())

		floor := model.New("floor",
			[]geom.Vec{
				{X: -200, Y: -30, Z: -200},
				{X: 200, Y: -30, Z: -200},
				{X: 200, Y: -30, Z: 200},
				{X: -200, Y: -30, Z: 200},
			},
			[]model.Triangle{
				{Indices: [3]int{0, 1, 2}},
				{Indices: [3]int{0, 2, 3}},
			})
		w.AddModel(floor)
		fg.InsertModel(floor)

		cell = mech.NewCell(geom.Vec{X: 10, Z: 5})
		w.AddCell(cell)
	})

	It("creates a mesh contact and pushes the cell away", func() {
		w.Step(0.01)

		Expect(w.Tracker().Count()).To(Equal(1))
		Expect(cell.Velocity.Y).To(BeNumerically(">", 0))
	})

	It("releases the contact once the cell is out of range", func() {
		w.Step(0.01)
		Expect(w.Tracker().Count()).To(Equal(1))

		cell.Position = geom.Vec{X: 10, Y: 500, Z: 5}
		w.Step(0.01)
		Expect(w.Tracker().Count()).To(BeZero())
	})
})
