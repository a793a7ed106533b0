package mech

import (
	"math"

	"github.com/sbrunel/cytomech/internal/geom"
)

// Membrane is a sphere approximation of a cell surface: a radius plus a
// volume-conservation correction. It is fast, lets cells connect and bounce
// dynamically, and keeps adhesive strength roughly proportional to contact
// surface.
type Membrane struct {
	cell *Cell

	BaseRadius       float64
	Radius           float64
	CorrectedRadius  float64 // volume conservation taken into account
	Stiffness        float64
	DampRatio        float64
	AngularStiffness float64
	MaxTeta          float64
	Pressure         float64

	VolumeConservation bool
}

func NewMembrane(c *Cell) *Membrane {
	return &Membrane{
		cell:               c,
		BaseRadius:         DefaultRadius,
		Radius:             DefaultRadius,
		CorrectedRadius:    DefaultRadius,
		Stiffness:          DefaultStiffness,
		DampRatio:          DefaultDampRatio,
		AngularStiffness:   DefaultAngularStiffness,
		MaxTeta:            DefaultMaxTeta,
		VolumeConservation: true,
	}
}

func (m *Membrane) Cell() *Cell { return m.cell }

// BoundingRadius is the radius used by broad-phase queries.
func (m *Membrane) BoundingRadius() float64 { return m.CorrectedRadius }

func (m *Membrane) Volume() float64 {
	return (4.0 / 3.0) * math.Pi * m.Radius * m.Radius * m.Radius
}

func (m *Membrane) BaseVolume() float64 {
	return (4.0 / 3.0) * math.Pi * m.BaseRadius * m.BaseRadius * m.BaseRadius
}

func (m *Membrane) MomentOfInertia() float64 {
	return 4.0 * m.cell.Mass * m.Radius * m.Radius
}

func (m *Membrane) SetRadius(r float64) {
	m.Radius = r
	m.CorrectedRadius = r
}

func (m *Membrane) SetBaseRadius(r float64) { m.BaseRadius = r }

func (m *Membrane) SetRadiusRatio(r float64) {
	m.Radius = r * m.BaseRadius
	m.CorrectedRadius = m.Radius
}

func (m *Membrane) SetVolume(v float64) {
	m.SetRadius(math.Cbrt(v / (4.0 * math.Pi / 3.0)))
}

// Division resets the membrane to its base radius; called on the mother cell
// when it splits.
func (m *Membrane) Division() { m.SetRadius(m.BaseRadius) }

// connectionMidpoint is the radius-weighted split point along a connection
// axis: the distance from this cell's center at which the two surfaces are
// assumed to meet. Not the geometric midpoint unless radii are equal.
func (m *Membrane) connectionMidpoint(other *Cell, length float64) float64 {
	return length * m.Radius / (m.Radius + other.Membrane.Radius)
}

// ConnectedCellsAndDistance returns the connected neighbors whose contact
// midpoint is closest along the unit direction d, and that distance. Several
// neighbors within FuzzyEqual of the minimum are all returned. A neighbor
// counts only if it lies in the hemisphere of d; with no candidate the cell's
// own corrected radius is the distance.
func (m *Membrane) ConnectedCellsAndDistance(mgr *Manager, d geom.Vec) ([]*Cell, float64) {
	var closest []*Cell
	closestDist := m.CorrectedRadius
	mgr.EachOf(m.cell, func(con *CellCellConnection) {
		con.UpdateLengthDirection()
		other := con.Other(m.cell)
		outward := con.Spring.Direction // endpoint 0 -> endpoint 1
		if m.cell != con.Cells[0] {
			outward = outward.Neg()
		}
		dot := outward.Dot(d)
		if dot > 0 {
			midpoint := m.connectionMidpoint(other, con.Spring.Length)
			l := midpoint / dot
			if geom.FuzzyEqual(l, closestDist) {
				closest = append(closest, other)
			} else if l < closestDist {
				closestDist = l
				closest = []*Cell{other}
			}
		}
	})
	return closest, closestDist
}

// MembraneDistance is the scalar part of ConnectedCellsAndDistance.
func (m *Membrane) MembraneDistance(mgr *Manager, d geom.Vec) float64 {
	_, dist := m.ConnectedCellsAndDistance(mgr, d)
	return dist
}

// CompensateVolumeLoss recomputes CorrectedRadius so that the target
// spherical volume minus the spherical caps eaten by each contact stays
// approximately preserved. The loss is amplified before inverting because
// caps from several connections overlap in effect.
func (m *Membrane) CompensateVolumeLoss(mgr *Manager) {
	targetVol := m.Volume()
	volumeLoss := 0.0
	mgr.EachOf(m.cell, func(con *CellCellConnection) {
		other := con.Other(m.cell)
		midpoint := m.connectionMidpoint(other, con.Spring.Length)
		h := m.Radius - midpoint
		volumeLoss += (math.Pi * h / 6.0) *
			(3.0*(m.Radius*m.Radius-midpoint*midpoint) + h*h)
	})
	corrected := targetVol + VolumeLossAmplification*volumeLoss
	if corrected < 0 {
		corrected = 0
	}
	m.CorrectedRadius = geom.RoundN(math.Cbrt(corrected / ((4.0 / 3.0) * math.Pi)))
}

// ComputePressure estimates internal pressure from the force magnitudes
// accumulated this step over the instantaneous surface area. The result is
// rounded so it can feed chained fixed-precision comparisons.
func (m *Membrane) ComputePressure() {
	surface := 4.0 * math.Pi * m.Radius * m.Radius
	if surface < geom.Epsilon {
		m.Pressure = 0
		return
	}
	m.Pressure = geom.RoundN(m.cell.TotalForce / surface)
}

// ConnectionLengthFor is the rest length policy for a new or refreshed
// connection between two cells: the pessimistic (minimum) of the two
// directional adhesion values decides compaction.
func ConnectionLengthFor(c0, c1 *Cell) float64 {
	return ConnectionLength(
		c0.Membrane.CorrectedRadius+c1.Membrane.CorrectedRadius,
		math.Min(c0.adhesionWith(c1), c1.adhesionWith(c0)))
}

// ConnectionLength interpolates the rest length for summed radii l under
// adhesion adh. Below the threshold the cells just touch.
func ConnectionLength(l, adh float64) float64 {
	if adh > AdhThreshold {
		return geom.Mix(MaxAdhLength*l, MinAdhLength*l, adh)
	}
	return l
}
