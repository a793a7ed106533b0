package mech

import (
	"math"
	"testing"

	"github.com/sbrunel/cytomech/internal/geom"
)

func TestVolumeRoundTrip(t *testing.T) {
	c := NewCell(geom.Vec{})
	m := c.Membrane

	vol := m.Volume()
	m.SetVolume(vol)
	if math.Abs(m.Radius-DefaultRadius) > 1e-9 {
		t.Errorf("expected radius %f after volume round trip, got %f", DefaultRadius, m.Radius)
	}

	m.SetVolume(vol / 2)
	want := DefaultRadius / math.Cbrt(2)
	if math.Abs(m.Radius-want) > 1e-9 {
		t.Errorf("expected radius %f at half volume, got %f", want, m.Radius)
	}
}

func TestDivisionRestoresBaseRadius(t *testing.T) {
	c := NewCell(geom.Vec{})
	m := c.Membrane
	m.SetVolume(m.Volume() / 2)

	m.Division()
	if m.Radius != m.BaseRadius {
		t.Errorf("expected base radius %f after division, got %f", m.BaseRadius, m.Radius)
	}
	if math.Abs(m.Volume()-m.BaseVolume()) > 1e-9 {
		t.Errorf("expected volume %f after division, got %f", m.BaseVolume(), m.Volume())
	}
}

func TestCompensateVolumeLossIsolatedCell(t *testing.T) {
	mgr := NewManager()
	c := NewCell(geom.Vec{})

	c.Membrane.CompensateVolumeLoss(mgr)
	if c.Membrane.CorrectedRadius != geom.RoundN(DefaultRadius) {
		t.Errorf("expected corrected radius %f with no connections, got %f",
			DefaultRadius, c.Membrane.CorrectedRadius)
	}
}

func TestCompensateVolumeLossGrowsCorrectedRadius(t *testing.T) {
	mgr := NewManager()
	c0 := NewCell(geom.Vec{})
	c1 := NewCell(geom.Vec{X: 60})
	mgr.Connect(c0, c1)

	c0.Membrane.CompensateVolumeLoss(mgr)
	if c0.Membrane.CorrectedRadius <= c0.Membrane.Radius {
		t.Errorf("expected corrected radius above %f for an overlapping contact, got %f",
			c0.Membrane.Radius, c0.Membrane.CorrectedRadius)
	}
}

func TestComputePressure(t *testing.T) {
	c := NewCell(geom.Vec{})
	c.ReceiveForce(geom.Vec{X: 3})
	c.ReceiveForce(geom.Vec{Y: -4})

	c.Membrane.ComputePressure()
	want := geom.RoundN(7.0 / (4.0 * math.Pi * DefaultRadius * DefaultRadius))
	if c.Membrane.Pressure != want {
		t.Errorf("expected pressure %f, got %f", want, c.Membrane.Pressure)
	}
}

func TestConnectionLengthPolicy(t *testing.T) {
	tests := []struct {
		name string
		l    float64
		adh  float64
		want float64
	}{
		{"no adhesion keeps touch length", 100, 0, 100},
		{"below threshold keeps touch length", 100, 0.05, 100},
		{"full adhesion compacts to min", 100, 1, 60},
		{"half adhesion interpolates", 100, 0.5, 70},
	}

	for _, tt := range tests {
		if got := ConnectionLength(tt.l, tt.adh); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestConnectionLengthForUsesMinimumAdhesion(t *testing.T) {
	c0 := NewCell(geom.Vec{})
	c1 := NewCell(geom.Vec{X: 80})
	c0.AdhesionWith = func(*Cell) float64 { return 1 }
	c1.AdhesionWith = func(*Cell) float64 { return 0 }

	// the pessimistic side wins: no compaction
	if got := ConnectionLengthFor(c0, c1); math.Abs(got-80) > 1e-9 {
		t.Errorf("expected rest length 80, got %f", got)
	}
}

func TestMembraneDistanceIsolated(t *testing.T) {
	mgr := NewManager()
	c := NewCell(geom.Vec{})

	d := c.Membrane.MembraneDistance(mgr, geom.Vec{X: 1})
	if d != c.Membrane.CorrectedRadius {
		t.Errorf("expected corrected radius %f for isolated cell, got %f",
			c.Membrane.CorrectedRadius, d)
	}
}

func TestMembraneDistanceTowardNeighbor(t *testing.T) {
	mgr := NewManager()
	c0 := NewCell(geom.Vec{})
	c1 := NewCell(geom.Vec{X: 60})
	mgr.Connect(c0, c1)

	// equal radii: contact midpoint sits halfway along the axis
	d := c0.Membrane.MembraneDistance(mgr, geom.Vec{X: 1})
	if math.Abs(d-30) > 1e-9 {
		t.Errorf("expected membrane distance 30 toward neighbor, got %f", d)
	}

	// away from the neighbor the membrane is unobstructed
	d = c0.Membrane.MembraneDistance(mgr, geom.Vec{X: -1})
	if d != c0.Membrane.CorrectedRadius {
		t.Errorf("expected corrected radius away from neighbor, got %f", d)
	}
}

func TestConnectedCellsAndDistancePicksClosest(t *testing.T) {
	mgr := NewManager()
	center := NewCell(geom.Vec{})
	near := NewCell(geom.Vec{X: 50})
	far := NewCell(geom.Vec{X: -70})
	mgr.Connect(center, near)
	mgr.Connect(center, far)

	cells, d := center.Membrane.ConnectedCellsAndDistance(mgr, geom.Vec{X: 1})
	if len(cells) != 1 || cells[0] != near {
		t.Fatalf("expected only the near neighbor, got %d cells", len(cells))
	}
	if math.Abs(d-25) > 1e-9 {
		t.Errorf("expected distance 25, got %f", d)
	}
}
