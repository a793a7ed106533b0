package mech

import (
	"testing"

	"github.com/sbrunel/cytomech/internal/geom"
)

// singleBucket is a trivial partition putting every cell in one bucket. Good
// enough for small populations under test.
type singleBucket struct {
	cells []*Cell
}

func (p *singleBucket) Clear()          { p.cells = nil }
func (p *singleBucket) Insert(c *Cell)  { p.cells = append(p.cells, c) }
func (p *singleBucket) Batches() [][][]*Cell {
	return [][][]*Cell{{p.cells}}
}

func TestConnectDisconnect(t *testing.T) {
	mgr := NewManager()
	c0 := NewCell(geom.Vec{})
	c1 := NewCell(geom.Vec{X: 70})

	h := mgr.Connect(c0, c1)
	if mgr.Count() != 1 {
		t.Errorf("expected 1 connection, got %d", mgr.Count())
	}
	if !mgr.AreConnected(c0, c1) || !mgr.AreConnected(c1, c0) {
		t.Error("expected connection in both directions")
	}
	if mgr.Degree(c0) != 1 || mgr.Degree(c1) != 1 {
		t.Errorf("expected degree 1, got %d and %d", mgr.Degree(c0), mgr.Degree(c1))
	}
	if con := mgr.Get(h); con == nil || !con.Has(c0) || !con.Has(c1) {
		t.Error("handle should resolve to the connection between both cells")
	}

	mgr.Disconnect(c0, c1)
	if mgr.Count() != 0 {
		t.Errorf("expected 0 connections after disconnect, got %d", mgr.Count())
	}
	if mgr.AreConnected(c0, c1) {
		t.Error("cells should no longer be connected")
	}
	if mgr.Get(h) != nil {
		t.Error("handle should be invalid after disconnect")
	}
}

func TestConnectSelfPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on self connection")
		}
	}()
	mgr := NewManager()
	c := NewCell(geom.Vec{})
	mgr.Connect(c, c)
}

func TestConnectDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate connection")
		}
	}()
	mgr := NewManager()
	c0 := NewCell(geom.Vec{})
	c1 := NewCell(geom.Vec{X: 70})
	mgr.Connect(c0, c1)
	mgr.Connect(c1, c0)
}

func TestDisconnectAll(t *testing.T) {
	mgr := NewManager()
	center := NewCell(geom.Vec{})
	others := []*Cell{
		NewCell(geom.Vec{X: 70}),
		NewCell(geom.Vec{X: -70}),
		NewCell(geom.Vec{Y: 70}),
	}
	for _, o := range others {
		mgr.Connect(center, o)
	}

	if ns := mgr.Neighbors(center); len(ns) != len(others) {
		t.Fatalf("expected %d neighbors before disconnect, got %d", len(others), len(ns))
	}

	mgr.DisconnectAll(center)
	if mgr.Count() != 0 {
		t.Errorf("expected 0 connections, got %d", mgr.Count())
	}
	if mgr.Degree(center) != 0 {
		t.Errorf("expected degree 0, got %d", mgr.Degree(center))
	}
	for _, o := range others {
		if mgr.Degree(o) != 0 {
			t.Error("neighbor still references a removed connection")
		}
	}
}

func TestHandleReuse(t *testing.T) {
	mgr := NewManager()
	c0 := NewCell(geom.Vec{})
	c1 := NewCell(geom.Vec{X: 70})
	c2 := NewCell(geom.Vec{Y: 70})

	h0 := mgr.Connect(c0, c1)
	mgr.Disconnect(c0, c1)
	h1 := mgr.Connect(c0, c2)
	if h0 != h1 {
		t.Errorf("expected freed slot %d to be reused, got %d", h0, h1)
	}
}

func TestCheckConnectionsCreatesTouchingPair(t *testing.T) {
	mgr := NewManager()
	cells := []*Cell{
		NewCell(geom.Vec{}),
		NewCell(geom.Vec{X: 2 * DefaultRadius}), // exactly touching
	}

	mgr.CheckConnections(cells, &singleBucket{})
	if mgr.Count() != 1 {
		t.Errorf("expected 1 connection for touching cells, got %d", mgr.Count())
	}
}

func TestCheckConnectionsRejectsSeparatedPair(t *testing.T) {
	mgr := NewManager()
	cells := []*Cell{
		NewCell(geom.Vec{}),
		NewCell(geom.Vec{X: 2*DefaultRadius + 0.001}),
	}

	mgr.CheckConnections(cells, &singleBucket{})
	if mgr.Count() != 0 {
		t.Errorf("expected no connection past touch distance, got %d", mgr.Count())
	}
}

func TestCheckConnectionsIdempotent(t *testing.T) {
	mgr := NewManager()
	cells := []*Cell{
		NewCell(geom.Vec{}),
		NewCell(geom.Vec{X: 70}),
		NewCell(geom.Vec{X: 140}),
	}

	part := &singleBucket{}
	mgr.CheckConnections(cells, part)
	count := mgr.Count()
	mgr.CheckConnections(cells, part)
	if mgr.Count() != count {
		t.Errorf("expected stable count %d on repeated check, got %d", count, mgr.Count())
	}
}

func TestCheckConnectionsSkipsCoincidentCenters(t *testing.T) {
	mgr := NewManager()
	cells := []*Cell{
		NewCell(geom.Vec{X: 5}),
		NewCell(geom.Vec{X: 5}),
	}

	mgr.CheckConnections(cells, &singleBucket{})
	if mgr.Count() != 0 {
		t.Errorf("expected no connection for coincident centers, got %d", mgr.Count())
	}
}

func TestUpdateConnectionsDropsSeparatedPair(t *testing.T) {
	mgr := NewManager()
	c0 := NewCell(geom.Vec{})
	c1 := NewCell(geom.Vec{X: 70})
	mgr.Connect(c0, c1)

	c1.Position = geom.Vec{X: 500}
	mgr.UpdateConnections(0.01)

	if mgr.Count() != 0 {
		t.Errorf("expected separated pair to be dropped, got %d connections", mgr.Count())
	}
	if mgr.Degree(c0) != 0 || mgr.Degree(c1) != 0 {
		t.Error("stale neighbor entries left behind")
	}
}

func TestUpdateConnectionsDropsShieldedPair(t *testing.T) {
	mgr := NewManager()
	a := NewCell(geom.Vec{})
	b := NewCell(geom.Vec{X: 30})
	c := NewCell(geom.Vec{X: 60})
	mgr.Connect(a, b)
	mgr.Connect(b, c)
	mgr.Connect(a, c)

	// b sits between a and c, so neither end of the a-c connection sees the
	// other as its closest neighbor along the axis
	mgr.UpdateConnections(0.01)

	if mgr.AreConnected(a, c) {
		t.Error("expected shielded a-c connection to be dropped")
	}
	if !mgr.AreConnected(a, b) || !mgr.AreConnected(b, c) {
		t.Error("adjacent connections should survive")
	}
}

func TestUpdateConnectionsRepelsCompressedPair(t *testing.T) {
	mgr := NewManager()
	c0 := NewCell(geom.Vec{})
	c1 := NewCell(geom.Vec{X: 80})
	mgr.Connect(c0, c1) // rest length 80 without adhesion

	c0.Position = geom.Vec{X: 10} // compress to 70
	mgr.UpdateConnections(0.01)

	if c0.Force.X >= 0 {
		t.Errorf("expected repulsion pushing cell 0 in -x, got %f", c0.Force.X)
	}
	if c1.Force.X <= 0 {
		t.Errorf("expected repulsion pushing cell 1 in +x, got %f", c1.Force.X)
	}
}

func TestUpdateConnectionsAttractsAdhesivePair(t *testing.T) {
	mgr := NewManager()
	c0 := NewCell(geom.Vec{})
	c1 := NewCell(geom.Vec{X: 80})
	c0.AdhesionWith = func(*Cell) float64 { return 1 }
	c1.AdhesionWith = func(*Cell) float64 { return 1 }
	mgr.Connect(c0, c1) // full adhesion: rest length 48

	mgr.UpdateConnections(0.01)

	if c0.Force.X <= 0 {
		t.Errorf("expected adhesion pulling cell 0 in +x, got %f", c0.Force.X)
	}
	if c1.Force.X >= 0 {
		t.Errorf("expected adhesion pulling cell 1 in -x, got %f", c1.Force.X)
	}
}
