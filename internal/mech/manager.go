package mech

import (
	"fmt"
	"math"

	"github.com/sbrunel/cytomech/internal/geom"
)

// Handle identifies a connection slot in the manager's arena. Handles become
// invalid on disconnection; they are never reused within a step.
type Handle int

// cellPair is an unordered pair of cells in canonical (creation id) order.
type cellPair struct {
	a, b *Cell
}

func orderedPair(x, y *Cell) cellPair {
	if x.id > y.id {
		x, y = y, x
	}
	return cellPair{a: x, b: y}
}

// Partition is the broad-phase spatial index consumed by the manager.
// Batches must group co-located cells such that two cells from different
// buckets of the same batch can never be mutually adjacent, which makes
// per-bucket pair scans safe to process independently.
type Partition interface {
	Clear()
	Insert(c *Cell)
	Batches() [][][]*Cell
}

// Manager owns the cell-cell adjacency graph: an arena of connections
// indexed by handles plus a per-cell neighbor map. Both views are updated
// together on every insertion and removal.
type Manager struct {
	conns     []*CellCellConnection
	free      []Handle
	neighbors map[*Cell]map[*Cell]Handle
}

func NewManager() *Manager {
	return &Manager{neighbors: make(map[*Cell]map[*Cell]Handle)}
}

// Count returns the number of live connections.
func (m *Manager) Count() int {
	return len(m.conns) - len(m.free)
}

// AreConnected reports whether a connection exists between a and b.
func (m *Manager) AreConnected(a, b *Cell) bool {
	_, ok := m.neighbors[a][b]
	return ok
}

// Get resolves a handle; nil if the slot was freed.
func (m *Manager) Get(h Handle) *CellCellConnection {
	if h < 0 || int(h) >= len(m.conns) {
		return nil
	}
	return m.conns[h]
}

// Degree returns the number of connections incident to c.
func (m *Manager) Degree(c *Cell) int {
	return len(m.neighbors[c])
}

// ForEach visits every live connection.
func (m *Manager) ForEach(fn func(Handle, *CellCellConnection)) {
	for i, con := range m.conns {
		if con != nil {
			fn(Handle(i), con)
		}
	}
}

// EachOf visits every connection incident to c.
func (m *Manager) EachOf(c *Cell, fn func(*CellCellConnection)) {
	for _, h := range m.neighbors[c] {
		if con := m.conns[h]; con != nil {
			fn(con)
		}
	}
}

// Neighbors returns the cells currently connected to c.
func (m *Manager) Neighbors(c *Cell) []*Cell {
	ns := make([]*Cell, 0, len(m.neighbors[c]))
	for n := range m.neighbors[c] {
		ns = append(ns, n)
	}
	return ns
}

// Connect creates a connection between c0 and c1: a spring with
// volume-weighted blended stiffness and damping, and one joint per endpoint
// built from that endpoint's own membrane. Connecting a cell to itself or
// duplicating a pair is a programming error.
func (m *Manager) Connect(c0, c1 *Cell) Handle {
	if c0 == c1 {
		panic("mech: cell connected to itself")
	}
	if m.AreConnected(c0, c1) {
		panic(fmt.Sprintf("mech: duplicate connection between cells %d and %d", c0.id, c1.id))
	}

	m0, m1 := c0.Membrane, c1.Membrane
	l := geom.RoundN(ConnectionLengthFor(c0, c1))
	vol0, vol1 := m0.Volume(), m1.Volume()
	volSum := geom.RoundN(vol0 + vol1)
	k := geom.RoundN((m0.Stiffness*vol0 + m1.Stiffness*vol1) / volSum)
	dr := geom.RoundN((m0.DampRatio*vol0 + m1.DampRatio*vol1) / volSum)

	con := &CellCellConnection{
		Cells:  [2]*Cell{c0, c1},
		Spring: NewSpring(k, geom.RoundN(DampingFromRatio(dr, c0.Mass+c1.Mass, k)), l),
		Joints: [2]Joint{
			NewJoint(m0.AngularStiffness,
				DampingFromRatio(dr, m0.MomentOfInertia()*2.0, m0.AngularStiffness),
				m0.MaxTeta),
			NewJoint(m1.AngularStiffness,
				DampingFromRatio(dr, m1.MomentOfInertia()*2.0, m1.AngularStiffness),
				m1.MaxTeta),
		},
	}
	con.UpdateLengthDirection()
	con.Joints[0].Anchor(c0.Orientation, con.Spring.Direction)
	con.Joints[1].Anchor(c1.Orientation, con.Spring.Direction.Neg())

	var h Handle
	if n := len(m.free); n > 0 {
		h = m.free[n-1]
		m.free = m.free[:n-1]
		m.conns[h] = con
	} else {
		h = Handle(len(m.conns))
		m.conns = append(m.conns, con)
	}
	m.link(c0, c1, h)
	m.link(c1, c0, h)
	return h
}

func (m *Manager) link(from, to *Cell, h Handle) {
	ns := m.neighbors[from]
	if ns == nil {
		ns = make(map[*Cell]Handle)
		m.neighbors[from] = ns
	}
	ns[to] = h
}

// Disconnect removes the connection between a and b, if any.
func (m *Manager) Disconnect(a, b *Cell) {
	h, ok := m.neighbors[a][b]
	if !ok {
		return
	}
	m.removeHandle(h)
}

func (m *Manager) removeHandle(h Handle) {
	con := m.conns[h]
	if con == nil {
		return
	}
	m.conns[h] = nil
	m.free = append(m.free, h)
	m.unlink(con.Cells[0], con.Cells[1])
	m.unlink(con.Cells[1], con.Cells[0])
}

func (m *Manager) unlink(from, to *Cell) {
	ns := m.neighbors[from]
	delete(ns, to)
	if len(ns) == 0 {
		delete(m.neighbors, from)
	}
}

// DisconnectAll removes every connection incident to c. Must be called
// before a cell is destroyed; a dangling connection is a correctness
// violation, not just a leak.
func (m *Manager) DisconnectAll(c *Cell) {
	handles := make([]Handle, 0, len(m.neighbors[c]))
	for _, h := range m.neighbors[c] {
		handles = append(handles, h)
	}
	for _, h := range handles {
		m.removeHandle(h)
	}
}

// CheckConnections refreshes cached geometry, repopulates the broad-phase
// partition from cells, and creates connections for every pair passing the
// proximity test. Eligibility is recomputed fresh; pairs already connected
// or already proposed in this pass are skipped, and creation is deferred
// until after the whole scan so results cannot depend on batch order.
func (m *Manager) CheckConnections(cells []*Cell, part Partition) {
	m.ForEach(func(_ Handle, con *CellCellConnection) {
		con.UpdateLengthDirection()
	})

	part.Clear()
	for _, c := range cells {
		part.Insert(c)
	}

	proposed := make(map[cellPair]struct{})
	for _, batch := range part.Batches() {
		for _, bucket := range batch {
			for j := 0; j < len(bucket); j++ {
				for k := j + 1; k < len(bucket); k++ {
					op := orderedPair(bucket[j], bucket[k])
					if op.a == op.b {
						continue
					}
					ab := op.a.Position.Sub(op.b.Position).Rounded()
					sqDist := ab.SqLength()
					maxLength := op.a.Membrane.CorrectedRadius + op.b.Membrane.CorrectedRadius
					if sqDist > maxLength*maxLength {
						continue
					}
					if m.AreConnected(op.a, op.b) {
						continue
					}
					if _, dup := proposed[op]; dup {
						continue
					}
					dist := math.Sqrt(sqDist)
					if dist < geom.Epsilon {
						continue
					}
					// query each membrane toward the other cell; the same
					// fixed-precision rounding as everywhere else keeps
					// chained comparisons deterministic
					dir := ab.Scale(-1.0 / dist) // a -> b
					d0 := geom.RoundN(op.a.Membrane.MembraneDistance(m, dir))
					d1 := geom.RoundN(op.b.Membrane.MembraneDistance(m, dir.Neg()))
					if geom.RoundN(dist) <= d0+d1 {
						proposed[op] = struct{}{}
					}
				}
			}
		}
	}

	for op := range proposed {
		m.Connect(op.a, op.b)
	}
}

// UpdateConnections refreshes every connection, drops the ones that are no
// longer geometrically valid, and computes forces on the rest. A connection
// is invalid when its length exceeds the summed corrected radii or when
// either endpoint stops being the other's nearest connected neighbor along
// the axis; the nearest-neighbor condition must hold in both directions.
// Removal is swept after the full scan.
func (m *Manager) UpdateConnections(dt float64) {
	m.ForEach(func(_ Handle, con *CellCellConnection) {
		con.UpdateLengthDirection()
	})

	var stale []Handle
	m.ForEach(func(h Handle, con *CellCellConnection) {
		c0, c1 := con.Cells[0], con.Cells[1]
		dir := con.Spring.Direction
		if dir.IsZero() {
			stale = append(stale, h)
			return
		}
		closest0, _ := c0.Membrane.ConnectedCellsAndDistance(m, dir.Rounded())
		closest1, _ := c1.Membrane.ConnectedCellsAndDistance(m, dir.Neg().Rounded())
		sumRadii := geom.RoundN(c0.Membrane.CorrectedRadius + c1.Membrane.CorrectedRadius)
		if con.Spring.Length > sumRadii ||
			!containsCell(closest0, c1) || !containsCell(closest1, c0) {
			stale = append(stale, h)
			return
		}

		avgRadius := (c0.Membrane.Radius + c1.Membrane.Radius) / 2.0
		contactSurface := geom.RoundN(math.Pi *
			(con.Spring.Length*con.Spring.Length + avgRadius*avgRadius))
		con.Spring.SetKCoef(contactSurface)
		con.Joints[0].SetKCoef(contactSurface)
		con.Joints[1].SetKCoef(contactSurface)

		newLength := ConnectionLength(
			c0.Membrane.CorrectedRadius+c1.Membrane.CorrectedRadius,
			(c0.adhesionWith(c1)+c1.adhesionWith(c0))*0.5)
		con.Spring.SetRestLength(geom.RoundN(newLength))

		con.ComputeForces(dt)
	})

	for _, h := range stale {
		m.removeHandle(h)
	}
}

func containsCell(cells []*Cell, c *Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
