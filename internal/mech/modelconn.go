package mech

import (
	"math"

	"github.com/sbrunel/cytomech/internal/geom"
	"github.com/sbrunel/cytomech/internal/model"
)

// FaceCandidate is a (mesh, triangle) pair returned by the face partition.
type FaceCandidate struct {
	Model *model.Model
	Face  int
}

// FacePartition is the broad-phase index over static mesh triangles.
type FacePartition interface {
	Retrieve(pos geom.Vec, radius float64) []FaceCandidate
}

// ModelPoint is a point pinned to a mesh triangle.
type ModelPoint struct {
	Model    *model.Model
	Position geom.Vec
	Face     int
}

// CellModelConnection ties a cell to a static mesh with two springs: a
// bounce spring toward a point on a triangle (membrane stiffness, adhesion
// rest length) and an anchor spring toward a synthetic point kept at the
// cell's height orthogonal to the contact (zero rest length). The tracker
// marks connections dirty at the start of each sweep and removes the ones no
// contact re-justified.
type CellModelConnection struct {
	Cell *Cell

	AnchorPoint geom.Vec
	Anchor      Spring

	BouncePoint ModelPoint
	Bounce      Spring

	dirty bool
}

// ComputeForces applies both springs onto the cell. The mesh side is static
// and receives nothing.
func (con *CellModelConnection) ComputeForces(dt float64) {
	con.Bounce.UpdateLengthDirection(con.BouncePoint.Position, con.Cell.Position)
	if !con.Bounce.Direction.IsZero() {
		f := con.Bounce.ForceMagnitude(dt)
		con.Cell.ReceiveForce(con.Bounce.Direction.Scale(-f))
	}
	con.Anchor.UpdateLengthDirection(con.AnchorPoint, con.Cell.Position)
	if !con.Anchor.Direction.IsZero() {
		f := con.Anchor.ForceMagnitude(dt)
		con.Cell.ReceiveForce(con.Anchor.Direction.Scale(-f))
	}
}

// ModelTracker owns the active cell-model connections, keyed by mesh then
// cell. It mirrors the cell-cell manager's create/update/expire pattern
// against fixed geometry.
type ModelTracker struct {
	conns map[*model.Model]map[*Cell][]*CellModelConnection
}

func NewModelTracker() *ModelTracker {
	return &ModelTracker{conns: make(map[*model.Model]map[*Cell][]*CellModelConnection)}
}

// Count returns the number of live cell-model connections.
func (t *ModelTracker) Count() int {
	n := 0
	for _, byCell := range t.conns {
		for _, list := range byCell {
			n += len(list)
		}
	}
	return n
}

// Of returns the connections between m and c.
func (t *ModelTracker) Of(m *model.Model, c *Cell) []*CellModelConnection {
	return t.conns[m][c]
}

// Check re-runs the broad-phase against every cell, updating matching
// connections in place (contact direction within the cosine similarity
// threshold) and creating new ones otherwise. Connections left dirty at the
// end of the sweep are removed, then empty per-mesh and per-cell entries are
// dropped.
func (t *ModelTracker) Check(cells []*Cell, faces FacePartition) {
	for _, byCell := range t.conns {
		for _, list := range byCell {
			for _, con := range list {
				con.dirty = true
			}
		}
	}

	for _, c := range cells {
		for _, cand := range faces.Retrieve(c.Position, c.Membrane.BoundingRadius()) {
			p0, p1, p2 := cand.Model.FaceVertices(cand.Face)
			inside, proj := geom.ProjectInTriangle(p0, p1, p2, c.Position)
			if !inside {
				continue
			}
			toContact := proj.Sub(c.Position)
			br := c.Membrane.BoundingRadius()
			if toContact.SqLength() >= br*br {
				continue
			}
			curDir := toContact.Normalized()
			if curDir.IsZero() {
				// cell center exactly on the triangle plane; no usable
				// contact direction this step
				continue
			}
			if t.consolidate(cand.Model, c, cand.Face, proj, curDir) {
				continue
			}
			t.create(cand.Model, c, cand.Face, proj)
		}
	}

	t.sweep()
}

// consolidate tries to fold the contact into an existing connection for the
// same (mesh, cell) key: a previous contact direction within the similarity
// threshold is moved to the new projection instead of spawning a duplicate.
func (t *ModelTracker) consolidate(m *model.Model, c *Cell, face int, proj, curDir geom.Vec) bool {
	for _, con := range t.conns[m][c] {
		prevDir := con.BouncePoint.Position.Sub(c.PrevPosition).Normalized()
		if prevDir.Dot(curDir) <= ModelConnectionSimilarity {
			continue
		}
		con.dirty = false
		con.BouncePoint.Position = proj
		con.BouncePoint.Face = face

		// keep the anchor at cell height: slide it along the component of
		// the old anchor direction orthogonal to the contact normal, clamped
		// to the cell radius
		if con.Anchor.Length > 0 {
			crossp := curDir.Cross(curDir.Cross(con.Anchor.Direction))
			if crossp.SqLength() > c.Membrane.Radius*0.02 {
				crossp = crossp.Normalized()
				projLength := math.Min(
					con.AnchorPoint.Sub(c.Position).Dot(crossp),
					c.Membrane.Radius)
				con.AnchorPoint = c.Position.Add(crossp.Scale(projLength))
			}
		}
		return true
	}
	return false
}

func (t *ModelTracker) create(m *model.Model, c *Cell, face int, proj geom.Vec) {
	adh := c.adhesionWithModel(m.Name)
	r := c.Membrane.CorrectedRadius
	l := geom.Mix(MaxAdhLength*r, MinAdhLength*r, adh)

	con := &CellModelConnection{
		Cell:        c,
		AnchorPoint: c.Position,
		Anchor: NewSpring(anchorStiffness,
			DampingFromRatio(anchorDampRatio, c.Mass, anchorStiffness), 0),
		BouncePoint: ModelPoint{Model: m, Position: proj, Face: face},
		Bounce: NewSpring(c.Membrane.Stiffness,
			DampingFromRatio(c.Membrane.DampRatio, c.Mass, c.Membrane.Stiffness), l),
	}

	byCell := t.conns[m]
	if byCell == nil {
		byCell = make(map[*Cell][]*CellModelConnection)
		t.conns[m] = byCell
	}
	byCell[c] = append(byCell[c], con)
}

func (t *ModelTracker) sweep() {
	for m, byCell := range t.conns {
		for c, list := range byCell {
			kept := list[:0]
			for _, con := range list {
				if !con.dirty {
					kept = append(kept, con)
				}
			}
			if len(kept) == 0 {
				delete(byCell, c)
			} else {
				byCell[c] = kept
			}
		}
		if len(byCell) == 0 {
			delete(t.conns, m)
		}
	}
}

// Update computes forces for every live connection.
func (t *ModelTracker) Update(dt float64) {
	for _, byCell := range t.conns {
		for _, list := range byCell {
			for _, con := range list {
				con.ComputeForces(dt)
			}
		}
	}
}

// DisconnectAll drops every connection involving c; required before the cell
// is destroyed.
func (t *ModelTracker) DisconnectAll(c *Cell) {
	for m, byCell := range t.conns {
		delete(byCell, c)
		if len(byCell) == 0 {
			delete(t.conns, m)
		}
	}
}
