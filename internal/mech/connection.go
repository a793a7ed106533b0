package mech

// CellCellConnection links an unordered pair of cells with one damped spring
// and a torsional joint per endpoint. The pair (Cells[0], Cells[1]) is fixed
// at creation; at most one connection may exist per pair.
type CellCellConnection struct {
	Cells  [2]*Cell
	Spring Spring
	Joints [2]Joint
}

// Other returns the endpoint that is not c. c must be one of the endpoints.
func (con *CellCellConnection) Other(c *Cell) *Cell {
	if c == con.Cells[0] {
		return con.Cells[1]
	}
	return con.Cells[0]
}

// Has reports whether c is one of the endpoints.
func (con *CellCellConnection) Has(c *Cell) bool {
	return c == con.Cells[0] || c == con.Cells[1]
}

// UpdateLengthDirection refreshes the cached axis geometry from the current
// endpoint positions. Must run before any force computation or membrane
// query that reads the cached values; safe to call repeatedly.
func (con *CellCellConnection) UpdateLengthDirection() {
	con.Spring.UpdateLengthDirection(con.Cells[0].Position, con.Cells[1].Position)
}

// ComputeForces evaluates the spring and both joints and accumulates force
// and torque onto the endpoints. Degenerate axes (overlapping centers)
// produce no force rather than a NaN.
func (con *CellCellConnection) ComputeForces(dt float64) {
	dir := con.Spring.Direction
	if dir.IsZero() {
		return
	}
	f := con.Spring.ForceMagnitude(dt)
	con.Cells[0].ReceiveForce(dir.Scale(f))
	con.Cells[1].ReceiveForce(dir.Scale(-f))

	con.Joints[0].ApplyTorque(con.Cells[0], dir, dt)
	con.Joints[1].ApplyTorque(con.Cells[1], dir.Neg(), dt)
}
