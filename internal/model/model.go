// Package model holds static scene geometry consumed by the cell-model
// collision tracker. Meshes arrive already parsed; file loading lives
// outside this module.
package model

import "github.com/sbrunel/cytomech/internal/geom"

// Triangle indexes three vertices of a mesh.
type Triangle struct {
	Indices [3]int
}

// Model is a static triangle mesh. The pointer identity of a Model is stable
// for its lifetime and is used as a map key by the connection tracker.
type Model struct {
	Name     string
	Vertices []geom.Vec
	Normals  []geom.Vec
	Faces    []Triangle

	base []geom.Vec // untransformed vertices
}

// New builds a model from vertex positions and faces. The vertex slice is
// copied so later transforms do not alias caller data.
func New(name string, vertices []geom.Vec, faces []Triangle) *Model {
	m := &Model{
		Name:     name,
		Vertices: append([]geom.Vec(nil), vertices...),
		Faces:    append([]Triangle(nil), faces...),
		base:     append([]geom.Vec(nil), vertices...),
	}
	m.computeNormals()
	return m
}

// FaceVertices returns the three corner positions of face i.
func (m *Model) FaceVertices(i int) (geom.Vec, geom.Vec, geom.Vec) {
	f := m.Faces[i]
	return m.Vertices[f.Indices[0]], m.Vertices[f.Indices[1]], m.Vertices[f.Indices[2]]
}

func (m *Model) Scale(s geom.Vec) {
	for i, v := range m.Vertices {
		m.Vertices[i] = geom.Vec{X: v.X * s.X, Y: v.Y * s.Y, Z: v.Z * s.Z}
	}
	m.computeNormals()
}

func (m *Model) Translate(t geom.Vec) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(t)
	}
}

func (m *Model) Rotate(r geom.Rotation) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Rotated(r)
	}
	m.computeNormals()
}

// Reset restores the untransformed vertex positions.
func (m *Model) Reset() {
	copy(m.Vertices, m.base)
	m.computeNormals()
}

func (m *Model) computeNormals() {
	if len(m.Normals) != len(m.Faces) {
		m.Normals = make([]geom.Vec, len(m.Faces))
	}
	for i := range m.Faces {
		p0, p1, p2 := m.FaceVertices(i)
		m.Normals[i] = p1.Sub(p0).Cross(p2.Sub(p0)).Normalized()
	}
}
