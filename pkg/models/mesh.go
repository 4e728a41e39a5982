// Package models writes the box to common 3D model formats and reads such
// files back as triangle soup.
package models

import (
	"github.com/fingerco/MetalFun/pkg/shapes"
)

// DefaultColor is given to vertices read from formats that carry no color.
var DefaultColor = shapes.RGBA(1, 1, 1, 1)

// Mesh is a list of world-space triangles.
type Mesh struct {
	Name      string
	Triangles []shapes.Triangle

	// Bounding box (calculated on load)
	BoundsMin shapes.Position
	BoundsMax shapes.Position
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// MeshFromBox returns the box's triangles in world space.
func MeshFromBox(name string, box shapes.Box) *Mesh {
	m := &Mesh{Name: name, Triangles: box.WorldTriangles()}
	m.CalculateBounds()
	return m
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Triangles) == 0 {
		return
	}
	first := m.Triangles[0].Vertices[0].Pos
	m.BoundsMin, m.BoundsMax = first, first
	for _, t := range m.Triangles {
		for _, v := range t.Vertices {
			p := v.Pos
			m.BoundsMin = shapes.Pos(min(m.BoundsMin.X, p.X), min(m.BoundsMin.Y, p.Y), min(m.BoundsMin.Z, p.Z))
			m.BoundsMax = shapes.Pos(max(m.BoundsMax.X, p.X), max(m.BoundsMax.Y, p.Y), max(m.BoundsMax.Z, p.Z))
		}
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() shapes.Position {
	return shapes.PositionFromVec3(m.BoundsMin.Vec3().Add(m.BoundsMax.Vec3()).Mul(0.5))
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() shapes.Position {
	return shapes.PositionFromVec3(m.BoundsMax.Vec3().Sub(m.BoundsMin.Vec3()))
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of vertices, counting shared corners once
// per triangle.
func (m *Mesh) VertexCount() int {
	return len(m.Triangles) * shapes.VerticesPerTriangle
}

// UniqueVertexCount returns the number of distinct positions.
func (m *Mesh) UniqueVertexCount() int {
	seen := make(map[shapes.Position]struct{})
	for _, t := range m.Triangles {
		for _, v := range t.Vertices {
			seen[v.Pos] = struct{}{}
		}
	}
	return len(seen)
}

// Floats flattens the mesh into the 7-float vertex layout.
func (m *Mesh) Floats() []float32 {
	return shapes.Flatten(m.Triangles)
}
