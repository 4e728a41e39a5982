// Package shapes builds colored triangle geometry and flattens it into the
// interleaved float32 vertex buffers uploaded to the renderer.
//
// Every type here is a value. Transforms such as Rotated return new values
// and never modify their receiver.
package shapes

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/fingerco/MetalFun/pkg/math3d"
)

// VertexColor is an RGBA color with components conventionally in [0, 1].
type VertexColor struct {
	R, G, B, A float32
}

// RGBA creates a VertexColor.
func RGBA(r, g, b, a float32) VertexColor {
	return VertexColor{R: r, G: g, B: b, A: a}
}

// Floats returns r, g, b, a.
func (c VertexColor) Floats() []float32 {
	return []float32{c.R, c.G, c.B, c.A}
}

// Position is a point in a right-handed space with Y up and +Z toward the viewer.
type Position struct {
	X, Y, Z float32
}

// Pos creates a Position.
func Pos(x, y, z float32) Position {
	return Position{X: x, Y: y, Z: z}
}

// Floats returns x, y, z.
func (p Position) Floats() []float32 {
	return []float32{p.X, p.Y, p.Z}
}

// Vec3 converts p to an mgl32 vector.
func (p Position) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{p.X, p.Y, p.Z}
}

// PositionFromVec3 converts an mgl32 vector to a Position.
func PositionFromVec3(v mgl32.Vec3) Position {
	return Position{X: v[0], Y: v[1], Z: v[2]}
}

// Add returns the component-wise sum p + o.
func (p Position) Add(o Position) Position {
	return Position{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Len returns the distance from the origin.
func (p Position) Len() float32 {
	return p.Vec3().Len()
}

// Rotated applies q to p about the origin. q should be a unit quaternion;
// a non-unit q scales p as well. The identity returns p unchanged.
func (p Position) Rotated(q mgl32.Quat) Position {
	if math3d.IsIdentity(q) {
		return p
	}
	return PositionFromVec3(q.Rotate(p.Vec3()))
}

// Vertex pairs a position with its color.
type Vertex struct {
	Pos   Position
	Color VertexColor
}

// Floats returns the position followed by the color (7 floats).
func (v Vertex) Floats() []float32 {
	out := make([]float32, 0, FloatsPerVertex)
	return v.appendFloats(out)
}

func (v Vertex) appendFloats(dst []float32) []float32 {
	return append(dst,
		v.Pos.X, v.Pos.Y, v.Pos.Z,
		v.Color.R, v.Color.G, v.Color.B, v.Color.A,
	)
}

// Rotated returns v with its position rotated by q and its color kept.
func (v Vertex) Rotated(q mgl32.Quat) Vertex {
	return Vertex{Pos: v.Pos.Rotated(q), Color: v.Color}
}

// RotateVertices rotates each vertex by q into a new slice.
func RotateVertices(vertices []Vertex, q mgl32.Quat) []Vertex {
	out := make([]Vertex, len(vertices))
	for i, v := range vertices {
		out[i] = v.Rotated(q)
	}
	return out
}

// Triangle is three vertices. The order is significant: seen from the side
// the triangle faces, the vertices run counter-clockwise.
type Triangle struct {
	Vertices [3]Vertex
}

// Tri creates a Triangle from three vertices.
func Tri(v0, v1, v2 Vertex) Triangle {
	return Triangle{Vertices: [3]Vertex{v0, v1, v2}}
}

// Floats returns vertex 0, 1 and 2 back to back (21 floats).
func (t Triangle) Floats() []float32 {
	out := make([]float32, 0, FloatsPerTriangle)
	return t.appendFloats(out)
}

func (t Triangle) appendFloats(dst []float32) []float32 {
	for _, v := range t.Vertices {
		dst = v.appendFloats(dst)
	}
	return dst
}

// Normal returns the unnormalized face normal (v1-v0)×(v2-v0).
func (t Triangle) Normal() mgl32.Vec3 {
	v0 := t.Vertices[0].Pos.Vec3()
	e1 := t.Vertices[1].Pos.Vec3().Sub(v0)
	e2 := t.Vertices[2].Pos.Vec3().Sub(v0)
	return e1.Cross(e2)
}

// Centroid returns the average of the three positions.
func (t Triangle) Centroid() Position {
	c := t.Vertices[0].Pos.Vec3().
		Add(t.Vertices[1].Pos.Vec3()).
		Add(t.Vertices[2].Pos.Vec3()).
		Mul(1.0 / 3.0)
	return PositionFromVec3(c)
}

// Rotated returns t with every vertex rotated by q.
func (t Triangle) Rotated(q mgl32.Quat) Triangle {
	var out Triangle
	for i, v := range t.Vertices {
		out.Vertices[i] = v.Rotated(q)
	}
	return out
}

// RotateTriangles rotates each triangle by q into a new slice. Elements are
// independent so the result does not depend on input order.
func RotateTriangles(triangles []Triangle, q mgl32.Quat) []Triangle {
	out := make([]Triangle, len(triangles))
	for i, t := range triangles {
		out[i] = t.Rotated(q)
	}
	return out
}

// Flatten concatenates the flattened triangles in order.
func Flatten(triangles []Triangle) []float32 {
	out := make([]float32, 0, len(triangles)*FloatsPerTriangle)
	for _, t := range triangles {
		out = t.appendFloats(out)
	}
	return out
}
