// Package render consumes the flat vertex buffers produced by shapes: it
// decodes them positionally, rasterizes them in software, and runs the
// per-tick frame loop that hands frames to a drawable surface.
package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/fingerco/MetalFun/pkg/math3d"
	"github.com/fingerco/MetalFun/pkg/shapes"
)

// Uniforms are the per-frame matrices uploaded next to the vertex buffer.
type Uniforms struct {
	Projection mgl32.Mat4
	Model      mgl32.Mat4
}

// DefaultUniforms returns identity projection and model matrices.
func DefaultUniforms() Uniforms {
	return Uniforms{Projection: math3d.Identity(), Model: math3d.Identity()}
}

// MVP returns Projection·Model.
func (u Uniforms) MVP() mgl32.Mat4 {
	return u.Projection.Mul4(u.Model)
}

// Floats returns the uniform buffer: projection then model, each 16
// column-major floats.
func (u Uniforms) Floats() []float32 {
	out := make([]float32, 0, 2*math3d.FloatsPerMatrix)
	out = append(out, u.Projection[:]...)
	return append(out, u.Model[:]...)
}

// Frame is everything the renderer needs for one draw.
type Frame struct {
	Index         int
	Vertices      []float32
	TriangleCount int
	Uniforms      Uniforms
}

// Validate checks that the buffer length matches the triangle count.
func (f *Frame) Validate() error {
	want := f.TriangleCount * shapes.FloatsPerTriangle
	if len(f.Vertices) != want {
		return fmt.Errorf("frame %d: %d floats for %d triangles, want %d",
			f.Index, len(f.Vertices), f.TriangleCount, want)
	}
	return nil
}

// VertexCount returns the number of vertices in the buffer.
func (f *Frame) VertexCount() int {
	return f.TriangleCount * shapes.VerticesPerTriangle
}

// DecodeVertex reads vertex i from an interleaved buffer.
func DecodeVertex(buf []float32, i int) shapes.Vertex {
	o := i * shapes.FloatsPerVertex
	v := buf[o : o+shapes.FloatsPerVertex : o+shapes.FloatsPerVertex]
	return shapes.Vertex{
		Pos:   shapes.Position{X: v[0], Y: v[1], Z: v[2]},
		Color: shapes.VertexColor{R: v[3], G: v[4], B: v[5], A: v[6]},
	}
}

// DecodeTriangle reads triangle i from an interleaved buffer.
func DecodeTriangle(buf []float32, i int) shapes.Triangle {
	base := i * shapes.VerticesPerTriangle
	return shapes.Tri(DecodeVertex(buf, base), DecodeVertex(buf, base+1), DecodeVertex(buf, base+2))
}
