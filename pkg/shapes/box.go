package shapes

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// Face identifies one side of a box.
type Face int

// Faces in the order NewBox emits them. Each face is two consecutive
// triangles, so face f owns triangles 2f and 2f+1. The comment gives the
// face's outward normal.
const (
	FaceBack   Face = iota // -Z
	FaceFront              // +Z
	FaceTop                // +Y
	FaceBottom             // -Y
	FaceLeft               // -X
	FaceRight              // +X
)

// String returns the lower-case face name, or Face(n) outside the six faces.
func (f Face) String() string {
	switch f {
	case FaceBack:
		return "back"
	case FaceFront:
		return "front"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	default:
		return "Face(" + strconv.Itoa(int(f)) + ")"
	}
}

// FaceColors holds the color of each face, indexed by Face.
var FaceColors = [6]VertexColor{
	FaceBack:   {1.0, 0.0, 1.0, 1.0},
	FaceFront:  {1.0, 0.0, 0.0, 1.0},
	FaceTop:    {0.5, 1.0, 0.0, 1.0},
	FaceBottom: {0.5, 0.0, 0.5, 1.0},
	FaceLeft:   {0.0, 0.0, 1.0, 1.0},
	FaceRight:  {1.0, 0.5, 0.5, 1.0},
}

// faceCorners lists each face's quad as corner signs, counter-clockwise
// when seen from outside the box. Each quad a,b,c,d becomes the triangles
// (a,b,c) and (a,c,d).
var faceCorners = [6][4][3]float32{
	FaceBack:   {{+1, -1, -1}, {-1, -1, -1}, {-1, +1, -1}, {+1, +1, -1}},
	FaceFront:  {{-1, -1, +1}, {+1, -1, +1}, {+1, +1, +1}, {-1, +1, +1}},
	FaceTop:    {{-1, +1, +1}, {+1, +1, +1}, {+1, +1, -1}, {-1, +1, -1}},
	FaceBottom: {{-1, -1, -1}, {+1, -1, -1}, {+1, -1, +1}, {-1, -1, +1}},
	FaceLeft:   {{-1, -1, -1}, {-1, -1, +1}, {-1, +1, +1}, {-1, +1, -1}},
	FaceRight:  {{+1, -1, +1}, {+1, -1, -1}, {+1, +1, -1}, {+1, +1, +1}},
}

// Box is a rectangular box made of twelve triangles, two per face, in the
// order back, front, top, bottom, left, right.
//
// Triangle positions are local: relative to the box center, which is kept
// separately in Center and applied by whoever places the box in the world.
type Box struct {
	Center    Position
	Triangles [TrianglesPerBox]Triangle
}

// NewBox builds a box around center with the given extents.
//
// Extents are not validated. A zero extent collapses the box into flat
// quads along that axis; a negative extent mirrors it, which also flips the
// winding so the faces point inward.
func NewBox(center Position, width, height, depth float32) Box {
	hx, hy, hz := width/2, height/2, depth/2

	b := Box{Center: center}
	for f, corners := range faceCorners {
		var quad [4]Vertex
		for i, s := range corners {
			quad[i] = Vertex{
				Pos:   Position{X: s[0] * hx, Y: s[1] * hy, Z: s[2] * hz},
				Color: FaceColors[f],
			}
		}
		b.Triangles[2*f] = Tri(quad[0], quad[1], quad[2])
		b.Triangles[2*f+1] = Tri(quad[0], quad[2], quad[3])
	}
	return b
}

// NewBoxFromTriangles wraps already-built local triangles.
func NewBoxFromTriangles(center Position, triangles [TrianglesPerBox]Triangle) Box {
	return Box{Center: center, Triangles: triangles}
}

// TriangleCount returns the number of triangles (always 12).
func (b Box) TriangleCount() int {
	return len(b.Triangles)
}

// VertexCount returns the number of vertices (always 36).
func (b Box) VertexCount() int {
	return len(b.Triangles) * VerticesPerTriangle
}

// FaceTriangles returns the two triangles making up face f.
func (b Box) FaceTriangles(f Face) [2]Triangle {
	return [2]Triangle{b.Triangles[2*f], b.Triangles[2*f+1]}
}

// Floats returns the local-space vertex buffer, triangle 0 through 11 (252 floats).
func (b Box) Floats() []float32 {
	return Flatten(b.Triangles[:])
}

// Rotated rotates the local geometry by q about the box's own center. The
// center itself does not move.
func (b Box) Rotated(q mgl32.Quat) Box {
	out := Box{Center: b.Center}
	for i, t := range b.Triangles {
		out.Triangles[i] = t.Rotated(q)
	}
	return out
}

// WorldTriangles returns the triangles translated by the box center.
func (b Box) WorldTriangles() []Triangle {
	out := make([]Triangle, len(b.Triangles))
	for i, t := range b.Triangles {
		for j, v := range t.Vertices {
			out[i].Vertices[j] = Vertex{Pos: v.Pos.Add(b.Center), Color: v.Color}
		}
	}
	return out
}

// RotateBoxes rotates each box by q into a new slice.
func RotateBoxes(boxes []Box, q mgl32.Quat) []Box {
	out := make([]Box, len(boxes))
	for i, b := range boxes {
		out[i] = b.Rotated(q)
	}
	return out
}

// FlattenBoxes concatenates the local-space buffers of boxes in order.
func FlattenBoxes(boxes []Box) []float32 {
	out := make([]float32, 0, len(boxes)*FloatsPerBox)
	for _, b := range boxes {
		for _, t := range b.Triangles {
			out = t.appendFloats(out)
		}
	}
	return out
}
