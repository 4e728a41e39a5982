package models

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/fingerco/MetalFun/pkg/shapes"
)

func TestSTLParseASCII(t *testing.T) {
	asciiSTL := `solid cube
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
  endfacet
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid cube`

	mesh, err := ParseSTL([]byte(asciiSTL), "test.stl")
	if err != nil {
		t.Fatalf("Failed to parse ASCII STL: %v", err)
	}
	if mesh.Name != "cube" {
		t.Errorf("Name = %q, want %q", mesh.Name, "cube")
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}
	// Two triangles sharing an edge
	if mesh.UniqueVertexCount() != 4 {
		t.Errorf("UniqueVertexCount = %d, want 4", mesh.UniqueVertexCount())
	}
	if mesh.Triangles[0].Vertices[0].Color != DefaultColor {
		t.Errorf("color = %v, want DefaultColor", mesh.Triangles[0].Vertices[0].Color)
	}
}

func TestSTLParseBinary(t *testing.T) {
	var buf bytes.Buffer

	header := make([]byte, 80)
	copy(header, []byte("Binary STL test"))
	buf.Write(header)
	binary.Write(&buf, binary.LittleEndian, uint32(1))

	// Normal, 3 vertices, attribute byte count
	for _, f := range []float32{0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&buf, binary.LittleEndian, f)
	}
	binary.Write(&buf, binary.LittleEndian, uint16(0))

	mesh, err := ParseSTL(buf.Bytes(), "test.stl")
	if err != nil {
		t.Fatalf("Failed to parse binary STL: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Fatalf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
	if got := mesh.Triangles[0].Vertices[2].Pos; got != shapes.Pos(0, 1, 0) {
		t.Errorf("third vertex = %v, want (0, 1, 0)", got)
	}
}

func TestSTLDetection(t *testing.T) {
	ascii := []byte("solid test\nfacet normal 0 0 1\n")
	if isBinarySTL(ascii) {
		t.Error("ASCII STL detected as binary")
	}

	var buf bytes.Buffer
	buf.Write(make([]byte, 80))                        // header
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // 0 triangles
	if !isBinarySTL(buf.Bytes()) {
		t.Error("Binary STL not detected")
	}
}

func TestSTLTruncated(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	buf.Write(make([]byte, 50))
	if _, err := ParseSTL(buf.Bytes(), "short.stl"); err == nil {
		t.Error("truncated STL parsed without error")
	}
}

func TestWriteSTLBox(t *testing.T) {
	box := shapes.NewBox(shapes.Pos(1, 2, 3), 2, 2, 2)
	var buf bytes.Buffer
	if err := WriteSTL(&buf, box); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	if want := 84 + 12*50; len(data) != want {
		t.Fatalf("size = %d, want %d", len(data), want)
	}
	if bytes.HasPrefix(data, []byte("solid")) {
		t.Error("binary header starts with \"solid\"")
	}
	if n := binary.LittleEndian.Uint32(data[80:]); n != 12 {
		t.Errorf("triangle count = %d, want 12", n)
	}

	// First record normal is unit length and points away from the center.
	var n [3]float32
	for i := range 3 {
		n[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[84+4*i:]))
	}
	if l := n[0]*n[0] + n[1]*n[1] + n[2]*n[2]; math.Abs(float64(l)-1) > 1e-5 {
		t.Errorf("normal length² = %g, want 1", l)
	}

	mesh, err := ParseSTL(data, "box.stl")
	if err != nil {
		t.Fatal(err)
	}
	if mesh.BoundsMin != shapes.Pos(0, 1, 2) || mesh.BoundsMax != shapes.Pos(2, 3, 4) {
		t.Errorf("bounds = %v..%v, want (0,1,2)..(2,3,4)", mesh.BoundsMin, mesh.BoundsMax)
	}
	if mesh.UniqueVertexCount() != 8 {
		t.Errorf("UniqueVertexCount = %d, want 8", mesh.UniqueVertexCount())
	}
	want := box.WorldTriangles()
	for i, tri := range mesh.Triangles {
		for j, v := range tri.Vertices {
			if v.Pos != want[i].Vertices[j].Pos {
				t.Fatalf("triangle %d vertex %d = %v, want %v", i, j, v.Pos, want[i].Vertices[j].Pos)
			}
		}
	}
}

func TestSTLBounds(t *testing.T) {
	asciiSTL := `solid test
  facet normal 0 0 1
    outer loop
      vertex -1 -2 -3
      vertex 4 5 6
      vertex 0 0 0
    endloop
  endfacet
endsolid test`

	mesh, err := ParseSTL([]byte(asciiSTL), "test.stl")
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if mesh.BoundsMin != shapes.Pos(-1, -2, -3) {
		t.Errorf("BoundsMin = %v, want (-1, -2, -3)", mesh.BoundsMin)
	}
	if mesh.BoundsMax != shapes.Pos(4, 5, 6) {
		t.Errorf("BoundsMax = %v, want (4, 5, 6)", mesh.BoundsMax)
	}
	if got := mesh.Size(); got != shapes.Pos(5, 7, 9) {
		t.Errorf("Size = %v, want (5, 7, 9)", got)
	}
	if got := mesh.Center(); got != shapes.Pos(1.5, 1.5, 1.5) {
		t.Errorf("Center = %v, want (1.5, 1.5, 1.5)", got)
	}
}
