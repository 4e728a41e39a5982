package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/fingerco/MetalFun/pkg/shapes"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal + 3 vertices (12 floats) + 2-byte attribute
)

// WriteSTL writes the box as binary STL in world space. STL has no color,
// so only positions and face normals are written.
func WriteSTL(w io.Writer, box shapes.Box) error {
	return writeSTLTriangles(w, "metalfun box", box.WorldTriangles())
}

func writeSTLTriangles(w io.Writer, name string, tris []shapes.Triangle) error {
	buf := make([]byte, stlHeaderSize+4, stlHeaderSize+4+len(tris)*stlTriangleSize)
	// Binary headers must not start with "solid" or readers take them for ASCII.
	copy(buf, "binary STL: "+name)
	binary.LittleEndian.PutUint32(buf[stlHeaderSize:], uint32(len(tris)))

	var rec [stlTriangleSize]byte
	for _, t := range tris {
		n := t.Normal()
		if n.Len() > 0 {
			n = n.Normalize()
		}
		putVec3(rec[0:], n)
		for i, v := range t.Vertices {
			putVec3(rec[12+12*i:], v.Pos.Vec3())
		}
		// rec[48:50] is the attribute byte count, always 0.
		buf = append(buf, rec[:]...)
	}
	_, err := w.Write(buf)
	return err
}

func putVec3(b []byte, v mgl32.Vec3) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v[i]))
	}
}

func readVec3(b []byte) shapes.Position {
	return shapes.Pos(readFloat32LE(b), readFloat32LE(b[4:]), readFloat32LE(b[8:]))
}

// readFloat32LE reads a little-endian float32 from a byte slice.
func readFloat32LE(data []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data))
}

// LoadSTL loads an STL file in either ASCII or binary form.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}
	return ParseSTL(data, path)
}

// ParseSTL parses STL from a byte slice. Vertices get DefaultColor.
func ParseSTL(data []byte, name string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	if isBinarySTL(data) {
		mesh, err = parseBinarySTL(data, name)
	} else {
		mesh, err = parseASCIISTL(data, name)
	}
	if err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// isBinarySTL detects binary STL: a file starting with "solid" is ASCII
// unless its triangle count matches the file size exactly.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte("solid")) {
		return true
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+4+uint64(count)*stlTriangleSize
}

func parseBinarySTL(data []byte, name string) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("binary STL too short: %d bytes", len(data))
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	expected := stlHeaderSize + 4 + uint64(count)*stlTriangleSize
	if uint64(len(data)) < expected {
		return nil, fmt.Errorf("binary STL truncated: expected %d bytes, got %d", expected, len(data))
	}

	mesh := NewMesh(name)
	mesh.Triangles = make([]shapes.Triangle, 0, count)
	offset := stlHeaderSize + 4
	for range count {
		var t shapes.Triangle
		for v := range 3 {
			// Skip the stored normal; the winding carries it.
			t.Vertices[v] = shapes.Vertex{Pos: readVec3(data[offset+12+12*v:]), Color: DefaultColor}
		}
		mesh.Triangles = append(mesh.Triangles, t)
		offset += stlTriangleSize
	}
	return mesh, nil
}

func parseASCIISTL(data []byte, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0

	var verts []shapes.Vertex
	inFacet, inLoop := false, false

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}
		case "facet":
			inFacet = true
			verts = verts[:0]
		case "outer":
			if len(fields) >= 2 && strings.EqualFold(fields[1], "loop") {
				inLoop = true
			}
		case "vertex":
			if !inFacet || !inLoop {
				return nil, fmt.Errorf("line %d: vertex outside facet/loop", lineNum)
			}
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			var xyz [3]float32
			for i := range 3 {
				f, err := strconv.ParseFloat(fields[1+i], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid vertex coordinate: %w", lineNum, err)
				}
				xyz[i] = float32(f)
			}
			verts = append(verts, shapes.Vertex{Pos: shapes.Pos(xyz[0], xyz[1], xyz[2]), Color: DefaultColor})
		case "endloop":
			inLoop = false
		case "endfacet":
			// Facets with more than three vertices are fanned.
			for i := 1; i+1 < len(verts); i++ {
				mesh.Triangles = append(mesh.Triangles, shapes.Tri(verts[0], verts[i], verts[i+1]))
			}
			inFacet = false
			verts = verts[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return mesh, nil
}
