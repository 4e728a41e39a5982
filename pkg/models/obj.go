package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fingerco/MetalFun/pkg/shapes"
)

// WriteOBJ writes the box as a Wavefront OBJ in world space. Vertex colors
// use the common "v x y z r g b" extension; alpha is dropped.
func WriteOBJ(w io.Writer, name string, box shapes.Box) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d triangles\no %s\n", box.TriangleCount(), name)

	// Corners shared by two triangles of a face are written once.
	index := make(map[shapes.Vertex]int)
	var faces [][3]int
	for _, t := range box.WorldTriangles() {
		var f [3]int
		for i, v := range t.Vertices {
			idx, ok := index[v]
			if !ok {
				idx = len(index) + 1
				index[v] = idx
				fmt.Fprintf(bw, "v %s %s %s %s %s %s\n",
					fmtFloat(v.Pos.X), fmtFloat(v.Pos.Y), fmtFloat(v.Pos.Z),
					fmtFloat(v.Color.R), fmtFloat(v.Color.G), fmtFloat(v.Color.B))
			}
			f[i] = idx
		}
		faces = append(faces, f)
	}
	for _, f := range faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0], f[1], f[2])
	}
	return bw.Flush()
}

func fmtFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// LoadOBJ loads an OBJ file from disk.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer f.Close()
	return ReadOBJ(f, path)
}

// ReadOBJ parses an OBJ from a reader. Polygons are fanned into triangles;
// texture coordinates, normals and materials are ignored. Vertices without
// a color get DefaultColor.
func ReadOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	var verts []shapes.Vertex

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid vertex (need x y z)", lineNum)
			}
			vals, err := parseFloats(fields[1:min(len(fields), 7)])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			v := shapes.Vertex{Pos: shapes.Pos(vals[0], vals[1], vals[2]), Color: DefaultColor}
			if len(vals) == 6 {
				v.Color = shapes.RGBA(vals[3], vals[4], vals[5], 1)
			}
			verts = append(verts, v)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}
			face := make([]shapes.Vertex, 0, len(fields)-1)
			for _, fv := range fields[1:] {
				idx, err := parseFaceVertex(fv)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				idx = resolveIndex(idx, len(verts))
				if idx < 0 || idx >= len(verts) {
					return nil, fmt.Errorf("line %d: vertex index %s out of range", lineNum, fv)
				}
				face = append(face, verts[idx])
			}
			// Fan triangulation for convex polygons, keeping the winding.
			for i := 1; i+1 < len(face); i++ {
				mesh.Triangles = append(mesh.Triangles, shapes.Tri(face[0], face[i], face[i+1]))
			}

		case "o", "g":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func parseFloats(fields []string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceVertex returns the position index of a face vertex written as
// v, v/vt, v/vt/vn or v//vn.
func parseFaceVertex(s string) (int, error) {
	pos, _, _ := strings.Cut(s, "/")
	idx, err := strconv.Atoi(pos)
	if err != nil || idx == 0 {
		return 0, fmt.Errorf("invalid vertex index: %s", s)
	}
	return idx, nil
}

// resolveIndex converts a 1-based or negative (relative) OBJ index to 0-based.
func resolveIndex(idx, count int) int {
	if idx < 0 {
		return count + idx
	}
	return idx - 1
}
