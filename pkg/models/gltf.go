package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/fingerco/MetalFun/pkg/shapes"
)

// WriteGLB writes the box as a binary glTF: one non-indexed triangle mesh
// with POSITION and COLOR_0, positions in box-local space, and a node that
// translates it to the box center. glTF front faces are counter-clockwise,
// same as the box, so the winding is written unchanged.
func WriteGLB(path string, box shapes.Box) error {
	doc := BoxDocument(filepath.Base(path), box)
	return writeFile(path, func(w io.Writer) error { return gltf.NewEncoder(w).Encode(doc) })
}

// BoxDocument builds the glTF document written by WriteGLB.
func BoxDocument(name string, box shapes.Box) *gltf.Document {
	positions := make([][3]float32, 0, shapes.VerticesPerBox)
	colors := make([][4]float32, 0, shapes.VerticesPerBox)
	for _, t := range box.Triangles {
		for _, v := range t.Vertices {
			positions = append(positions, [3]float32{v.Pos.X, v.Pos.Y, v.Pos.Z})
			colors = append(colors, [4]float32{v.Color.R, v.Color.G, v.Color.B, v.Color.A})
		}
	}

	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.COLOR_0:  modeler.WriteColor(doc, colors),
			},
			Mode: gltf.PrimitiveTriangles,
		}},
	}}
	c := box.Center
	doc.Nodes = []*gltf.Node{{
		Name:        name,
		Mesh:        gltf.Index(0),
		Translation: [3]float64{float64(c.X), float64(c.Y), float64(c.Z)},
		Rotation:    [4]float64{0, 0, 0, 1},
		Scale:       [3]float64{1, 1, 1},
		Matrix:      identityMatrix,
	}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

// ErrNodeCycle is returned when a glTF node is its own ancestor.
var ErrNodeCycle = errors.New("gltf node hierarchy has a cycle")

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// LoadGLB reads every triangle mesh of a glTF/GLB file in world space.
// Vertices without COLOR_0 get DefaultColor.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return MeshFromDocument(filepath.Base(path), doc)
}

// MeshFromDocument flattens the default scene of doc into a world-space mesh.
func MeshFromDocument(name string, doc *gltf.Document) (*Mesh, error) {
	mesh := NewMesh(name)
	if len(doc.Scenes) > 0 {
		sceneIdx := 0
		if doc.Scene != nil {
			sceneIdx = *doc.Scene
		}
		if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene %d out of range", sceneIdx)
		}
		for _, n := range doc.Scenes[sceneIdx].Nodes {
			if err := processNode(doc, n, mgl32.Ident4(), mesh, map[int]bool{}); err != nil {
				return nil, err
			}
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// nodeTransform returns a node's local matrix: Matrix when set, else T·R·S.
func nodeTransform(node *gltf.Node) mgl32.Mat4 {
	if node.Matrix != identityMatrix && node.Matrix != [16]float64{} {
		var m mgl32.Mat4
		for i, v := range node.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	t, r, s := node.Translation, node.Rotation, node.Scale
	local := mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2]))
	if r != [4]float64{0, 0, 0, 1} && r != [4]float64{} {
		q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
		local = local.Mul4(q.Normalize().Mat4())
	}
	if s != [3]float64{1, 1, 1} && s != [3]float64{} {
		local = local.Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
	}
	return local
}

// processNode recursively processes a node and its children, accumulating
// transforms. path holds the nodes on the way down from the scene root; a
// child already on it makes the hierarchy a cycle.
func processNode(doc *gltf.Document, nodeIdx int, parent mgl32.Mat4, mesh *Mesh, path map[int]bool) error {
	if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", nodeIdx)
	}
	if path[nodeIdx] {
		return fmt.Errorf("node %d: %w", nodeIdx, ErrNodeCycle)
	}
	path[nodeIdx] = true
	defer delete(path, nodeIdx)
	node := doc.Nodes[nodeIdx]
	world := parent.Mul4(nodeTransform(node))

	if node.Mesh != nil {
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return fmt.Errorf("node %d: mesh %d out of range", nodeIdx, *node.Mesh)
		}
		if err := processMesh(doc, doc.Meshes[*node.Mesh], world, mesh); err != nil {
			return fmt.Errorf("mesh %d: %w", *node.Mesh, err)
		}
	}
	for _, child := range node.Children {
		if err := processNode(doc, child, world, mesh, path); err != nil {
			return err
		}
	}
	return nil
}

func processMesh(doc *gltf.Document, m *gltf.Mesh, transform mgl32.Mat4, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readFloatAccessor(doc, posIdx, gltf.AccessorVec3)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		var colors [][]float32
		if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colors, err = readFloatAccessor(doc, colIdx, gltf.AccessorVec3, gltf.AccessorVec4)
			if err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
		}

		vertex := func(i int) shapes.Vertex {
			p := positions[i]
			world := mgl32.TransformCoordinate(mgl32.Vec3{p[0], p[1], p[2]}, transform)
			v := shapes.Vertex{Pos: shapes.PositionFromVec3(world), Color: DefaultColor}
			if i < len(colors) {
				c := colors[i]
				a := float32(1)
				if len(c) == 4 {
					a = c[3]
				}
				v.Color = shapes.RGBA(c[0], c[1], c[2], a)
			}
			return v
		}

		order := make([]int, len(positions))
		for i := range order {
			order[i] = i
		}
		if prim.Indices != nil {
			order, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		}
		for i := 0; i+2 < len(order); i += 3 {
			for _, idx := range order[i : i+3] {
				if idx >= len(positions) {
					return fmt.Errorf("index %d out of range", idx)
				}
			}
			mesh.Triangles = append(mesh.Triangles,
				shapes.Tri(vertex(order[i]), vertex(order[i+1]), vertex(order[i+2])))
		}
	}
	return nil
}

// accessorBytes returns the buffer bytes an accessor reads from, plus the
// element stride.
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, errors.New("accessor has no buffer view")
	}
	view := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[view.Buffer]
	if buf.Data == nil {
		return nil, 0, errors.New("buffer has no data")
	}
	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + acc.ByteOffset
	end := start + (acc.Count-1)*stride + elemSize
	if acc.Count == 0 {
		end = start
	}
	if start < 0 || end > len(buf.Data) {
		return nil, 0, fmt.Errorf("accessor reads past buffer (%d > %d)", end, len(buf.Data))
	}
	return buf.Data[start:end], stride, nil
}

func components(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4:
		return 4
	default:
		return 1
	}
}

// readFloatAccessor reads an accessor of one of the wanted types as float32
// components. Unsigned byte/short components are mapped to [0, 1] when the
// accessor is normalized and read as plain integers otherwise.
func readFloatAccessor(doc *gltf.Document, idx int, want ...gltf.AccessorType) ([][]float32, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	if !slices.Contains(want, acc.Type) {
		return nil, fmt.Errorf("expected %v, got %v", want, acc.Type)
	}
	n := components(acc.Type)
	var ubyteMax, ushortMax float32 = 1, 1
	if acc.Normalized {
		ubyteMax, ushortMax = math.MaxUint8, math.MaxUint16
	}

	var size int
	var read func(b []byte) float32
	switch acc.ComponentType {
	case gltf.ComponentFloat:
		size = 4
		read = func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
	case gltf.ComponentUbyte:
		size = 1
		read = func(b []byte) float32 { return float32(b[0]) / ubyteMax }
	case gltf.ComponentUshort:
		size = 2
		read = func(b []byte) float32 { return float32(binary.LittleEndian.Uint16(b)) / ushortMax }
	default:
		return nil, fmt.Errorf("unsupported component type %v", acc.ComponentType)
	}

	data, stride, err := accessorBytes(doc, acc, n*size)
	if err != nil {
		return nil, err
	}
	out := make([][]float32, acc.Count)
	for i := range out {
		out[i] = make([]float32, n)
		for j := range n {
			out[i][j] = read(data[i*stride+j*size:])
		}
	}
	return out, nil
}

// readIndices reads index data from a scalar accessor.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	acc := doc.Accessors[idx]
	size := 4
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	}
	data, stride, err := accessorBytes(doc, acc, size)
	if err != nil {
		return nil, err
	}
	out := make([]int, acc.Count)
	for i := range out {
		b := data[i*stride:]
		switch acc.ComponentType {
		case gltf.ComponentUbyte:
			out[i] = int(b[0])
		case gltf.ComponentUshort:
			out[i] = int(binary.LittleEndian.Uint16(b))
		case gltf.ComponentUint:
			out[i] = int(binary.LittleEndian.Uint32(b))
		default:
			return nil, fmt.Errorf("unexpected index type %v", acc.ComponentType)
		}
	}
	return out, nil
}
