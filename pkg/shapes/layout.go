package shapes

// Vertex buffer layout shared with the renderer. Attributes are interleaved
// per vertex with no padding: position (3 x float32) then color (4 x float32).
const (
	FloatsPerPosition   = 3
	FloatsPerColor      = 4
	FloatsPerVertex     = FloatsPerPosition + FloatsPerColor
	VerticesPerTriangle = 3
	FloatsPerTriangle   = FloatsPerVertex * VerticesPerTriangle
	TrianglesPerBox     = 12
	VerticesPerBox      = TrianglesPerBox * VerticesPerTriangle
	FloatsPerBox        = FloatsPerTriangle * TrianglesPerBox

	// PositionOffset and ColorOffset are attribute offsets in bytes.
	PositionOffset = 0
	ColorOffset    = FloatsPerPosition * 4
	// VertexStride is the byte distance between consecutive vertices.
	VertexStride = FloatsPerVertex * 4
)
