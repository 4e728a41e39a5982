package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/fingerco/MetalFun/pkg/math3d"
	"github.com/fingerco/MetalFun/pkg/shapes"
)

// Stats counts what happened to the triangles of the last Draw.
type Stats struct {
	Drawn   int
	Culled  int // back-facing
	Clipped int // behind the camera
}

// Rasterizer fills triangles from a frame's vertex buffer into a
// framebuffer. Front faces are counter-clockwise in normalized device
// coordinates (Y up).
type Rasterizer struct {
	FB                     *Framebuffer
	DisableBackfaceCulling bool
	Stats                  Stats
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{FB: fb}
}

type screenVertex struct {
	x, y, z float32
	color   shapes.VertexColor
}

// Draw rasterizes every triangle of f with depth testing. It does not clear
// the framebuffer first.
func (r *Rasterizer) Draw(f *Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.Stats = Stats{}
	mvp := f.Uniforms.MVP()

	for i := 0; i < f.TriangleCount; i++ {
		tri := DecodeTriangle(f.Vertices, i)
		var sv [3]screenVertex
		var ndc [3]mgl32.Vec3
		clipped := false
		for j, v := range tri.Vertices {
			c := math3d.TransformPoint(mvp, v.Pos.Vec3())
			if c.W() <= 0 {
				clipped = true
				break
			}
			ndc[j] = c.Vec3().Mul(1 / c.W())
			sv[j] = screenVertex{
				x:     (ndc[j].X() + 1) * 0.5 * float32(r.FB.Width),
				y:     (1 - ndc[j].Y()) * 0.5 * float32(r.FB.Height),
				z:     ndc[j].Z(),
				color: v.Color,
			}
		}
		if clipped {
			r.Stats.Clipped++
			continue
		}

		area := signedArea(ndc[0], ndc[1], ndc[2])
		if area == 0 || (area < 0 && !r.DisableBackfaceCulling) {
			r.Stats.Culled++
			continue
		}
		r.fill(sv)
		r.Stats.Drawn++
	}
	return nil
}

// signedArea is twice the signed area of the triangle projected on XY;
// positive means counter-clockwise.
func signedArea(a, b, c mgl32.Vec3) float32 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (c.X()-a.X())*(b.Y()-a.Y())
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (r *Rasterizer) fill(v [3]screenVertex) {
	fb := r.FB
	minX := int(math32.Floor(min(v[0].x, v[1].x, v[2].x)))
	maxX := int(math32.Ceil(max(v[0].x, v[1].x, v[2].x)))
	minY := int(math32.Floor(min(v[0].y, v[1].y, v[2].y)))
	maxY := int(math32.Ceil(max(v[0].y, v[1].y, v[2].y)))
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, fb.Width-1), min(maxY, fb.Height-1)

	area := edge(v[0], v[1], v[2].x, v[2].y)
	if area == 0 {
		return
	}
	inv := 1 / area

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(v[1], v[2], px, py) * inv
			w1 := edge(v[2], v[0], px, py) * inv
			w2 := edge(v[0], v[1], px, py) * inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*v[0].z + w1*v[1].z + w2*v[2].z
			if z < -1 || z > 1 {
				continue
			}
			idx := y*fb.Width + x
			if z >= fb.Depth[idx] {
				continue
			}
			c := shapes.VertexColor{
				R: w0*v[0].color.R + w1*v[1].color.R + w2*v[2].color.R,
				G: w0*v[0].color.G + w1*v[1].color.G + w2*v[2].color.G,
				B: w0*v[0].color.B + w1*v[1].color.B + w2*v[2].color.B,
				A: w0*v[0].color.A + w1*v[1].color.A + w2*v[2].color.A,
			}
			fb.Depth[idx] = z
			fb.Pixels[idx] = blend(fb.Pixels[idx], c)
		}
	}
}

// blend composites c over dst by c's alpha.
func blend(dst Color, c shapes.VertexColor) Color {
	a := min(max(c.A, 0), 1)
	mix := func(d uint8, s float32) float32 {
		return s*a + float32(d)/255*(1-a)
	}
	return FromVertexColor(shapes.VertexColor{
		R: mix(dst.R, c.R),
		G: mix(dst.G, c.G),
		B: mix(dst.B, c.B),
		A: 1,
	})
}
