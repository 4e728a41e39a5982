// Package math3d provides the rotation, projection and quaternion helpers
// shared by the geometry, animation and render packages.
//
// Matrices are mgl32.Mat4 values and follow the column-vector convention
// (v' = M·v). They are stored column-major: the element at row r, column c
// lives at index c*4+r of the 16-float sequence returned by Floats. That
// sequence is what gets uploaded as a uniform buffer; a consumer reading it
// row-major would see the transpose and every rotation would run backwards.
package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// FloatsPerMatrix is the length of a flattened Mat4.
const FloatsPerMatrix = 16

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Identity returns the 4x4 identity matrix.
func Identity() mgl32.Mat4 {
	return mgl32.Ident4()
}

// RotationX returns a right-hand rotation of deg degrees about the X axis.
//
//	| 1  0   0  0 |
//	| 0  c  -s  0 |
//	| 0  s   c  0 |
//	| 0  0   0  1 |
func RotationX(deg float32) mgl32.Mat4 {
	s, c := math32.Sincos(Radians(deg))
	return mgl32.Mat4{
		1, 0, 0, 0, // column 0
		0, c, s, 0, // column 1
		0, -s, c, 0, // column 2
		0, 0, 0, 1, // column 3
	}
}

// RotationY returns a right-hand rotation of deg degrees about the Y axis.
//
//	|  c  0  s  0 |
//	|  0  1  0  0 |
//	| -s  0  c  0 |
//	|  0  0  0  1 |
func RotationY(deg float32) mgl32.Mat4 {
	s, c := math32.Sincos(Radians(deg))
	return mgl32.Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ returns a right-hand rotation of deg degrees about the Z axis.
//
//	| c  -s  0  0 |
//	| s   c  0  0 |
//	| 0   0  1  0 |
//	| 0   0  0  1 |
func RotationZ(deg float32) mgl32.Mat4 {
	s, c := math32.Sincos(Radians(deg))
	return mgl32.Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix moving points by (x, y, z).
func Translation(x, y, z float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, y, z)
}

// Perspective builds a right-handed perspective projection looking down -Z.
// View-space depth in [-near, -far] maps to clip-space z/w in [-1, 1].
//
//	| f/aspect  0   0            0              |
//	| 0         f   0            0              |
//	| 0         0   (f+n)/(n-f)  2·f·n/(n-f)    |
//	| 0         0  -1            0              |
//
// where f = 1/tan(fov/2). The parameters must satisfy far > near > 0,
// aspect > 0 and 0 < fov < 180; anything else, including far == near,
// returns a *DomainError.
func Perspective(aspect, fovDeg, near, far float32) (mgl32.Mat4, error) {
	switch {
	case !(aspect > 0):
		return mgl32.Mat4{}, domainErr("aspect", aspect, "must be positive")
	case !(fovDeg > 0 && fovDeg < 180):
		return mgl32.Mat4{}, domainErr("fov", fovDeg, "must be within (0, 180) degrees")
	case !(near > 0):
		return mgl32.Mat4{}, domainErr("near", near, "must be positive")
	case far == near:
		return mgl32.Mat4{}, domainErr("far", far, "must differ from near")
	case !(far > near):
		return mgl32.Mat4{}, domainErr("far", far, "must be greater than near")
	}

	f := 1 / math32.Tan(Radians(fovDeg)/2)
	nf := near - far

	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / nf, -1,
		0, 0, 2 * far * near / nf, 0,
	}, nil
}

// MustPerspective is like Perspective but panics on invalid parameters.
// Use it for compile-time constant cameras.
func MustPerspective(aspect, fovDeg, near, far float32) mgl32.Mat4 {
	m, err := Perspective(aspect, fovDeg, near, far)
	if err != nil {
		panic(err)
	}
	return m
}

// Floats returns the column-major 16-float sequence for upload.
func Floats(m mgl32.Mat4) []float32 {
	out := make([]float32, FloatsPerMatrix)
	copy(out, m[:])
	return out
}

// TransformPoint applies m to the point (x, y, z, 1) and returns the
// homogeneous result.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec4 {
	return m.Mul4x1(p.Vec4(1))
}
