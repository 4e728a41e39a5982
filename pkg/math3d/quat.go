package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// QuatAxisAngle returns the unit quaternion rotating deg degrees about axis
// (right-hand rule). A zero axis yields the identity.
func QuatAxisAngle(axis mgl32.Vec3, deg float32) mgl32.Quat {
	if axis.Len() == 0 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(Radians(deg), axis.Normalize())
}

// AxisAngle is the inverse of QuatAxisAngle: it returns the unit axis and
// the angle in degrees, in [0, 360). The identity gives a zero axis and 0.
func AxisAngle(q mgl32.Quat) (mgl32.Vec3, float32) {
	q = q.Normalize()
	s := q.V.Len()
	if s == 0 {
		return mgl32.Vec3{}, 0
	}
	return q.V.Mul(1 / s), 2 * math32.Atan2(s, q.W) * 180 / math32.Pi
}

// QuatFromEuler composes pitch (X), then yaw (Y), then roll (Z), all in
// degrees. The result rotates a vector by roll first, matching
// RotationY(yaw)·RotationX(pitch)·RotationZ(roll) ordering used elsewhere.
func QuatFromEuler(pitch, yaw, roll float32) mgl32.Quat {
	qx := QuatAxisAngle(mgl32.Vec3{1, 0, 0}, pitch)
	qy := QuatAxisAngle(mgl32.Vec3{0, 1, 0}, yaw)
	qz := QuatAxisAngle(mgl32.Vec3{0, 0, 1}, roll)
	return qy.Mul(qx).Mul(qz).Normalize()
}

// IsIdentity reports whether q is exactly the identity rotation.
func IsIdentity(q mgl32.Quat) bool {
	return q.W == 1 && q.V == (mgl32.Vec3{})
}

// Slerp interpolates between two unit quaternions along the shorter arc.
func Slerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t).Normalize()
}
