package anim

import (
	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/fingerco/MetalFun/pkg/math3d"
)

// SpringAxis eases one angle toward a target with a harmonica spring.
type SpringAxis struct {
	Angle  float64 // current angle in degrees
	Target float64 // where the pointer wants the angle to be
	spring harmonica.Spring
	vel    float64 // internal spring velocity
}

// NewSpringAxis creates an axis at rest at angle 0.
func NewSpringAxis(fps int) SpringAxis {
	return SpringAxis{
		// Frequency 6.0 = snappy, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update moves Angle one frame closer to Target.
func (a *SpringAxis) Update() {
	a.Angle, a.vel = a.spring.Update(a.Angle, a.vel, a.Target)
}

// Settled reports whether the axis is within tolerance of its target and
// nearly still.
func (a *SpringAxis) Settled(tolerance float64) bool {
	d := a.Angle - a.Target
	return d < tolerance && d > -tolerance && a.vel < tolerance && a.vel > -tolerance
}

// PointerRotation turns a pointer position into yaw (about Y, from x) and
// pitch (about X, from y). Springs smooth pointer jumps; with Immediate set
// the angles follow the pointer exactly like a raw mouse read.
type PointerRotation struct {
	Yaw, Pitch  SpringAxis
	Sensitivity float64 // degrees per pointer unit
	Immediate   bool
	fps         int
}

// NewPointerRotation creates a pointer rotation at rest.
func NewPointerRotation(fps int, sensitivity float64) *PointerRotation {
	return &PointerRotation{
		Yaw:         NewSpringAxis(fps),
		Pitch:       NewSpringAxis(fps),
		Sensitivity: sensitivity,
		fps:         fps,
	}
}

// Point sets the targets from a pointer position.
func (p *PointerRotation) Point(x, y float64) {
	p.Yaw.Target = x * p.Sensitivity
	p.Pitch.Target = y * p.Sensitivity
}

// Update advances both springs by one frame.
func (p *PointerRotation) Update() {
	if p.Immediate {
		p.Yaw.Angle = p.Yaw.Target
		p.Pitch.Angle = p.Pitch.Target
		return
	}
	p.Yaw.Update()
	p.Pitch.Update()
}

// Reset returns both axes to rest at 0.
func (p *PointerRotation) Reset() {
	p.Yaw = NewSpringAxis(p.fps)
	p.Pitch = NewSpringAxis(p.fps)
}

// Matrix returns RotationY(yaw)·RotationX(pitch).
func (p *PointerRotation) Matrix() mgl32.Mat4 {
	return math3d.RotationY(float32(p.Yaw.Angle)).Mul4(math3d.RotationX(float32(p.Pitch.Angle)))
}

// Quat returns the same rotation as Matrix.
func (p *PointerRotation) Quat() mgl32.Quat {
	return math3d.QuatFromEuler(float32(p.Pitch.Angle), float32(p.Yaw.Angle), 0)
}
