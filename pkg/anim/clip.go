// Package anim drives the box orientation from frame to frame: a looping
// keyframe clip, or a pointer position eased by springs.
package anim

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/fingerco/MetalFun/pkg/math3d"
)

// ErrNoKeyframes is returned by NewClip for an empty keyframe list.
var ErrNoKeyframes = errors.New("anim: clip needs at least one keyframe")

// Clip plays an ordered list of orientations in a loop. Its whole state is
// the current segment and the time within it; only Advance and Reset change
// it.
//
// Segment i interpolates from keyframe i to keyframe i+1. Each Advance adds
// the increment to the time; once the time reaches 1 it resets to 0 and the
// next segment starts, wrapping to segment 0 after the last one.
type Clip struct {
	keyframes []mgl32.Quat
	increment float32
	segment   int
	t         float32
}

// NewClip creates a clip positioned at segment 0, time 0. The keyframes are
// copied and normalized. increment must be in (0, 1].
func NewClip(keyframes []mgl32.Quat, increment float32) (*Clip, error) {
	if len(keyframes) == 0 {
		return nil, ErrNoKeyframes
	}
	if !(increment > 0 && increment <= 1) {
		return nil, fmt.Errorf("anim: increment %g outside (0, 1]", increment)
	}
	kf := make([]mgl32.Quat, len(keyframes))
	for i, q := range keyframes {
		if q.Len() == 0 {
			return nil, fmt.Errorf("anim: keyframe %d is a zero quaternion", i)
		}
		kf[i] = q.Normalize()
	}
	return &Clip{keyframes: kf, increment: increment}, nil
}

// DefaultKeyframes is a short tumble that starts and ends at rest.
func DefaultKeyframes() []mgl32.Quat {
	up := mgl32.Vec3{0, 1, 0}
	right := mgl32.Vec3{1, 0, 0}
	return []mgl32.Quat{
		mgl32.QuatIdent(),
		math3d.QuatAxisAngle(up, 90),
		math3d.QuatAxisAngle(up, 180),
		math3d.QuatAxisAngle(right, 90).Mul(math3d.QuatAxisAngle(up, 180)),
		mgl32.QuatIdent(),
	}
}

// Segments returns the number of segments played per loop.
func (c *Clip) Segments() int {
	if len(c.keyframes) < 2 {
		return 1
	}
	return len(c.keyframes) - 1
}

// Segment returns the index of the segment being played.
func (c *Clip) Segment() int {
	return c.segment
}

// Time returns the position within the current segment, in [0, 1).
func (c *Clip) Time() float32 {
	return c.t
}

// Increment returns the per-frame time step.
func (c *Clip) Increment() float32 {
	return c.increment
}

// Keyframes returns a copy of the keyframes.
func (c *Clip) Keyframes() []mgl32.Quat {
	out := make([]mgl32.Quat, len(c.keyframes))
	copy(out, c.keyframes)
	return out
}

// Advance steps the clip by one frame.
func (c *Clip) Advance() {
	c.t += c.increment
	if c.t < 1 {
		return
	}
	c.t = 0
	c.segment++
	if c.segment >= c.Segments() {
		c.segment = 0
	}
}

// Reset rewinds to segment 0, time 0.
func (c *Clip) Reset() {
	c.segment = 0
	c.t = 0
}

// Orientation returns the interpolated orientation for the current state.
func (c *Clip) Orientation() mgl32.Quat {
	if len(c.keyframes) == 1 {
		return c.keyframes[0]
	}
	return math3d.Slerp(c.keyframes[c.segment], c.keyframes[c.segment+1], c.t)
}
