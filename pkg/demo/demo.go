// Package demo is the spinning box: it owns the per-frame state and turns
// it into render frames.
package demo

import (
	"fmt"

	"fortio.org/log"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/fingerco/MetalFun/pkg/anim"
	"github.com/fingerco/MetalFun/pkg/config"
	"github.com/fingerco/MetalFun/pkg/math3d"
	"github.com/fingerco/MetalFun/pkg/render"
	"github.com/fingerco/MetalFun/pkg/shapes"
)

// Input is what the outside world tells a frame. Pointer coordinates are
// normalized to [-1, 1] with +Y up.
type Input struct {
	PointerX, PointerY float32
	HasPointer         bool
}

// State is everything that survives from one frame to the next.
type State struct {
	Box        shapes.Box
	Projection mgl32.Mat4
	Clip       *anim.Clip
	Pointer    *anim.PointerRotation
	Mode       string
	Frames     int
}

// NewState builds the demo state for cfg at the given aspect ratio.
func NewState(cfg config.Config, aspect float32) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	proj, err := cfg.Projection(aspect)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	clip, err := cfg.Clip()
	if err != nil {
		return nil, fmt.Errorf("animation: %w", err)
	}
	ptr := anim.NewPointerRotation(cfg.FPS, cfg.Pointer.Sensitivity)
	ptr.Immediate = cfg.Pointer.Immediate
	st := &State{
		Box:        cfg.NewBox(),
		Projection: proj,
		Clip:       clip,
		Pointer:    ptr,
		Mode:       cfg.Animation.Mode,
	}
	log.Debugf("demo state: mode=%s segments=%d box=%v", st.Mode, clip.Segments(), st.Box.Center)
	return st, nil
}

// Update advances st by one frame and returns the frame to draw.
//
// In keyframe mode the box is rotated on the CPU to the clip's current
// orientation before the clip advances, so frame 0 shows the first keyframe.
// The model matrix only translates. In pointer mode the buffer holds the box at rest and the
// model matrix carries the rotation.
func Update(st *State, in Input) render.Frame {
	c := st.Box.Center
	model := math3d.Translation(c.X, c.Y, c.Z)
	box := st.Box

	switch st.Mode {
	case config.ModePointer:
		if in.HasPointer {
			st.Pointer.Point(float64(in.PointerX), float64(in.PointerY))
		}
		st.Pointer.Update()
		model = model.Mul4(st.Pointer.Matrix())
	default:
		box = box.Rotated(st.Clip.Orientation())
		st.Clip.Advance()
	}

	f := render.Frame{
		Index:         st.Frames,
		Vertices:      box.Floats(),
		TriangleCount: box.TriangleCount(),
		Uniforms:      render.Uniforms{Projection: st.Projection, Model: model},
	}
	st.Frames++
	return f
}

// Orientation returns the box's current rotation, whichever mode drives it.
// In keyframe mode that is the rotation the next Update draws.
func (st *State) Orientation() mgl32.Quat {
	if st.Mode == config.ModePointer {
		return st.Pointer.Quat()
	}
	return st.Clip.Orientation()
}

// Reset rewinds the animation and brings the pointer rotation to rest.
func (st *State) Reset() {
	st.Clip.Reset()
	st.Pointer.Reset()
	st.Frames = 0
}
