package demo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/fingerco/MetalFun/pkg/config"
	"github.com/fingerco/MetalFun/pkg/math3d"
	"github.com/fingerco/MetalFun/pkg/render"
	"github.com/fingerco/MetalFun/pkg/shapes"
)

func newState(t *testing.T, cfg config.Config) *State {
	t.Helper()
	st, err := NewState(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func within(tol float32) func(a, b float32) bool {
	return func(a, b float32) bool { return a-b <= tol && b-a <= tol }
}

func equalFloats(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKeyframeFrames(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.Increment = 0.5
	cfg.Animation.Keyframes = []config.Keyframe{
		{Axis: [3]float32{0, 1, 0}, Angle: 0},
		{Axis: [3]float32{0, 1, 0}, Angle: 90},
		{Axis: [3]float32{0, 1, 0}, Angle: 180},
	}
	st := newState(t, cfg)

	for i := range 4 {
		want := st.Box.Rotated(st.Clip.Orientation()).Floats()
		f := Update(st, Input{})
		if f.Index != i {
			t.Errorf("frame index = %d, want %d", f.Index, i)
		}
		if err := f.Validate(); err != nil {
			t.Fatal(err)
		}
		if len(f.Vertices) != shapes.FloatsPerBox {
			t.Fatalf("len = %d, want %d", len(f.Vertices), shapes.FloatsPerBox)
		}
		if f.Uniforms.Model != math3d.Translation(0, 0, -3) {
			t.Errorf("frame %d model = %v, want translation only", i, f.Uniforms.Model)
		}
		if !equalFloats(f.Vertices, want) {
			t.Errorf("frame %d vertices do not match the clip orientation", i)
		}
	}
	// Two segments at two frames each: four frames wrap back to the start.
	if st.Clip.Segment() != 0 || st.Clip.Time() != 0 {
		t.Errorf("clip at segment %d time %g, want 0 0", st.Clip.Segment(), st.Clip.Time())
	}
	if st.Frames != 4 {
		t.Errorf("Frames = %d, want 4", st.Frames)
	}
}

func TestFirstFrameIsFirstKeyframe(t *testing.T) {
	tests := []struct {
		name  string
		first config.Keyframe
	}{
		{"identity", config.Keyframe{Axis: [3]float32{0, 1, 0}, Angle: 0}},
		{"quarter turn", config.Keyframe{Axis: [3]float32{1, 0, 0}, Angle: 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Animation.Increment = 0.25
			cfg.Animation.Keyframes = []config.Keyframe{
				tt.first,
				{Axis: [3]float32{0, 0, 1}, Angle: 45},
			}
			st := newState(t, cfg)
			f := Update(st, Input{})
			q := math3d.QuatAxisAngle(mgl32.Vec3(tt.first.Axis), tt.first.Angle)
			want := st.Box.Rotated(q).Floats()
			for i := range want {
				if !within(1e-6)(f.Vertices[i], want[i]) {
					t.Fatalf("frame 0 float %d = %v, want %v", i, f.Vertices[i], want[i])
				}
			}
			if st.Clip.Time() != 0.25 {
				t.Errorf("clip time after frame 0 = %g, want 0.25", st.Clip.Time())
			}
		})
	}
	// An identity first keyframe draws the box exactly at rest.
	st := newState(t, config.Default())
	if f := Update(st, Input{}); !equalFloats(f.Vertices, st.Box.Floats()) {
		t.Error("frame 0 should be the box at rest")
	}
}

func TestKeyframeOrientationAfterSegment(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.Increment = 0.5
	cfg.Animation.Keyframes = []config.Keyframe{
		{Axis: [3]float32{0, 1, 0}, Angle: 0},
		{Axis: [3]float32{0, 1, 0}, Angle: 90},
		{Axis: [3]float32{0, 1, 0}, Angle: 180},
	}
	st := newState(t, cfg)
	Update(st, Input{})
	Update(st, Input{})
	want := math3d.QuatAxisAngle(mgl32.Vec3{0, 1, 0}, 90)
	if got := st.Orientation(); !got.ApproxEqualFunc(want, within(1e-5)) {
		t.Errorf("orientation = %v, want %v", got, want)
	}
}

func TestPointerModeRotatesModel(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.Mode = config.ModePointer
	cfg.Pointer.Immediate = true
	cfg.Pointer.Sensitivity = 180
	st := newState(t, cfg)

	f := Update(st, Input{PointerX: 0.5, HasPointer: true})
	if !equalFloats(f.Vertices, st.Box.Floats()) {
		t.Error("pointer mode should upload the box at rest")
	}
	want := math3d.Translation(0, 0, -3).Mul4(math3d.RotationY(90))
	if !f.Uniforms.Model.ApproxFuncEqual(want, within(1e-6)) {
		t.Errorf("model = %v, want %v", f.Uniforms.Model, want)
	}

	// A yaw of 90° shows the left face to the camera.
	r := render.NewRasterizer(render.NewFramebuffer(64, 64))
	if err := r.Draw(&f); err != nil {
		t.Fatal(err)
	}
	left := render.FromVertexColor(shapes.FaceColors[shapes.FaceLeft])
	if got := r.FB.GetPixel(32, 32); got != left {
		t.Errorf("center pixel = %v, want left color %v", got, left)
	}

	// Without pointer input the angles hold.
	f = Update(st, Input{})
	if !f.Uniforms.Model.ApproxFuncEqual(want, within(1e-6)) {
		t.Errorf("model drifted without input: %v", f.Uniforms.Model)
	}
}

func TestPointerSpringsEase(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.Mode = config.ModePointer
	st := newState(t, cfg)
	Update(st, Input{PointerX: 0.25, HasPointer: true})
	yaw := st.Pointer.Yaw.Angle
	if yaw <= 0 || yaw >= 45 {
		t.Errorf("yaw after one frame = %g, want between 0 and 45", yaw)
	}
	for range 300 {
		Update(st, Input{})
	}
	if !st.Pointer.Yaw.Settled(0.01) {
		t.Errorf("yaw = %g, want settled at 45", st.Pointer.Yaw.Angle)
	}
}

func TestNewStateRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Near, cfg.Camera.Far = 1, 1
	if _, err := NewState(cfg, 1); err == nil {
		t.Error("NewState accepted far == near")
	}
	if _, err := NewState(config.Default(), 0); err == nil {
		t.Error("NewState accepted a zero aspect ratio")
	}
}

func TestReset(t *testing.T) {
	st := newState(t, config.Default())
	for range 10 {
		Update(st, Input{})
	}
	st.Reset()
	if st.Frames != 0 || st.Clip.Time() != 0 || st.Clip.Segment() != 0 {
		t.Errorf("after Reset: frames=%d segment=%d time=%g", st.Frames, st.Clip.Segment(), st.Clip.Time())
	}
	if !math3d.IsIdentity(st.Orientation()) {
		t.Errorf("orientation after Reset = %v, want identity", st.Orientation())
	}
}
