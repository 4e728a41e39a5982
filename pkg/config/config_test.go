package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chewxy/math32"

	"github.com/fingerco/MetalFun/pkg/math3d"
	"github.com/fingerco/MetalFun/pkg/shapes"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.FPS != 60 || cfg.Camera.FOV != 65 || cfg.Box.Center != [3]float32{0, 0, -3} {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	clip, err := cfg.Clip()
	if err != nil {
		t.Fatal(err)
	}
	if clip.Segments() != 4 {
		t.Errorf("default clip segments = %d, want 4", clip.Segments())
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != Default().FPS {
		t.Errorf("Load(\"\") did not return defaults: %+v", cfg)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := `
fps: 30
box:
  center: [1, 2, -5]
  width: 2
  height: 2
  depth: 2
animation:
  mode: pointer
  increment: 0.05
  keyframes:
    - {axis: [0, 1, 0], angle: 0}
    - {axis: [0, 1, 0], angle: 90}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != 30 {
		t.Errorf("fps = %d, want 30", cfg.FPS)
	}
	if cfg.Camera != Default().Camera {
		t.Errorf("camera = %+v, want defaults kept", cfg.Camera)
	}
	if cfg.Animation.Mode != ModePointer || len(cfg.Animation.Keyframes) != 2 {
		t.Errorf("animation = %+v", cfg.Animation)
	}
	box := cfg.NewBox()
	if box.Center != shapes.Pos(1, 2, -5) {
		t.Errorf("box center = %v", box.Center)
	}
	q := cfg.Animation.Quats()
	want := math3d.QuatAxisAngle([3]float32{0, 1, 0}, 90)
	if !q[1].ApproxEqualFunc(want, func(a, b float32) bool { return math32.Abs(a-b) <= 1e-6 }) {
		t.Errorf("keyframe 1 = %v, want %v", q[1], want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"bad yaml", "fps: [", "parse config"},
		{"fps", "fps: 0", "fps"},
		{"far equals near", "camera: {fov: 60, near: 1, far: 1}", "camera"},
		{"clear color", "clear_color: [0, 2, 0, 1]", "clear_color[1]"},
		{"mode", "animation: {mode: spin, increment: 0.1}", "animation.mode"},
		{"increment", "animation: {mode: keyframes, increment: 0}", "animation.increment"},
		{"zero axis", "animation: {mode: keyframes, increment: 0.1, keyframes: [{axis: [0, 0, 0], angle: 45}]}", "keyframes[0].axis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %q", err, tt.field)
			}
		})
	}
}

func TestCameraErrorIsDomainError(t *testing.T) {
	cfg := Default()
	cfg.Camera.Far = cfg.Camera.Near
	var de *math3d.DomainError
	if err := cfg.Validate(); !errors.As(err, &de) {
		t.Fatalf("Validate() = %v, want a DomainError", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want ErrNotExist", err)
	}
}

func TestSaveThenLoad(t *testing.T) {
	cfg := Default()
	cfg.FPS = 24
	cfg.Animation.Keyframes = []Keyframe{{Axis: [3]float32{1, 0, 0}, Angle: 30}}
	path := filepath.Join(t.TempDir(), "sub", "scene.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.FPS != 24 || len(got.Animation.Keyframes) != 1 || got.Animation.Keyframes[0].Angle != 30 {
		t.Errorf("reloaded config = %+v", got)
	}
}

func TestProjectionAndClear(t *testing.T) {
	cfg := Default()
	p, err := cfg.Projection(16.0 / 9)
	if err != nil {
		t.Fatal(err)
	}
	if p[11] != -1 {
		t.Errorf("projection w row = %v, want -1", p[11])
	}
	c := cfg.Clear()
	if c.R != 0 || math32.Abs(c.G-104.0/255) > 1e-6 || c.A != 1 {
		t.Errorf("clear color = %v", c)
	}
}
