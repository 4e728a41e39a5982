// Package config holds the demo settings: box, camera, frame rate, clear
// color and animation. Settings live in a YAML file; anything the file leaves
// out keeps its default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/fingerco/MetalFun/pkg/anim"
	"github.com/fingerco/MetalFun/pkg/math3d"
	"github.com/fingerco/MetalFun/pkg/shapes"
)

// Animation modes.
const (
	ModeKeyframes = "keyframes"
	ModePointer   = "pointer"
)

// Box is the rendered box: center in world space and its extents.
type Box struct {
	Center [3]float32 `yaml:"center"`
	Width  float32    `yaml:"width"`
	Height float32    `yaml:"height"`
	Depth  float32    `yaml:"depth"`
}

// Camera is the perspective projection. FOV is vertical, in degrees.
type Camera struct {
	FOV  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// Keyframe is an orientation given as a rotation of Angle degrees about Axis.
type Keyframe struct {
	Axis  [3]float32 `yaml:"axis"`
	Angle float32    `yaml:"angle"`
}

// Animation selects how the box turns.
type Animation struct {
	Mode      string     `yaml:"mode"`
	Increment float32    `yaml:"increment"`
	Keyframes []Keyframe `yaml:"keyframes,omitempty"`
}

// Pointer tunes pointer mode.
type Pointer struct {
	Sensitivity float64 `yaml:"sensitivity"` // degrees per pointer unit
	Immediate   bool    `yaml:"immediate,omitempty"`
}

// Config is the whole demo configuration.
type Config struct {
	Box        Box        `yaml:"box"`
	Camera     Camera     `yaml:"camera"`
	FPS        int        `yaml:"fps"`
	ClearColor [4]float32 `yaml:"clear_color"`
	Animation  Animation  `yaml:"animation"`
	Pointer    Pointer    `yaml:"pointer"`
}

// Default returns the settings of the stock demo: a unit box three units in
// front of the camera, slowly tumbling through the default keyframes.
func Default() Config {
	return Config{
		Box: Box{
			Center: [3]float32{0, 0, -3},
			Width:  1,
			Height: 1,
			Depth:  1,
		},
		Camera:     Camera{FOV: 65, Near: 0.1, Far: 100},
		FPS:        60,
		ClearColor: [4]float32{0, 104.0 / 255, 55.0 / 255, 1},
		Animation:  Animation{Mode: ModeKeyframes, Increment: 0.01},
		Pointer:    Pointer{Sensitivity: 180},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks every field that would otherwise fail later, naming the
// offending field. Box extents are not checked: a zero extent collapses the
// box, which is legal.
func (c Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps: must be positive, got %d", c.FPS))
	}
	if _, err := math3d.Perspective(1, c.Camera.FOV, c.Camera.Near, c.Camera.Far); err != nil {
		errs = append(errs, fmt.Errorf("camera: %w", err))
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("clear_color[%d]: %g outside [0, 1]", i, v))
		}
	}
	switch c.Animation.Mode {
	case ModeKeyframes, ModePointer:
	default:
		errs = append(errs, fmt.Errorf("animation.mode: unknown mode %q", c.Animation.Mode))
	}
	if !(c.Animation.Increment > 0 && c.Animation.Increment <= 1) {
		errs = append(errs, fmt.Errorf("animation.increment: %g outside (0, 1]", c.Animation.Increment))
	}
	for i, k := range c.Animation.Keyframes {
		if k.Axis == [3]float32{} && k.Angle != 0 {
			errs = append(errs, fmt.Errorf("animation.keyframes[%d].axis: zero axis with angle %g", i, k.Angle))
		}
	}
	return errors.Join(errs...)
}

// Quats returns the configured keyframes as orientations, or the default
// keyframes when none are configured.
func (a Animation) Quats() []mgl32.Quat {
	if len(a.Keyframes) == 0 {
		return anim.DefaultKeyframes()
	}
	out := make([]mgl32.Quat, len(a.Keyframes))
	for i, k := range a.Keyframes {
		out[i] = math3d.QuatAxisAngle(mgl32.Vec3(k.Axis), k.Angle)
	}
	return out
}

// Clip builds the keyframe clip.
func (c Config) Clip() (*anim.Clip, error) {
	return anim.NewClip(c.Animation.Quats(), c.Animation.Increment)
}

// Projection builds the perspective matrix for the given aspect ratio.
func (c Config) Projection(aspect float32) (mgl32.Mat4, error) {
	return math3d.Perspective(aspect, c.Camera.FOV, c.Camera.Near, c.Camera.Far)
}

// NewBox builds the configured box.
func (c Config) NewBox() shapes.Box {
	ctr := c.Box.Center
	return shapes.NewBox(shapes.Pos(ctr[0], ctr[1], ctr[2]), c.Box.Width, c.Box.Height, c.Box.Depth)
}

// Clear returns the clear color.
func (c Config) Clear() shapes.VertexColor {
	v := c.ClearColor
	return shapes.RGBA(v[0], v[1], v[2], v[3])
}
