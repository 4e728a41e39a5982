// metalfun - spinning colored box
//
// Renders a box tumbling through keyframe orientations (or following a
// pointer) with a software rasterizer, writing each frame as a PNG, and
// exports the box geometry to glTF, STL or OBJ.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/fingerco/MetalFun/pkg/config"
	"github.com/fingerco/MetalFun/pkg/demo"
	"github.com/fingerco/MetalFun/pkg/math3d"
	"github.com/fingerco/MetalFun/pkg/models"
	"github.com/fingerco/MetalFun/pkg/render"
	"github.com/fingerco/MetalFun/pkg/shapes"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

type renderOptions struct {
	frames   int
	fps      int
	out      string
	mode     string
	pointer  string
	size     string
	noCull   bool
	lastOnly bool
	unpaced  bool
}

func main() {
	root := &cobra.Command{
		Use:   "metalfun",
		Short: "Spinning colored box",
		Long: `metalfun - spinning colored box

Renders a box tumbling through keyframe orientations, or turned by a
pointer position, and writes the frames as PNG images. The box can also
be exported as a model file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLogLevel(log.Debug)
			}
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML scene config (defaults when empty)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(renderCmd(), exportCmd(), infoCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := fang.Execute(ctx, root, fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

func renderCmd() *cobra.Command {
	var o renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames to PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd, o)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.frames, "frames", 120, "Number of frames to render (0 renders until interrupted)")
	f.IntVar(&o.fps, "fps", 0, "Target FPS (overrides config)")
	f.StringVar(&o.out, "out", "frames", "Output directory for PNG frames")
	f.StringVar(&o.mode, "mode", "", "Animation mode: keyframes or pointer (overrides config)")
	f.StringVar(&o.pointer, "pointer", "", "Pointer position x,y in [-1, 1] for pointer mode")
	f.StringVar(&o.size, "size", "320x240", "Frame size WxH")
	f.BoolVar(&o.noCull, "no-cull", false, "Draw back faces too")
	f.BoolVar(&o.lastOnly, "last-only", false, "Overwrite a single frame.png instead of numbering frames")
	f.BoolVar(&o.unpaced, "unpaced", false, "Render as fast as possible instead of at the target FPS")
	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, o renderOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = o.fps
	}
	if o.mode != "" {
		cfg.Animation.Mode = o.mode
	}
	w, h, err := parseSize(o.size)
	if err != nil {
		return err
	}
	var in demo.Input
	if o.pointer != "" {
		x, y, err := parsePair(o.pointer)
		if err != nil {
			return fmt.Errorf("--pointer: %w", err)
		}
		in = demo.Input{PointerX: x, PointerY: y, HasPointer: true}
	}

	st, err := demo.NewState(cfg, float32(w)/float32(h))
	if err != nil {
		return err
	}
	sink, err := render.NewPNGSink(o.out, o.lastOnly)
	if err != nil {
		log.Errf("Can't use output directory %q: %v", o.out, err)
		return err
	}
	surface := render.NewImageSurface(w, h, render.FromVertexColor(cfg.Clear()), sink)
	surface.Rasterizer.DisableBackfaceCulling = o.noCull

	loop := &render.Loop{
		Surface:   surface,
		Step:      func(int) render.Frame { return demo.Update(st, in) },
		MaxFrames: o.frames,
	}
	if !o.unpaced {
		loop.Interval = render.FPSInterval(float64(cfg.FPS))
	}
	log.Infof("Rendering %s mode at %dx%d, %d fps into %s", st.Mode, w, h, cfg.FPS, o.out)
	if err := loop.Run(ctx); err != nil {
		return err
	}
	log.Infof("Wrote %d frames (%d skipped) to %s", sink.Written, loop.Skipped, o.out)
	return nil
}

func exportCmd() *cobra.Command {
	var yaw, pitch float32
	cmd := &cobra.Command{
		Use:   "export <file.glb|file.stl|file.obj>",
		Short: "Export the box as a model file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			box := cfg.NewBox().Rotated(math3d.QuatFromEuler(pitch, yaw, 0))
			return models.Export(args[0], box)
		},
	}
	cmd.Flags().Float32Var(&yaw, "yaw", 0, "Rotation about Y in degrees")
	cmd.Flags().Float32Var(&pitch, "pitch", 0, "Rotation about X in degrees")
	return cmd
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [model.glb|model.stl|model.obj]",
		Short: "Show the configured box, or information about a model file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runModelInfo(args[0])
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runBoxInfo(cfg)
		},
	}
}

func runBoxInfo(cfg config.Config) error {
	box := cfg.NewBox()
	clip, err := cfg.Clip()
	if err != nil {
		return err
	}
	c := box.Center
	fmt.Printf("Box:        %g x %g x %g at (%g, %g, %g)\n", cfg.Box.Width, cfg.Box.Height, cfg.Box.Depth, c.X, c.Y, c.Z)
	fmt.Printf("Triangles:  %d\n", box.TriangleCount())
	fmt.Printf("Vertices:   %d\n", box.VertexCount())
	fmt.Printf("Buffer:     %d floats (%d bytes per vertex)\n", len(box.Floats()), shapes.VertexStride)
	fmt.Println()
	fmt.Printf("Camera:     fov %g°, near %g, far %g\n", cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far)
	fmt.Printf("Animation:  %s, %d segments, %g per frame at %d fps\n",
		cfg.Animation.Mode, clip.Segments(), clip.Increment(), cfg.FPS)
	for i, q := range clip.Keyframes() {
		axis, angle := math3d.AxisAngle(q)
		fmt.Printf("  key %d:    %6.1f° about (%.2f, %.2f, %.2f)\n", i, angle, axis[0], axis[1], axis[2])
	}
	return nil
}

func runModelInfo(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	mesh, err := models.Load(path)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	size, center := mesh.Size(), mesh.Center()
	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))

	fmt.Printf("File:       %s\n", filepath.Base(path))
	fmt.Printf("Format:     %s\n", ext)
	fmt.Printf("Size:       %.2f KB\n", float64(st.Size())/1024)
	fmt.Println()
	fmt.Printf("Vertices:   %d (%d unique)\n", mesh.VertexCount(), mesh.UniqueVertexCount())
	fmt.Printf("Triangles:  %d\n", mesh.TriangleCount())
	fmt.Println()
	fmt.Printf("Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X, mesh.BoundsMin.Y, mesh.BoundsMin.Z)
	fmt.Printf("Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X, mesh.BoundsMax.Y, mesh.BoundsMax.Z)
	fmt.Printf("Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Printf("Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	return nil
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("--size %q: want WxH", s)
	}
	w, err1 := strconv.Atoi(ws)
	h, err2 := strconv.Atoi(hs)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("--size %q: want positive WxH", s)
	}
	return w, h, nil
}

func parsePair(s string) (float32, float32, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, err)
	}
	return float32(x), float32(y), nil
}
