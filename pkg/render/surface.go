package render

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/log"
)

// Sink receives each finished framebuffer.
type Sink interface {
	Write(index int, fb *Framebuffer) error
}

// ImageSurface rasterizes frames in software. It has a single drawable, so
// it is the surface and the drawable at once.
type ImageSurface struct {
	FB         *Framebuffer
	Rasterizer *Rasterizer
	Sink       Sink
	// Busy makes NextDrawable report no drawable, like a display whose
	// swap chain is exhausted.
	Busy func() bool
}

// NewImageSurface creates a surface of the given size clearing to bg.
func NewImageSurface(width, height int, bg Color, sink Sink) *ImageSurface {
	fb := NewFramebuffer(width, height)
	fb.BG = bg
	fb.Clear()
	return &ImageSurface{FB: fb, Rasterizer: NewRasterizer(fb), Sink: sink}
}

// NextDrawable implements Surface.
func (s *ImageSurface) NextDrawable() (Drawable, bool) {
	if s.Busy != nil && s.Busy() {
		return nil, false
	}
	return s, true
}

// Present clears, draws f and passes the result to the sink.
func (s *ImageSurface) Present(f *Frame) error {
	s.FB.Clear()
	if err := s.Rasterizer.Draw(f); err != nil {
		return err
	}
	st := s.Rasterizer.Stats
	log.Debugf("frame %d: drawn=%d culled=%d clipped=%d", f.Index, st.Drawn, st.Culled, st.Clipped)
	if s.Sink == nil {
		return nil
	}
	return s.Sink.Write(f.Index, s.FB)
}

// PNGSink writes frame-NNNNN.png files into Dir. With LastOnly set it
// keeps overwriting a single frame.png.
type PNGSink struct {
	Dir      string
	LastOnly bool
	Written  int
}

// NewPNGSink creates dir if needed.
func NewPNGSink(dir string, lastOnly bool) (*PNGSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &PNGSink{Dir: dir, LastOnly: lastOnly}, nil
}

// Path returns the file name used for frame index.
func (s *PNGSink) Path(index int) string {
	if s.LastOnly {
		return filepath.Join(s.Dir, "frame.png")
	}
	return filepath.Join(s.Dir, fmt.Sprintf("frame-%05d.png", index))
}

// Write implements Sink.
func (s *PNGSink) Write(index int, fb *Framebuffer) error {
	if err := fb.SavePNG(s.Path(index)); err != nil {
		return err
	}
	s.Written++
	return nil
}
