package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fortio.org/log"
)

// Drawable is a target that can show one frame.
type Drawable interface {
	Present(f *Frame) error
}

// Surface hands out drawables. NextDrawable reports false when none is
// available right now; the loop then skips the frame instead of waiting.
type Surface interface {
	NextDrawable() (Drawable, bool)
}

// StepFunc builds the frame for tick n.
type StepFunc func(n int) Frame

// Loop is the frame-driven render loop. Each tick runs to completion before
// the next one starts; nothing in it runs concurrently.
type Loop struct {
	Surface   Surface
	Step      StepFunc
	Interval  time.Duration // time between ticks; <= 0 runs ticks back to back
	MaxFrames int           // stop after this many presented frames; 0 means no limit

	SkipBackoff time.Duration // unpaced wait after a skipped tick; <= 0 means DefaultSkipBackoff
	MaxSkips    int           // consecutive skips before Run fails with ErrNoDrawable; 0 means no limit

	Presented int
	Skipped   int
}

var (
	// ErrNoSurface is returned by Run when the loop has nothing to draw on.
	ErrNoSurface = errors.New("render: no surface")
	// ErrNoDrawable is returned by Run when MaxSkips ticks in a row found no
	// drawable.
	ErrNoDrawable = errors.New("render: no drawable available")
)

// DefaultSkipBackoff is the unpaced wait after a skipped tick.
const DefaultSkipBackoff = time.Millisecond

// FPSInterval converts a frame rate to a tick interval.
func FPSInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

// Tick runs a single frame: acquire a drawable, build the frame, present
// it. It returns false when the frame was skipped.
func (l *Loop) Tick() (bool, error) {
	d, ok := l.Surface.NextDrawable()
	if !ok {
		l.Skipped++
		log.Debugf("no drawable available, skipping frame (skipped=%d)", l.Skipped)
		return false, nil
	}
	f := l.Step(l.Presented)
	if err := d.Present(&f); err != nil {
		return false, fmt.Errorf("present frame %d: %w", f.Index, err)
	}
	l.Presented++
	return true, nil
}

// Run ticks until ctx is done, MaxFrames frames have been presented, a
// present fails, or MaxSkips consecutive ticks were skipped. Context
// cancellation is not an error. Without an Interval, a skipped tick waits
// SkipBackoff before the next attempt.
func (l *Loop) Run(ctx context.Context) error {
	if l.Surface == nil {
		return ErrNoSurface
	}
	if l.Step == nil {
		return errors.New("render: loop has no step function")
	}

	var tick <-chan time.Time
	if l.Interval > 0 {
		t := time.NewTicker(l.Interval)
		defer t.Stop()
		tick = t.C
	}

	backoff := l.SkipBackoff
	if backoff <= 0 {
		backoff = DefaultSkipBackoff
	}

	skips := 0
	for l.MaxFrames == 0 || l.Presented < l.MaxFrames {
		if ctx.Err() != nil {
			return nil
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}
		ok, err := l.Tick()
		if err != nil {
			return err
		}
		if ok {
			skips = 0
			continue
		}
		skips++
		if l.MaxSkips > 0 && skips >= l.MaxSkips {
			return fmt.Errorf("%w: %d ticks skipped in a row", ErrNoDrawable, skips)
		}
		if tick == nil {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
		}
	}
	log.Debugf("render loop done: presented=%d skipped=%d", l.Presented, l.Skipped)
	return nil
}
