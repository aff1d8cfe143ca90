// Package session runs the screensaver: it lays out instances over the
// monitors (or inside a preview host), drives them from one event loop and
// decides when to exit.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/1broseidon/fluxsaver/internal/platform"
	"github.com/1broseidon/fluxsaver/internal/surface"
	"github.com/1broseidon/fluxsaver/internal/wallpaper"
)

// DefaultMotionThreshold is the cursor travel, in device-independent
// units per poll, that ends the screensaver.
const DefaultMotionThreshold = 10

// ErrNoInstances is returned when no instance could be created or every
// instance has failed.
var ErrNoInstances = errors.New("no screensaver instance is running")

// Mode is how the process was launched.
type Mode int

const (
	ModeSettings Mode = iota
	ModeScreensaver
	ModePreview
)

func (m Mode) String() string {
	switch m {
	case ModeSettings:
		return "settings"
	case ModeScreensaver:
		return "screensaver"
	case ModePreview:
		return "preview"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Instance renders into one window.
type Instance interface {
	// Fading reports whether timestamp still falls inside the fade-in.
	Fading(timestamp float64) bool
	FadeToBlack(timestamp float64) error
	Draw(timestamp float64) error
	// Close releases the instance and its window.
	Close() error
}

// InstanceFactory creates an instance for a window. It takes ownership of
// the window and closes it when it fails.
type InstanceFactory func(win platform.Window) (Instance, error)

// Options configure a session.
type Options struct {
	Mode Mode
	// PreviewHost is the native window that hosts a preview.
	PreviewHost uintptr
	// MotionThreshold defaults to DefaultMotionThreshold.
	MotionThreshold float64
	Window          platform.WindowOptions
	// Wallpapers is optional; surfaces carry no wallpaper without it.
	Wallpapers wallpaper.Resolver
	// Now defaults to time.Now.
	Now func() time.Time
}

type entry struct {
	window   platform.Window
	instance Instance
}

// Session owns the instances of one run.
type Session struct {
	platform    platform.Platform
	newInstance InstanceFactory
	opts        Options
	logger      *slog.Logger

	entries []*entry
	start   time.Time
}

// New creates a session. Nothing is created until Run.
func New(p platform.Platform, newInstance InstanceFactory, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.MotionThreshold <= 0 {
		opts.MotionThreshold = DefaultMotionThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{platform: p, newInstance: newInstance, opts: opts, logger: logger.With("mode", opts.Mode.String())}
}

// Run sets up the instances and runs the event loop until the exit policy
// fires. It returns ErrNoInstances when nothing is left to draw.
func (s *Session) Run() error {
	var err error
	switch s.opts.Mode {
	case ModeScreensaver:
		err = s.setupScreensaver()
	case ModePreview:
		err = s.setupPreview()
	default:
		return fmt.Errorf("session cannot run in %s mode", s.opts.Mode)
	}
	defer s.closeAll()
	if err != nil {
		return err
	}
	if err := s.showAll(); err != nil {
		return err
	}

	s.start = s.opts.Now()
	for {
		events, err := s.platform.PollEvents()
		if err != nil {
			return fmt.Errorf("poll events: %w", err)
		}
		if s.shouldExit(events) {
			s.logger.Info("exit requested")
			return nil
		}
		s.drawAll(s.timestamp())
		if len(s.entries) == 0 {
			return ErrNoInstances
		}
	}
}

func (s *Session) setupScreensaver() error {
	monitors, err := s.platform.Monitors()
	if err != nil {
		return fmt.Errorf("enumerate monitors: %w", err)
	}
	var wallpapers map[string]string
	if s.opts.Wallpapers != nil {
		wallpapers = wallpaper.ResolveAll(s.opts.Wallpapers, monitors, s.logger)
	}
	surfaces := surface.Combine(monitors, wallpapers)
	s.logger.Info("laid out surfaces", "monitors", len(monitors), "surfaces", len(surfaces))

	for _, surf := range surfaces {
		win, err := s.platform.CreateWindow(surf, s.opts.Window)
		if err != nil {
			s.logger.Error("failed to create window", "position", surf.Position, "size", surf.Size, "error", err)
			continue
		}
		s.add(win)
	}
	if len(s.entries) == 0 {
		return ErrNoInstances
	}
	return nil
}

func (s *Session) setupPreview() error {
	win, err := s.platform.AttachPreview(s.opts.PreviewHost, s.opts.Window)
	if err != nil {
		return fmt.Errorf("attach preview to %#x: %w", s.opts.PreviewHost, err)
	}
	s.add(win)
	if len(s.entries) == 0 {
		return ErrNoInstances
	}
	return nil
}

func (s *Session) add(win platform.Window) {
	inst, err := s.newInstance(win)
	if err != nil {
		s.logger.Error("failed to create instance", "surface", win.Surface().Bounds(), "error", err)
		return
	}
	s.entries = append(s.entries, &entry{window: win, instance: inst})
}

// showAll maps the windows once every instance exists, so no window shows
// while another is still negotiating its context.
func (s *Session) showAll() error {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if err := e.window.Show(); err != nil {
			s.logger.Error("failed to show window", "error", err)
			s.closeEntry(e)
			continue
		}
		if s.opts.Mode == ModeScreensaver {
			if err := e.window.CaptureCursor(); err != nil {
				s.logger.Warn("failed to capture cursor", "error", err)
			}
		}
		kept = append(kept, e)
	}
	s.entries = kept
	if len(s.entries) == 0 {
		return ErrNoInstances
	}
	return nil
}

// timestamp is the shared frame time in milliseconds since the loop started.
func (s *Session) timestamp() float64 {
	return float64(s.opts.Now().Sub(s.start)) / float64(time.Millisecond)
}

// drawAll draws every instance with the same timestamp. A failing instance
// is closed and dropped; the others keep running.
func (s *Session) drawAll(ts float64) {
	kept := s.entries[:0]
	for _, e := range s.entries {
		var err error
		if e.instance.Fading(ts) {
			err = e.instance.FadeToBlack(ts)
		} else {
			err = e.instance.Draw(ts)
		}
		if err != nil {
			s.logger.Error("instance failed, closing it", "surface", e.window.Surface().Bounds(), "error", err)
			s.closeEntry(e)
			continue
		}
		kept = append(kept, e)
	}
	clear(s.entries[len(kept):])
	s.entries = kept
}

// shouldExit applies the exit policy to one poll batch.
func (s *Session) shouldExit(events []platform.Event) bool {
	if s.opts.Mode == ModePreview {
		if !s.platform.HostAlive(s.opts.PreviewHost) {
			s.logger.Info("preview host window is gone")
			return true
		}
		for _, ev := range events {
			if ev.Kind == platform.EventClose {
				return true
			}
		}
		return false
	}

	motion := make(map[platform.Window]*[2]float64)
	for _, ev := range events {
		switch ev.Kind {
		case platform.EventKey, platform.EventMouseButton, platform.EventClose:
			s.logger.Debug("input ends screensaver", "event", ev.Kind.String())
			return true
		case platform.EventMouseMotion:
			d, ok := motion[ev.Window]
			if !ok {
				d = new([2]float64)
				motion[ev.Window] = d
			}
			d[0] += ev.DX
			d[1] += ev.DY
		}
	}
	for win, d := range motion {
		scale := 1.0
		if win != nil {
			scale = win.Surface().ScaleFactor
		}
		if travel := MotionTravel(d[0], d[1], scale); travel > s.opts.MotionThreshold {
			s.logger.Debug("cursor motion ends screensaver", "travel", travel)
			return true
		}
	}
	return false
}

// MotionTravel converts a physical cursor delta into device-independent
// travel: the larger absolute axis divided by the scale factor.
func MotionTravel(dx, dy, scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return math.Max(math.Abs(dx), math.Abs(dy)) / scale
}

func (s *Session) closeEntry(e *entry) {
	if err := e.instance.Close(); err != nil {
		s.logger.Warn("failed to close instance", "error", err)
	}
}

// closeAll closes instances in reverse creation order.
func (s *Session) closeAll() {
	for i := len(s.entries) - 1; i >= 0; i-- {
		s.closeEntry(s.entries[i])
	}
	s.entries = nil
}
