// Package instance runs the engine on one window: it owns the rendering
// context, the optional interop bridge and the engine, and draws frames
// either directly or through the bridge.
package instance

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/fluxsaver/internal/flux"
	"github.com/1broseidon/fluxsaver/internal/gpu"
	"github.com/1broseidon/fluxsaver/internal/platform"
)

// DefaultFadeDuration is how long a new instance fades from transparent to
// black before the engine takes over.
const DefaultFadeDuration = 300 * time.Millisecond

// Engine is the fluid simulation driven by an instance.
type Engine interface {
	// Animate advances and renders to the default framebuffer.
	Animate(timestamp float64)
	// Compute advances the simulation without rendering.
	Compute(timestamp float64)
	// Render draws the current state to the bound framebuffer.
	Render()
	Resize(logicalWidth, logicalHeight, physicalWidth, physicalHeight uint32)
	Close() error
}

// EngineFactory creates an engine for a drawable. The context it renders
// with is current when the factory runs.
type EngineFactory func(logicalWidth, logicalHeight, physicalWidth, physicalHeight uint32, settingsJSON string) (Engine, error)

// Options configure a new instance.
type Options struct {
	FadeDuration time.Duration
	// Interop enables bridged presentation where the platform supports it.
	Interop bool
	// VSync sets the swap interval of direct presentation.
	VSync bool
	// Settings are handed to the engine as JSON.
	Settings flux.Settings
}

// Instance is one window with its context, optional bridge and engine.
type Instance struct {
	window platform.Window
	rc     *gpu.RenderContext
	bridge *gpu.Bridge
	engine Engine
	fade   time.Duration
	logger *slog.Logger
	closed bool
}

// New negotiates a context on win, sets up the interop bridge when enabled
// and creates the engine. The instance owns win: it is closed on failure
// and by Close.
func New(win platform.Window, newEngine EngineFactory, opts Options, logger *slog.Logger) (_ *Instance, err error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := win.Surface()
	logger = logger.With("surface", fmt.Sprintf("%dx%d@%d,%d", s.Size.Width, s.Size.Height, s.Position.X, s.Position.Y))

	inst := &Instance{window: win, fade: opts.FadeDuration, logger: logger}
	if inst.fade <= 0 {
		inst.fade = DefaultFadeDuration
	}
	defer func() {
		if err != nil {
			if cerr := inst.Close(); cerr != nil {
				logger.Warn("failed to release partial instance", "error", cerr)
			}
		}
	}()

	driver, err := win.Driver()
	if err != nil {
		return nil, fmt.Errorf("context driver: %w", err)
	}
	negotiator := &gpu.Negotiator{Logger: logger}
	inst.rc, err = negotiator.CreateContext(driver, int(s.Size.Width), int(s.Size.Height))
	if err != nil {
		return nil, err
	}

	if opts.Interop {
		inst.bridge = openBridge(win, inst.rc, logger)
	}
	if inst.bridge == nil {
		interval := 0
		if opts.VSync {
			interval = 1
		}
		if err := inst.rc.SetSwapInterval(interval); err != nil {
			logger.Warn("failed to set swap interval", "interval", interval, "error", err)
		}
	}

	settings, err := opts.Settings.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode engine settings: %w", err)
	}
	logical := s.LogicalSize()
	inst.engine, err = newEngine(logical.Width, logical.Height, s.Size.Width, s.Size.Height, settings)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	logger.Info("instance ready", "bridged", inst.bridge != nil, "request", inst.rc.Request().String())
	return inst, nil
}

// openBridge returns nil when bridged presentation cannot be used; the
// instance then presents by swapping buffers.
func openBridge(win platform.Window, rc *gpu.RenderContext, logger *slog.Logger) *gpu.Bridge {
	interop, newPresenter, err := win.Interop()
	if err != nil {
		if errors.Is(err, platform.ErrPlatformUnsupported) {
			logger.Debug("interop not supported on this platform", "error", err)
		} else {
			logger.Warn("interop unavailable, presenting directly", "error", err)
		}
		return nil
	}
	bridge, err := gpu.NewBridge(rc, newPresenter, interop, logger)
	if err != nil {
		logger.Warn("interop bridge failed, presenting directly", "error", err)
		return nil
	}
	return bridge
}

// Window returns the window the instance renders to.
func (i *Instance) Window() platform.Window { return i.window }

// Bridged reports whether frames go through the interop bridge.
func (i *Instance) Bridged() bool { return i.bridge != nil }

// FadeDuration is the length of the fade-in.
func (i *Instance) FadeDuration() time.Duration { return i.fade }

// Fading reports whether the timestamp, in milliseconds since the session
// started, still falls inside the fade-in.
func (i *Instance) Fading(timestamp float64) bool {
	return timestamp < durationMillis(i.fade)
}

// Draw advances the engine to timestamp and presents a frame.
func (i *Instance) Draw(timestamp float64) error {
	if i.closed {
		return errClosed
	}
	if err := i.rc.MakeCurrent(); err != nil {
		return err
	}
	if i.bridge == nil {
		i.engine.Animate(timestamp)
		return i.rc.SwapBuffers()
	}

	i.engine.Compute(timestamp)
	return i.bridge.Frame(func(fbo uint32) error {
		gl := i.rc.GL()
		i.bindTarget(fbo)
		i.engine.Render()
		gl.BindFramebuffer(gpu.FRAMEBUFFER, 0)
		gl.Finish()
		return nil
	})
}

// FadeToBlack clears the window to black with an opacity that grows with
// timestamp and presents it through the same path as Draw.
func (i *Instance) FadeToBlack(timestamp float64) error {
	if i.closed {
		return errClosed
	}
	if err := i.rc.MakeCurrent(); err != nil {
		return err
	}
	alpha := FadeAlpha(timestamp, i.fade)
	paint := func(fbo uint32) error {
		gl := i.rc.GL()
		i.bindTarget(fbo)
		gl.ClearColor(0, 0, 0, alpha)
		gl.Clear(gpu.COLOR_BUFFER_BIT)
		gl.BindFramebuffer(gpu.FRAMEBUFFER, 0)
		gl.Finish()
		return nil
	}
	if i.bridge != nil {
		return i.bridge.Frame(paint)
	}
	if err := paint(0); err != nil {
		return err
	}
	return i.rc.SwapBuffers()
}

func (i *Instance) bindTarget(fbo uint32) {
	gl := i.rc.GL()
	width, height := i.rc.Size()
	gl.BindFramebuffer(gpu.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Close releases the bridge, the engine, the context and the window in that
// order. Every step runs even if an earlier one fails.
func (i *Instance) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true

	var errs []error
	if i.rc != nil {
		// Bridge and engine teardown issue GL calls.
		if err := i.rc.MakeCurrent(); err != nil {
			errs = append(errs, err)
		}
	}
	if i.bridge != nil {
		if err := i.bridge.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bridge: %w", err))
		}
		i.bridge = nil
	}
	if i.engine != nil {
		if err := i.engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close engine: %w", err))
		}
		i.engine = nil
	}
	if i.rc != nil {
		if err := i.rc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
		i.rc = nil
	}
	if err := i.window.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close window: %w", err))
	}
	return errors.Join(errs...)
}

var errClosed = errors.New("instance closed")

// FadeAlpha is the black overlay opacity at timestamp milliseconds:
// timestamp/fade clamped to [0, 1]. It never decreases as timestamp grows.
func FadeAlpha(timestamp float64, fade time.Duration) float32 {
	total := durationMillis(fade)
	if total <= 0 {
		return 1
	}
	alpha := timestamp / total
	switch {
	case alpha < 0:
		return 0
	case alpha > 1:
		return 1
	}
	return float32(alpha)
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
