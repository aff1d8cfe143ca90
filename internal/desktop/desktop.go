// Package desktop implements platform.Platform on top of glfw, with the
// native pieces (context drivers, monitors, preview embedding) supplied per
// operating system.
package desktop

import (
	"errors"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/1broseidon/fluxsaver/internal/platform"
	"github.com/1broseidon/fluxsaver/internal/surface"
)

// Options configure the platform at startup.
type Options struct {
	// HighPerformance asks the OS to run the process on the discrete GPU.
	HighPerformance bool
}

// Platform is the glfw-backed window system. All methods must be called
// from the thread that created it.
type Platform struct {
	logger  *slog.Logger
	native  *native
	windows map[*glfw.Window]*Window
	pending []platform.Event
	closed  bool
}

var _ platform.Platform = (*Platform)(nil)

// New initializes glfw. GPU preference and DPI awareness are applied first
// because both must be in place before the first window or context exists.
func New(opts Options, logger *slog.Logger) (*Platform, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.HighPerformance {
		if err := preferHighPerformanceGPU(); err != nil {
			logger.Warn("failed to request the high performance GPU", "error", err)
		}
	}
	prepareProcess(logger)

	if err := glfw.Init(); err != nil {
		return nil, &platform.CallError{Call: "glfwInit", Err: err}
	}
	n, err := newNative(logger)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	return &Platform{
		logger:  logger,
		native:  n,
		windows: make(map[*glfw.Window]*Window),
	}, nil
}

// Monitors lists the active displays.
func (p *Platform) Monitors() ([]surface.MonitorDescriptor, error) {
	return p.native.monitors()
}

// CreateWindow creates a hidden borderless window covering s.
func (p *Platform) CreateWindow(s surface.Surface, opts platform.WindowOptions) (platform.Window, error) {
	w := &Window{platform: p, surf: s, opts: opts}
	if err := p.native.initWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

// AttachPreview creates a hidden child window filling the host window.
func (p *Platform) AttachPreview(host uintptr, opts platform.WindowOptions) (platform.Window, error) {
	w, err := p.native.attachPreview(p, host, opts)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// HostAlive reports whether the preview host window still exists.
func (p *Platform) HostAlive(host uintptr) bool {
	return p.native.hostAlive(host)
}

// PollEvents processes pending window-system events without blocking and
// returns what the callbacks collected.
func (p *Platform) PollEvents() ([]platform.Event, error) {
	if p.closed {
		return nil, errors.New("poll events: platform closed")
	}
	if err := guard("glfwPollEvents", glfw.PollEvents); err != nil {
		return nil, err
	}
	for _, w := range p.windows {
		w.flushMotion()
	}
	events := p.pending
	p.pending = nil
	return events, nil
}

// Close destroys every remaining window and terminates glfw.
func (p *Platform) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	for glw, w := range p.windows {
		glw.Destroy()
		w.glw = nil
	}
	clear(p.windows)
	p.native.close()
	glfw.Terminate()
	return nil
}

func (p *Platform) push(ev platform.Event) {
	p.pending = append(p.pending, ev)
}

// track registers a glfw window and installs its input callbacks.
func (p *Platform) track(w *Window, glw *glfw.Window) {
	w.glw = glw
	p.windows[glw] = w

	glw.SetKeyCallback(func(_ *glfw.Window, _ glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			p.push(platform.Event{Kind: platform.EventKey, Window: w})
		}
	})
	glw.SetMouseButtonCallback(func(_ *glfw.Window, _ glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			p.push(platform.Event{Kind: platform.EventMouseButton, Window: w})
		}
	})
	glw.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.motion.observe(x, y)
	})
	glw.SetCloseCallback(func(_ *glfw.Window) {
		p.push(platform.Event{Kind: platform.EventClose, Window: w})
	})
}

func (p *Platform) untrack(glw *glfw.Window) {
	delete(p.windows, glw)
}

// baseHints resets glfw window hints to a hidden, borderless, fixed-size
// window that stays above other windows.
func baseHints(transparent bool) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Decorated, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Floating, glfw.True)
	glfw.WindowHint(glfw.FocusOnShow, glfw.True)
	glfw.WindowHint(glfw.AutoIconify, glfw.False)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.False)
	if transparent {
		glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)
	}
}

// createGLFWWindow creates the glfw window for w using the hints already
// set, and places it over the window's surface.
func (p *Platform) createGLFWWindow(w *Window) (glw *glfw.Window, err error) {
	s := w.surf
	perr := guard("glfwCreateWindow", func() {
		glw, err = glfw.CreateWindow(int(s.Size.Width), int(s.Size.Height), w.title(), nil, nil)
	})
	if perr != nil {
		return nil, perr
	}
	if err != nil {
		return nil, &platform.CallError{Call: "glfwCreateWindow", Err: err}
	}
	glw.SetPos(int(s.Position.X), int(s.Position.Y))
	p.track(w, glw)
	return glw, nil
}
