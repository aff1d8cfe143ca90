package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/1broseidon/fluxsaver/internal/platform"
	"github.com/1broseidon/fluxsaver/internal/surface"
)

const defaultTitle = "Flux"

// Window is a glfw window plus the native state needed to drive it.
type Window struct {
	platform *Platform
	glw      *glfw.Window
	surf     surface.Surface
	opts     platform.WindowOptions
	motion   motionTracker
	native   windowNative
	closed   bool
}

var _ platform.Window = (*Window)(nil)

// Surface describes the window's placement, physical size and scale.
func (w *Window) Surface() surface.Surface { return w.surf }

// Show maps the window.
func (w *Window) Show() error {
	if w.glw == nil {
		return &platform.CallError{Call: "show window", Err: errNoWindow}
	}
	return guard("glfwShowWindow", func() {
		w.glw.Show()
		w.native.afterShow(w)
	})
}

// CaptureCursor hides the cursor and switches to unbounded relative motion.
func (w *Window) CaptureCursor() error {
	if w.glw == nil {
		return &platform.CallError{Call: "capture cursor", Err: errNoWindow}
	}
	err := guard("glfwSetInputMode", func() {
		w.glw.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.glw.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	})
	w.motion.reset()
	return err
}

// Close destroys the window. It is safe to call more than once.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.native.release()
	if w.glw != nil {
		w.platform.untrack(w.glw)
		err := guard("glfwDestroyWindow", w.glw.Destroy)
		w.glw = nil
		return err
	}
	return nil
}

func (w *Window) title() string {
	if w.opts.Title != "" {
		return w.opts.Title
	}
	return defaultTitle
}

// flushMotion turns the motion accumulated since the last poll into a
// single relative motion event.
func (w *Window) flushMotion() {
	dx, dy, ok := w.motion.take()
	if !ok {
		return
	}
	w.platform.push(platform.Event{Kind: platform.EventMouseMotion, Window: w, DX: dx, DY: dy})
}

// motionTracker converts absolute cursor positions into deltas. The first
// position after a reset only establishes the origin.
type motionTracker struct {
	lastX, lastY float64
	primed       bool
	dx, dy       float64
	moved        bool
}

func (m *motionTracker) observe(x, y float64) {
	if !m.primed {
		m.lastX, m.lastY = x, y
		m.primed = true
		return
	}
	m.dx += x - m.lastX
	m.dy += y - m.lastY
	m.lastX, m.lastY = x, y
	m.moved = true
}

func (m *motionTracker) take() (dx, dy float64, ok bool) {
	if !m.moved {
		return 0, 0, false
	}
	dx, dy = m.dx, m.dy
	m.dx, m.dy, m.moved = 0, 0, false
	return dx, dy, true
}

func (m *motionTracker) reset() {
	*m = motionTracker{}
}
