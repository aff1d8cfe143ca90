// Package platform declares the window-system surface the screensaver runs
// on. Implementations live in package desktop, one per OS.
package platform

import (
	"errors"
	"fmt"

	"github.com/1broseidon/fluxsaver/internal/gpu"
	"github.com/1broseidon/fluxsaver/internal/surface"
)

// ErrPlatformUnsupported is returned for operations the current OS or
// window system cannot perform, such as preview embedding outside Windows.
var ErrPlatformUnsupported = errors.New("operation not supported on this platform")

// CallError records the native call that failed.
type CallError struct {
	Call string
	Err  error
}

func (e *CallError) Error() string {
	if e.Err == nil {
		return e.Call + " failed"
	}
	return fmt.Sprintf("%s: %v", e.Call, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// EventKind classifies input and window events.
type EventKind int

const (
	EventKey EventKind = iota
	EventMouseButton
	EventMouseMotion
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventKey:
		return "key"
	case EventMouseButton:
		return "mouse-button"
	case EventMouseMotion:
		return "mouse-motion"
	case EventClose:
		return "close"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one input or window event. DX and DY carry the relative motion
// of EventMouseMotion in physical pixels.
type Event struct {
	Kind   EventKind
	Window Window
	DX     float64
	DY     float64
}

// WindowOptions configure a screensaver window.
type WindowOptions struct {
	Title string
	// Transparent requests a composited, alpha-blended window so the fade-in
	// reveals the desktop underneath.
	Transparent bool
	// VSync and FrameLatencyWait configure bridged presentation.
	VSync            bool
	FrameLatencyWait bool
}

// Window is a borderless top-level or embedded child window.
type Window interface {
	// Surface describes the window's placement, physical size and scale.
	Surface() surface.Surface
	// Driver returns the context driver bound to this window.
	Driver() (gpu.Driver, error)
	// Interop returns the cross-API extension and presenter factory for
	// bridged presentation. It requires Driver to have created a context and
	// fails with ErrPlatformUnsupported where no bridge exists.
	Interop() (gpu.Interop, gpu.PresenterFactory, error)
	// Show maps the window.
	Show() error
	// CaptureCursor hides the cursor and switches to relative motion.
	CaptureCursor() error
	Close() error
}

// Platform is the window system.
type Platform interface {
	Monitors() ([]surface.MonitorDescriptor, error)
	// CreateWindow creates a hidden window covering s.
	CreateWindow(s surface.Surface, opts WindowOptions) (Window, error)
	// AttachPreview creates a hidden child window filling the host window.
	AttachPreview(host uintptr, opts WindowOptions) (Window, error)
	// HostAlive reports whether the preview host window still exists.
	HostAlive(host uintptr) bool
	// PollEvents processes pending events without blocking.
	PollEvents() ([]Event, error)
	Close() error
}
