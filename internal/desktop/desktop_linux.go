//go:build linux

package desktop

import (
	"fmt"
	"log/slog"
	"os"
	"unsafe"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/1broseidon/fluxsaver/internal/gldispatch"
	"github.com/1broseidon/fluxsaver/internal/gpu"
	"github.com/1broseidon/fluxsaver/internal/platform"
	"github.com/1broseidon/fluxsaver/internal/surface"
	"github.com/1broseidon/fluxsaver/internal/x11"
)

// preferHighPerformanceGPU enables PRIME render offload for Mesa drivers.
// An explicit DRI_PRIME from the environment wins.
func preferHighPerformanceGPU() error {
	if _, ok := os.LookupEnv("DRI_PRIME"); ok {
		return nil
	}
	return os.Setenv("DRI_PRIME", "1")
}

func prepareProcess(*slog.Logger) {}

// native owns a separate X11 connection for RandR, Xft.dpi and GLX queries.
// glfw keeps its own Xlib display for windows and contexts.
type native struct {
	conn   *x11.Connection
	logger *slog.Logger
}

func newNative(logger *slog.Logger) (*native, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, &platform.CallError{Call: "XOpenDisplay", Err: err}
	}
	return &native{conn: conn, logger: logger}, nil
}

func (n *native) monitors() ([]surface.MonitorDescriptor, error) {
	return n.conn.Descriptors()
}

// initWindow defers creating the glfw window: under GLX the window and its
// context are created together once a configuration has been chosen.
func (n *native) initWindow(w *Window) error {
	w.native.conn = n.conn
	return nil
}

func (n *native) attachPreview(*Platform, uintptr, platform.WindowOptions) (*Window, error) {
	return nil, fmt.Errorf("preview embedding: %w", platform.ErrPlatformUnsupported)
}

func (n *native) hostAlive(uintptr) bool { return false }

func (n *native) close() {
	n.conn.Close()
}

type windowNative struct {
	conn *x11.Connection
}

// afterShow asks the window manager to keep the window above everything and
// stretched over its surface, which may span monitors.
func (n *windowNative) afterShow(w *Window) {
	s := w.surf
	id := xproto.Window(w.glw.GetX11Window())
	if err := n.conn.CoverArea(id, int(s.Position.X), int(s.Position.Y), int(s.Size.Width), int(s.Size.Height)); err != nil {
		w.platform.logger.Warn("failed to place screensaver window", "error", err)
	}
}

func (n *windowNative) release() {}

// Driver returns a GLX driver that creates the glfw window together with
// its context.
func (w *Window) Driver() (gpu.Driver, error) {
	return &glxDriver{window: w}, nil
}

// Interop is unavailable on X11; frames are presented by swapping buffers.
func (w *Window) Interop() (gpu.Interop, gpu.PresenterFactory, error) {
	return nil, nil, fmt.Errorf("DXGI interop: %w", platform.ErrPlatformUnsupported)
}

type glxDriver struct {
	window *Window
}

func (d *glxDriver) Configs() ([]gpu.PixelConfig, error) {
	return d.window.native.conn.FBConfigs()
}

// CreateContext translates the chosen configuration into glfw hints. glfw
// picks the closest matching FBConfig itself.
func (d *glxDriver) CreateContext(cfg gpu.PixelConfig, req gpu.ContextRequest) (gpu.Context, error) {
	w := d.window
	if w.glw != nil {
		return nil, fmt.Errorf("window already has a context")
	}
	transparent := w.opts.Transparent && cfg.SupportsTransparency
	baseHints(transparent)
	glfw.WindowHint(glfw.RedBits, int(cfg.RedSize))
	glfw.WindowHint(glfw.GreenBits, int(cfg.GreenSize))
	glfw.WindowHint(glfw.BlueBits, int(cfg.BlueSize))
	glfw.WindowHint(glfw.AlphaBits, int(cfg.AlphaSize))
	glfw.WindowHint(glfw.DepthBits, int(cfg.DepthSize))
	glfw.WindowHint(glfw.StencilBits, int(cfg.StencilSize))
	glfw.WindowHint(glfw.Samples, int(cfg.Samples))
	glfw.WindowHint(glfw.SRGBCapable, glfwBool(cfg.SRGBCapable))
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, req.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, req.Minor)
	switch req.API {
	case gpu.APIOpenGLES:
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
		glfw.WindowHint(glfw.ContextCreationAPI, glfw.EGLContextAPI)
	default:
		glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
		if req.Core {
			glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
			glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		}
	}

	glw, err := w.platform.createGLFWWindow(w)
	if err != nil {
		return nil, err
	}
	return &glxContext{window: w, glw: glw, api: req.API}, nil
}

func glfwBool(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

type glxContext struct {
	window *Window
	glw    *glfw.Window
	api    gpu.API
}

func (c *glxContext) BindSurface(width, height int) error {
	return guard("glfwSetWindowSize", func() {
		if w, h := c.glw.GetFramebufferSize(); w != width || h != height {
			c.glw.SetSize(width, height)
		}
	})
}

func (c *glxContext) MakeCurrent() error {
	return guard("glfwMakeContextCurrent", c.glw.MakeContextCurrent)
}

func (c *glxContext) SwapBuffers() error {
	return guard("glfwSwapBuffers", c.glw.SwapBuffers)
}

func (c *glxContext) SetSwapInterval(interval int) error {
	return guard("glfwSwapInterval", func() { glfw.SwapInterval(interval) })
}

func (c *glxContext) LoadGL() (gpu.GL, error) {
	return gldispatch.Load(c.api, func(name string) unsafe.Pointer {
		return glfw.GetProcAddress(name)
	})
}

// Destroy destroys the glfw window that owns the context.
func (c *glxContext) Destroy() error {
	if c.glw == nil {
		return nil
	}
	w := c.window
	w.platform.untrack(c.glw)
	err := guard("glfwDestroyWindow", c.glw.Destroy)
	if w.glw == c.glw {
		w.glw = nil
	}
	c.glw = nil
	return err
}
