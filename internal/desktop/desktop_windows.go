//go:build windows

package desktop

import (
	"fmt"
	"log/slog"
	"os"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/1broseidon/fluxsaver/internal/gpu"
	"github.com/1broseidon/fluxsaver/internal/platform"
	"github.com/1broseidon/fluxsaver/internal/surface"
	"github.com/1broseidon/fluxsaver/internal/wgl"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetProcessDPIAware            = user32.NewProc("SetProcessDPIAware")
	procGetDpiForWindow               = user32.NewProc("GetDpiForWindow")
	procSetParent                     = user32.NewProc("SetParent")
	procSetWindowLongPtrW             = user32.NewProc("SetWindowLongPtrW")
	procSetWindowPos                  = user32.NewProc("SetWindowPos")
	procGetClientRect                 = user32.NewProc("GetClientRect")
	procIsWindow                      = user32.NewProc("IsWindow")
	procCreateRectRgn                 = gdi32.NewProc("CreateRectRgn")
	procDeleteObject                  = gdi32.NewProc("DeleteObject")
	procDwmEnableBlurBehindWindow     = dwmapi.NewProc("DwmEnableBlurBehindWindow")
)

const (
	gpuPreferencesKey      = `Software\Microsoft\DirectX\UserGpuPreferences`
	gpuPreferenceHighPerf  = "GpuPreference=2;"
	dpiAwarenessPerMonitor = ^uintptr(3) // DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 (-4)
	defaultDPI             = 96

	gwlStyle        = ^uintptr(15) // GWL_STYLE (-16)
	wsChild         = 0x40000000
	wsClipSiblings  = 0x04000000
	swpNoZOrder     = 0x0004
	swpNoActivate   = 0x0010
	swpFrameChanged = 0x0020

	dwmBBEnable     = 0x1
	dwmBBBlurRegion = 0x2
)

type winRect struct {
	Left, Top, Right, Bottom int32
}

// dwmBlurBehind matches DWM_BLURBEHIND.
type dwmBlurBehind struct {
	Flags                 uint32
	Enable                int32
	RgnBlur               uintptr
	TransitionOnMaximized int32
}

// preferHighPerformanceGPU records a per-application GPU preference, the
// same value the Windows graphics settings page writes.
func preferHighPerformanceGPU() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	key, _, err := registry.CreateKey(registry.CURRENT_USER, gpuPreferencesKey, registry.SET_VALUE|registry.QUERY_VALUE)
	if err != nil {
		return &platform.CallError{Call: "RegCreateKeyEx", Err: err}
	}
	defer key.Close()
	if current, _, err := key.GetStringValue(exe); err == nil && current == gpuPreferenceHighPerf {
		return nil
	}
	if err := key.SetStringValue(exe, gpuPreferenceHighPerf); err != nil {
		return &platform.CallError{Call: "RegSetValueEx", Err: err}
	}
	return nil
}

// prepareProcess opts into per-monitor DPI awareness so monitor bounds and
// window sizes are physical pixels.
func prepareProcess(logger *slog.Logger) {
	if procSetProcessDpiAwarenessContext.Find() == nil {
		ok, _, err := procSetProcessDpiAwarenessContext.Call(dpiAwarenessPerMonitor)
		if ok != 0 {
			return
		}
		logger.Debug("per-monitor DPI awareness unavailable", "error", err)
	}
	if ok, _, err := procSetProcessDPIAware.Call(); ok == 0 {
		logger.Warn("failed to enable DPI awareness", "error", err)
	}
}

type native struct {
	logger *slog.Logger
}

func newNative(logger *slog.Logger) (*native, error) {
	return &native{logger: logger}, nil
}

func (n *native) monitors() (out []surface.MonitorDescriptor, err error) {
	err = guard("glfwGetMonitors", func() {
		for _, m := range glfw.GetMonitors() {
			mode := m.GetVideoMode()
			if mode == nil {
				continue
			}
			x, y := m.GetPos()
			scale, _ := m.GetContentScale()
			out = append(out, surface.MonitorDescriptor{
				ID:          m.GetName(),
				Name:        m.GetName(),
				Bounds:      surface.Rect{X: x, Y: y, Width: mode.Width, Height: mode.Height},
				ScaleFactor: float64(scale),
			})
		}
	})
	return out, err
}

func (n *native) initWindow(w *Window) error {
	baseHints(w.opts.Transparent)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glw, err := w.platform.createGLFWWindow(w)
	if err != nil {
		return err
	}
	w.native.hwnd = uintptr(unsafe.Pointer(glw.GetWin32Window()))
	w.native.logger = n.logger
	if w.opts.Transparent {
		if err := enableBlurBehind(w.native.hwnd); err != nil {
			n.logger.Warn("failed to enable window transparency", "error", err)
		}
	}
	return nil
}

// attachPreview creates a child window of host sized to its client area.
func (n *native) attachPreview(p *Platform, host uintptr, opts platform.WindowOptions) (*Window, error) {
	if !n.hostAlive(host) {
		return nil, &platform.CallError{Call: "IsWindow", Err: fmt.Errorf("preview host %#x does not exist", host)}
	}
	var rect winRect
	if ok, _, err := procGetClientRect.Call(host, uintptr(unsafe.Pointer(&rect))); ok == 0 {
		return nil, &platform.CallError{Call: "GetClientRect", Err: err}
	}
	dpi := uintptr(defaultDPI)
	if procGetDpiForWindow.Find() == nil {
		if d, _, _ := procGetDpiForWindow.Call(host); d != 0 {
			dpi = d
		}
	}
	bounds := surface.Rect{Width: int(rect.Right - rect.Left), Height: int(rect.Bottom - rect.Top)}
	s, err := surface.New(bounds, float64(dpi)/defaultDPI, "")
	if err != nil {
		return nil, fmt.Errorf("preview surface: %w", err)
	}

	w := &Window{platform: p, surf: s, opts: opts}
	if err := n.initWindow(w); err != nil {
		return nil, err
	}
	hwnd := w.native.hwnd
	procSetWindowLongPtrW.Call(hwnd, gwlStyle, wsChild|wsClipSiblings)
	if prev, _, err := procSetParent.Call(hwnd, host); prev == 0 && err != windows.ERROR_SUCCESS {
		w.Close()
		return nil, &platform.CallError{Call: "SetParent", Err: err}
	}
	procSetWindowPos.Call(hwnd, 0, 0, 0, uintptr(bounds.Width), uintptr(bounds.Height),
		swpNoZOrder|swpNoActivate|swpFrameChanged)
	return w, nil
}

func (n *native) hostAlive(host uintptr) bool {
	ok, _, _ := procIsWindow.Call(host)
	return ok != 0
}

func (n *native) close() {}

// enableBlurBehind lets DWM compose the window's alpha channel. An empty
// blur region keeps the desktop unblurred behind the fade-in.
func enableBlurBehind(hwnd uintptr) error {
	rgn, _, err := procCreateRectRgn.Call(0, 0, ^uintptr(0), ^uintptr(0))
	if rgn == 0 {
		return &platform.CallError{Call: "CreateRectRgn", Err: err}
	}
	defer procDeleteObject.Call(rgn)
	bb := dwmBlurBehind{Flags: dwmBBEnable | dwmBBBlurRegion, Enable: 1, RgnBlur: rgn}
	if hr, _, _ := procDwmEnableBlurBehindWindow.Call(hwnd, uintptr(unsafe.Pointer(&bb))); int32(hr) < 0 {
		return &platform.CallError{Call: "DwmEnableBlurBehindWindow", Err: fmt.Errorf("HRESULT %#x", uint32(hr))}
	}
	return nil
}

// windowNative holds the WGL driver created for the window on demand.
type windowNative struct {
	hwnd   uintptr
	logger *slog.Logger
	driver *wgl.Driver
}

// Driver returns the WGL driver for the window, creating it on first use.
func (w *Window) Driver() (gpu.Driver, error) {
	if w.native.driver == nil {
		d, err := wgl.NewDriver(w.native.hwnd, w.native.logger)
		if err != nil {
			return nil, err
		}
		w.native.driver = d
	}
	return w.native.driver, nil
}

// Interop returns the NV_DX_interop extension and a DXGI presenter factory
// for the window.
func (w *Window) Interop() (gpu.Interop, gpu.PresenterFactory, error) {
	if w.native.driver == nil {
		return nil, nil, &platform.CallError{Call: "interop", Err: fmt.Errorf("no context driver")}
	}
	factory := wgl.NewPresenterFactory(w.native.hwnd, wgl.PresenterOptions{
		VSync:            w.opts.VSync,
		FrameLatencyWait: w.opts.FrameLatencyWait,
	})
	return w.native.driver.Interop(), factory, nil
}

func (n *windowNative) afterShow(*Window) {}

func (n *windowNative) release() {
	if n.driver != nil {
		n.driver.Release()
		n.driver = nil
	}
}
