//go:build windows

package wgl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/1broseidon/fluxsaver/internal/gldispatch"
	"github.com/1broseidon/fluxsaver/internal/gpu"
)

const (
	wglNumberPixelFormats     = 0x2000
	wglDrawToWindow           = 0x2001
	wglAcceleration           = 0x2003
	wglSupportOpenGL          = 0x2010
	wglDoubleBuffer           = 0x2011
	wglPixelType              = 0x2013
	wglRedBits                = 0x2015
	wglGreenBits              = 0x2017
	wglBlueBits               = 0x2019
	wglAlphaBits              = 0x201B
	wglDepthBits              = 0x2022
	wglStencilBits            = 0x2023
	wglFullAcceleration       = 0x2027
	wglTypeRGBA               = 0x202B
	wglTypeRGBAFloat          = 0x21A0
	wglSamples                = 0x2042
	wglFramebufferSRGBCapable = 0x20A9

	wglContextMajorVersion = 0x2091
	wglContextMinorVersion = 0x2092
	wglContextProfileMask  = 0x9126
	wglContextCoreProfile  = 0x0001
	wglContextES2Profile   = 0x0004
)

// extensions holds the WGL extension entry points, resolved once through a
// throwaway context.
type extensions struct {
	names string

	getExtensionsString  uintptr
	getPixelFormatAttrib uintptr
	createContextAttribs uintptr
	swapInterval         uintptr

	dxOpenDevice       uintptr
	dxCloseDevice      uintptr
	dxRegisterObject   uintptr
	dxUnregisterObject uintptr
	dxLockObjects      uintptr
	dxUnlockObjects    uintptr
}

func (e *extensions) has(name string) bool {
	for _, n := range strings.Fields(e.names) {
		if n == name {
			return true
		}
	}
	return false
}

// Driver enumerates pixel formats and creates contexts for one window.
type Driver struct {
	hwnd   uintptr
	dc     uintptr
	logger *slog.Logger
	ext    extensions
	format int
}

// NewDriver prepares a driver for hwnd. The window must not already have a
// pixel format from another API.
func NewDriver(hwnd uintptr, logger *slog.Logger) (*Driver, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	dc, err := getDC(hwnd)
	if err != nil {
		return nil, err
	}
	d := &Driver{hwnd: hwnd, dc: dc, logger: logger}
	if err := d.loadExtensions(); err != nil {
		logger.Warn("WGL extensions unavailable, falling back to legacy pixel formats", "error", err)
	}
	return d, nil
}

// loadExtensions resolves WGL extension pointers through a dummy window
// because a window's pixel format can only be set once.
func (d *Driver) loadExtensions() error {
	class, _ := windows.UTF16PtrFromString("STATIC")
	title, _ := windows.UTF16PtrFromString("fluxsaver-wgl-probe")
	hwnd, _, err := procCreateWindowExW.Call(0,
		uintptr(unsafe.Pointer(class)), uintptr(unsafe.Pointer(title)),
		0, 0, 0, 1, 1, 0, 0, 0, 0)
	if hwnd == 0 {
		return lastErr("CreateWindowExW", err)
	}
	defer procDestroyWindow.Call(hwnd)

	dc, err := getDC(hwnd)
	if err != nil {
		return err
	}
	defer releaseDC(hwnd, dc)

	pfd := pixelFormatDescriptor{
		Version:   1,
		Flags:     pfdDrawToWindow | pfdSupportOpenGL | pfdDoubleBuffer,
		PixelType: pfdTypeRGBA,
		ColorBits: 32,
		DepthBits: 24,
	}
	pfd.Size = uint16(unsafe.Sizeof(pfd))
	format, _, err := procChoosePixelFormat.Call(dc, uintptr(unsafe.Pointer(&pfd)))
	if format == 0 {
		return lastErr("ChoosePixelFormat", err)
	}
	if ok, _, err := procSetPixelFormat.Call(dc, format, uintptr(unsafe.Pointer(&pfd))); ok == 0 {
		return lastErr("SetPixelFormat", err)
	}
	rc, _, err := procWglCreateContext.Call(dc)
	if rc == 0 {
		return lastErr("wglCreateContext", err)
	}
	defer deleteContext(rc)
	if err := makeCurrent(dc, rc); err != nil {
		return err
	}
	defer makeCurrent(0, 0)

	e := extensions{
		getExtensionsString:  getProcAddress("wglGetExtensionsStringARB"),
		getPixelFormatAttrib: getProcAddress("wglGetPixelFormatAttribivARB"),
		createContextAttribs: getProcAddress("wglCreateContextAttribsARB"),
		swapInterval:         getProcAddress("wglSwapIntervalEXT"),
		dxOpenDevice:         getProcAddress("wglDXOpenDeviceNV"),
		dxCloseDevice:        getProcAddress("wglDXCloseDeviceNV"),
		dxRegisterObject:     getProcAddress("wglDXRegisterObjectNV"),
		dxUnregisterObject:   getProcAddress("wglDXUnregisterObjectNV"),
		dxLockObjects:        getProcAddress("wglDXLockObjectsNV"),
		dxUnlockObjects:      getProcAddress("wglDXUnlockObjectsNV"),
	}
	if e.getExtensionsString != 0 {
		p, _, _ := syscall.SyscallN(e.getExtensionsString, d.dc)
		if p != 0 {
			e.names = windows.BytePtrToString((*byte)(unsafe.Pointer(p)))
		}
	}
	d.ext = e
	d.logger.Debug("loaded WGL extensions", "extensions", e.names)
	return nil
}

// Configs enumerates the window-renderable, double-buffered, accelerated
// pixel formats in driver order.
func (d *Driver) Configs() ([]gpu.PixelConfig, error) {
	if d.ext.getPixelFormatAttrib != 0 {
		return d.configsARB()
	}
	return d.configsLegacy()
}

var arbAttribs = []int32{
	wglDrawToWindow, wglSupportOpenGL, wglDoubleBuffer, wglAcceleration, wglPixelType,
	wglRedBits, wglGreenBits, wglBlueBits, wglAlphaBits, wglDepthBits, wglStencilBits,
	wglSamples, wglFramebufferSRGBCapable,
}

func (d *Driver) configsARB() ([]gpu.PixelConfig, error) {
	count, err := d.pixelFormatAttribs(1, []int32{wglNumberPixelFormats})
	if err != nil {
		return nil, err
	}

	var configs []gpu.PixelConfig
	for format := 1; format <= int(count[0]); format++ {
		v, err := d.pixelFormatAttribs(format, arbAttribs)
		if err != nil {
			// Samples and sRGB are optional; retry without them.
			v, err = d.pixelFormatAttribs(format, arbAttribs[:len(arbAttribs)-2])
			if err != nil {
				continue
			}
			v = append(v, 0, 0)
		}
		if v[0] == 0 || v[1] == 0 || v[2] == 0 || v[3] != wglFullAcceleration {
			continue
		}
		if v[4] != wglTypeRGBA && v[4] != wglTypeRGBAFloat {
			continue
		}
		configs = append(configs, gpu.PixelConfig{
			Index:                len(configs),
			NativeID:             format,
			RedSize:              uint8(v[5]),
			GreenSize:            uint8(v[6]),
			BlueSize:             uint8(v[7]),
			AlphaSize:            uint8(v[8]),
			DepthSize:            uint8(v[9]),
			StencilSize:          uint8(v[10]),
			Samples:              uint8(v[11]),
			SRGBCapable:          v[12] != 0,
			FloatPixels:          v[4] == wglTypeRGBAFloat,
			SupportsTransparency: v[8] > 0,
			HardwareAccelerated:  true,
		})
	}
	return configs, nil
}

func (d *Driver) pixelFormatAttribs(format int, attribs []int32) ([]int32, error) {
	values := make([]int32, len(attribs))
	ok, _, err := syscall.SyscallN(d.ext.getPixelFormatAttrib, d.dc, uintptr(format), 0,
		uintptr(len(attribs)), uintptr(unsafe.Pointer(&attribs[0])), uintptr(unsafe.Pointer(&values[0])))
	if ok == 0 {
		return nil, lastErr("wglGetPixelFormatAttribivARB", err)
	}
	return values, nil
}

func (d *Driver) configsLegacy() ([]gpu.PixelConfig, error) {
	_, count, err := describePixelFormat(d.dc, 1)
	if err != nil {
		return nil, err
	}
	var configs []gpu.PixelConfig
	for format := 1; format <= count; format++ {
		pfd, _, err := describePixelFormat(d.dc, format)
		if err != nil {
			continue
		}
		const want = pfdDrawToWindow | pfdSupportOpenGL | pfdDoubleBuffer
		if pfd.Flags&want != want || pfd.PixelType != pfdTypeRGBA {
			continue
		}
		if pfd.Flags&pfdGenericFormat != 0 && pfd.Flags&pfdGenericAccelerated == 0 {
			continue
		}
		configs = append(configs, gpu.PixelConfig{
			Index:                len(configs),
			NativeID:             format,
			RedSize:              pfd.RedBits,
			GreenSize:            pfd.GreenBits,
			BlueSize:             pfd.BlueBits,
			AlphaSize:            pfd.AlphaBits,
			DepthSize:            pfd.DepthBits,
			StencilSize:          pfd.StencilBits,
			SupportsTransparency: pfd.AlphaBits > 0 && pfd.Flags&pfdSupportComposition != 0,
			HardwareAccelerated:  true,
		})
	}
	return configs, nil
}

// CreateContext sets cfg as the window's pixel format and creates a context
// at the requested capability level.
func (d *Driver) CreateContext(cfg gpu.PixelConfig, req gpu.ContextRequest) (gpu.Context, error) {
	if err := d.setFormat(cfg.NativeID); err != nil {
		return nil, err
	}
	if d.ext.createContextAttribs == 0 {
		return nil, errors.New("WGL_ARB_create_context is not supported")
	}

	attribs := []int32{
		wglContextMajorVersion, int32(req.Major),
		wglContextMinorVersion, int32(req.Minor),
	}
	switch {
	case req.API == gpu.APIOpenGLES:
		if !d.ext.has("WGL_EXT_create_context_es2_profile") {
			return nil, errors.New("WGL_EXT_create_context_es2_profile is not supported")
		}
		attribs = append(attribs, wglContextProfileMask, wglContextES2Profile)
	case req.Core:
		attribs = append(attribs, wglContextProfileMask, wglContextCoreProfile)
	}
	attribs = append(attribs, 0)

	rc, _, err := syscall.SyscallN(d.ext.createContextAttribs, d.dc, 0, uintptr(unsafe.Pointer(&attribs[0])))
	if rc == 0 {
		return nil, fmt.Errorf("create %s context: %w", req, lastErr("wglCreateContextAttribsARB", err))
	}
	return &Context{driver: d, rc: rc, api: req.API}, nil
}

func (d *Driver) setFormat(format int) error {
	if d.format == format {
		return nil
	}
	if d.format != 0 {
		return fmt.Errorf("window already uses pixel format %d, cannot switch to %d", d.format, format)
	}
	pfd, _, err := describePixelFormat(d.dc, format)
	if err != nil {
		return err
	}
	if ok, _, err := procSetPixelFormat.Call(d.dc, uintptr(format), uintptr(unsafe.Pointer(&pfd))); ok == 0 {
		return lastErr("SetPixelFormat", err)
	}
	d.format = format
	return nil
}

// Interop returns the WGL_NV_DX_interop entry points resolved for this
// driver.
func (d *Driver) Interop() *Interop {
	return &Interop{ext: &d.ext}
}

// Release returns the window's device context.
func (d *Driver) Release() {
	if d.dc != 0 {
		releaseDC(d.hwnd, d.dc)
		d.dc = 0
	}
}

// Context is a WGL rendering context bound to the driver's window.
type Context struct {
	driver *Driver
	rc     uintptr
	api    gpu.API
}

// BindSurface is a no-op: a WGL context always draws to its window.
func (c *Context) BindSurface(width, height int) error { return nil }

func (c *Context) MakeCurrent() error { return makeCurrent(c.driver.dc, c.rc) }

func (c *Context) SwapBuffers() error {
	if ok, _, err := procSwapBuffers.Call(c.driver.dc); ok == 0 {
		return lastErr("SwapBuffers", err)
	}
	return nil
}

func (c *Context) SetSwapInterval(interval int) error {
	if c.driver.ext.swapInterval == 0 {
		return errors.New("WGL_EXT_swap_control is not supported")
	}
	if ok, _, err := syscall.SyscallN(c.driver.ext.swapInterval, uintptr(interval)); ok == 0 {
		return lastErr("wglSwapIntervalEXT", err)
	}
	return nil
}

func (c *Context) LoadGL() (gpu.GL, error) {
	return gldispatch.Load(c.api, func(name string) unsafe.Pointer {
		p := getProcAddress(name)
		return *(*unsafe.Pointer)(unsafe.Pointer(&p))
	})
}

func (c *Context) Destroy() error {
	if c.rc == 0 {
		return nil
	}
	makeCurrent(0, 0)
	err := deleteContext(c.rc)
	c.rc = 0
	return err
}
