//go:build windows

package wgl

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	opengl32 = windows.NewLazySystemDLL("opengl32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")
	d3d11DLL = windows.NewLazySystemDLL("d3d11.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procWglCreateContext    = opengl32.NewProc("wglCreateContext")
	procWglDeleteContext    = opengl32.NewProc("wglDeleteContext")
	procWglMakeCurrent      = opengl32.NewProc("wglMakeCurrent")
	procWglGetProcAddress   = opengl32.NewProc("wglGetProcAddress")
	procChoosePixelFormat   = gdi32.NewProc("ChoosePixelFormat")
	procSetPixelFormat      = gdi32.NewProc("SetPixelFormat")
	procDescribePixelFormat = gdi32.NewProc("DescribePixelFormat")
	procSwapBuffers         = gdi32.NewProc("SwapBuffers")
	procGetDC               = user32.NewProc("GetDC")
	procReleaseDC           = user32.NewProc("ReleaseDC")
	procCreateWindowExW     = user32.NewProc("CreateWindowExW")
	procDestroyWindow       = user32.NewProc("DestroyWindow")

	procD3D11CreateDeviceAndSwapChain = d3d11DLL.NewProc("D3D11CreateDeviceAndSwapChain")
	procWaitForSingleObjectEx         = kernel32.NewProc("WaitForSingleObjectEx")
)

// pixelFormatDescriptor matches PIXELFORMATDESCRIPTOR (40 bytes).
type pixelFormatDescriptor struct {
	Size           uint16
	Version        uint16
	Flags          uint32
	PixelType      uint8
	ColorBits      uint8
	RedBits        uint8
	RedShift       uint8
	GreenBits      uint8
	GreenShift     uint8
	BlueBits       uint8
	BlueShift      uint8
	AlphaBits      uint8
	AlphaShift     uint8
	AccumBits      uint8
	AccumRedBits   uint8
	AccumGreenBits uint8
	AccumBlueBits  uint8
	AccumAlphaBits uint8
	DepthBits      uint8
	StencilBits    uint8
	AuxBuffers     uint8
	LayerType      uint8
	Reserved       uint8
	LayerMask      uint32
	VisibleMask    uint32
	DamageMask     uint32
}

const (
	pfdDoubleBuffer       = 0x00000001
	pfdDrawToWindow       = 0x00000004
	pfdSupportOpenGL      = 0x00000020
	pfdGenericFormat      = 0x00000040
	pfdGenericAccelerated = 0x00001000
	pfdSupportComposition = 0x00008000
	pfdTypeRGBA           = 0
)

func describePixelFormat(dc uintptr, format int) (pixelFormatDescriptor, int, error) {
	var pfd pixelFormatDescriptor
	n, _, err := procDescribePixelFormat.Call(dc, uintptr(format), unsafe.Sizeof(pfd), uintptr(unsafe.Pointer(&pfd)))
	if n == 0 {
		return pfd, 0, lastErr("DescribePixelFormat", err)
	}
	return pfd, int(n), nil
}

func getDC(hwnd uintptr) (uintptr, error) {
	dc, _, err := procGetDC.Call(hwnd)
	if dc == 0 {
		return 0, lastErr("GetDC", err)
	}
	return dc, nil
}

func releaseDC(hwnd, dc uintptr) {
	procReleaseDC.Call(hwnd, dc)
}

func makeCurrent(dc, rc uintptr) error {
	ok, _, err := procWglMakeCurrent.Call(dc, rc)
	if ok == 0 {
		return lastErr("wglMakeCurrent", err)
	}
	return nil
}

func deleteContext(rc uintptr) error {
	ok, _, err := procWglDeleteContext.Call(rc)
	if ok == 0 {
		return lastErr("wglDeleteContext", err)
	}
	return nil
}

// getProcAddress resolves name through wglGetProcAddress and falls back to
// the opengl32 exports for GL 1.1 entry points.
func getProcAddress(name string) uintptr {
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return 0
	}
	p, _, _ := procWglGetProcAddress.Call(uintptr(unsafe.Pointer(cname)))
	switch p {
	case 0, 1, 2, 3, ^uintptr(0):
	default:
		return p
	}
	proc := opengl32.NewProc(name)
	if proc.Find() != nil {
		return 0
	}
	return proc.Addr()
}

// lastErr turns the error from a LazyProc call into a descriptive error,
// ignoring the success errno that Call always returns.
func lastErr(fn string, err error) error {
	if errno, ok := err.(syscall.Errno); ok && errno != 0 {
		return &callError{fn: fn, err: errno}
	}
	return &callError{fn: fn}
}

type callError struct {
	fn  string
	err error
}

func (e *callError) Error() string {
	if e.err == nil {
		return e.fn + " failed"
	}
	return e.fn + ": " + e.err.Error()
}

func (e *callError) Unwrap() error { return e.err }
