//go:build windows

package wallpaper

import (
	"errors"
	"fmt"
	"log/slog"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/1broseidon/fluxsaver/internal/surface"
)

var (
	ole32  = windows.NewLazySystemDLL("ole32.dll")
	user32 = windows.NewLazySystemDLL("user32.dll")

	procCoCreateInstance      = ole32.NewProc("CoCreateInstance")
	procSystemParametersInfoW = user32.NewProc("SystemParametersInfoW")

	clsidDesktopWallpaper = windows.GUID{Data1: 0xC2CF3110, Data2: 0x460E, Data3: 0x4fc1, Data4: [8]byte{0xB9, 0xD0, 0x8A, 0x1C, 0x0C, 0x9C, 0xC4, 0xBD}}
	iidIDesktopWallpaper  = windows.GUID{Data1: 0xB92B56A9, Data2: 0x8B55, Data3: 0x4E14, Data4: [8]byte{0x9A, 0x89, 0x01, 0x99, 0xBB, 0xB6, 0xF9, 0x3B}}
)

const (
	clsctxAll           = 0x17
	coinitApartment     = 0x2
	spiGetDeskWallpaper = 0x0073
	maxPath             = 260

	// IDesktopWallpaper vtable indices.
	dwGetWallpaper              = 4
	dwGetMonitorDevicePathAt    = 5
	dwGetMonitorDevicePathCount = 6
	dwGetMonitorRECT            = 7
	unknownRelease              = 2
)

type rect struct {
	Left, Top, Right, Bottom int32
}

// DesktopWallpaperResolver asks the shell's IDesktopWallpaper for the image
// on each monitor, matching monitors by their desktop rectangle.
type DesktopWallpaperResolver struct {
	logger *slog.Logger
	shell  uintptr
	uninit bool
}

// NewSystemResolver initializes COM on the calling thread and connects to
// the shell. Close releases both.
func NewSystemResolver(logger *slog.Logger) (Resolver, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &DesktopWallpaperResolver{logger: logger}
	// S_FALSE means COM was already initialized on this thread; it still
	// needs a matching CoUninitialize.
	if err := windows.CoInitializeEx(0, coinitApartment); err == nil || errors.Is(err, syscall.Errno(1)) {
		r.uninit = true
	} else {
		logger.Debug("CoInitializeEx failed, continuing with the existing apartment", "error", err)
	}

	hr, _, _ := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&clsidDesktopWallpaper)), 0, clsctxAll,
		uintptr(unsafe.Pointer(&iidIDesktopWallpaper)), uintptr(unsafe.Pointer(&r.shell)))
	if int32(hr) < 0 {
		logger.Info("IDesktopWallpaper unavailable, using the single desktop wallpaper", "hresult", fmt.Sprintf("0x%08X", uint32(hr)))
		r.shell = 0
	}
	return r, nil
}

func (r *DesktopWallpaperResolver) Resolve(m surface.MonitorDescriptor) (string, error) {
	if r.shell != 0 {
		path, err := r.fromShell(m)
		if err == nil {
			return path, nil
		}
		r.logger.Debug("IDesktopWallpaper lookup failed, falling back", "monitor", m.Name, "error", err)
	}
	path, err := systemWallpaper()
	if err != nil {
		return "", &ResourceError{Monitor: m.Name, Err: err}
	}
	return path, nil
}

func (r *DesktopWallpaperResolver) fromShell(m surface.MonitorDescriptor) (string, error) {
	var count uint32
	if err := r.call(dwGetMonitorDevicePathCount, "GetMonitorDevicePathCount", uintptr(unsafe.Pointer(&count))); err != nil {
		return "", err
	}
	for i := uint32(0); i < count; i++ {
		var id *uint16
		if err := r.call(dwGetMonitorDevicePathAt, "GetMonitorDevicePathAt", uintptr(i), uintptr(unsafe.Pointer(&id))); err != nil {
			continue
		}
		path, ok, err := r.wallpaperIfMatches(id, m.Bounds)
		windows.CoTaskMemFree(unsafe.Pointer(id))
		if err != nil {
			return "", err
		}
		if ok {
			return path, nil
		}
	}
	return "", errors.New("no shell monitor matches " + m.Name)
}

func (r *DesktopWallpaperResolver) wallpaperIfMatches(id *uint16, bounds surface.Rect) (string, bool, error) {
	var rc rect
	if err := r.call(dwGetMonitorRECT, "GetMonitorRECT", uintptr(unsafe.Pointer(id)), uintptr(unsafe.Pointer(&rc))); err != nil {
		return "", false, nil
	}
	if int(rc.Left) != bounds.X || int(rc.Top) != bounds.Y || int(rc.Right) != bounds.Right() || int(rc.Bottom) != bounds.Bottom() {
		return "", false, nil
	}
	var wp *uint16
	if err := r.call(dwGetWallpaper, "GetWallpaper", uintptr(unsafe.Pointer(id)), uintptr(unsafe.Pointer(&wp))); err != nil {
		return "", true, err
	}
	defer windows.CoTaskMemFree(unsafe.Pointer(wp))
	path := windows.UTF16PtrToString(wp)
	if path == "" {
		return "", true, errors.New("monitor has no wallpaper")
	}
	return path, true, nil
}

func (r *DesktopWallpaperResolver) call(idx int, name string, args ...uintptr) error {
	vtbl := *(*uintptr)(unsafe.Pointer(r.shell))
	fn := *(*uintptr)(unsafe.Pointer(vtbl + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
	hr, _, _ := syscall.SyscallN(fn, append([]uintptr{r.shell}, args...)...)
	if int32(hr) < 0 {
		return fmt.Errorf("IDesktopWallpaper::%s: HRESULT 0x%08X", name, uint32(hr))
	}
	return nil
}

// Close releases the shell object and COM.
func (r *DesktopWallpaperResolver) Close() error {
	if r.shell != 0 {
		vtbl := *(*uintptr)(unsafe.Pointer(r.shell))
		release := *(*uintptr)(unsafe.Pointer(vtbl + unknownRelease*unsafe.Sizeof(uintptr(0))))
		syscall.SyscallN(release, r.shell)
		r.shell = 0
	}
	if r.uninit {
		windows.CoUninitialize()
		r.uninit = false
	}
	return nil
}

func systemWallpaper() (string, error) {
	buf := make([]uint16, maxPath)
	ok, _, err := procSystemParametersInfoW.Call(spiGetDeskWallpaper, uintptr(len(buf)), uintptr(unsafe.Pointer(&buf[0])), 0)
	if ok == 0 {
		return "", fmt.Errorf("SystemParametersInfoW(SPI_GETDESKWALLPAPER): %w", err)
	}
	path := windows.UTF16ToString(buf)
	if path == "" {
		return "", errors.New("no desktop wallpaper set")
	}
	return path, nil
}
