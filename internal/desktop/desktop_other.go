//go:build !linux && !windows

package desktop

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/fluxsaver/internal/gpu"
	"github.com/1broseidon/fluxsaver/internal/platform"
	"github.com/1broseidon/fluxsaver/internal/surface"
)

func preferHighPerformanceGPU() error { return nil }

func prepareProcess(*slog.Logger) {}

type native struct{}

func newNative(*slog.Logger) (*native, error) {
	return nil, fmt.Errorf("desktop: %w", platform.ErrPlatformUnsupported)
}

func (n *native) monitors() ([]surface.MonitorDescriptor, error) {
	return nil, platform.ErrPlatformUnsupported
}

func (n *native) initWindow(*Window) error { return platform.ErrPlatformUnsupported }

func (n *native) attachPreview(*Platform, uintptr, platform.WindowOptions) (*Window, error) {
	return nil, platform.ErrPlatformUnsupported
}

func (n *native) hostAlive(uintptr) bool { return false }

func (n *native) close() {}

type windowNative struct{}

func (n *windowNative) afterShow(*Window) {}

func (n *windowNative) release() {}

func (w *Window) Driver() (gpu.Driver, error) { return nil, platform.ErrPlatformUnsupported }

func (w *Window) Interop() (gpu.Interop, gpu.PresenterFactory, error) {
	return nil, nil, platform.ErrPlatformUnsupported
}
