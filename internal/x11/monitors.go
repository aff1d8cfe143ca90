package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/fluxsaver/internal/surface"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	// Initialize RandR if not already done
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	// Get screen resources
	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		// Get output name
		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// Descriptors returns the active monitors with the desktop scale factor.
// Mirrored outputs share a CRTC and so appear once.
func (c *Connection) Descriptors() ([]surface.MonitorDescriptor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	return descriptorsFromMonitors(monitors, c.ScaleFactor()), nil
}

func descriptorsFromMonitors(monitors []Monitor, scale float64) []surface.MonitorDescriptor {
	out := make([]surface.MonitorDescriptor, 0, len(monitors))
	for _, m := range monitors {
		if m.Width <= 0 || m.Height <= 0 {
			continue
		}
		out = append(out, surface.MonitorDescriptor{
			ID:          m.Name,
			Name:        m.Name,
			Bounds:      surface.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			ScaleFactor: scale,
		})
	}
	return out
}
