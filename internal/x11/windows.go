package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// CoverArea keeps a screensaver window above other windows and stretches it
// over the given root-relative rectangle, which may span several monitors.
func (c *Connection) CoverArea(windowID xproto.Window, x, y, width, height int) error {
	// Not every WM implements EWMH; geometry still applies without it.
	_ = ewmh.WmStateReqExtra(c.XUtil, windowID, ewmh.StateAdd, "_NET_WM_STATE_ABOVE", "_NET_WM_STATE_SKIP_TASKBAR", 2)

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}
