package x11

import (
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil  *xgbutil.XUtil
	Root   xproto.Window
	Screen int
}

// NewConnection establishes a connection to the X11 server
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	// EWMH and RandR extensions are initialized automatically by xgbutil

	return &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		Screen: xu.Conn().DefaultScreen,
	}, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// Resources returns the X resource database (xrdb) stored on the root
// window, keyed by resource name.
func (c *Connection) Resources() (map[string]string, error) {
	value, err := xprop.PropValStr(xprop.GetProperty(c.XUtil, c.Root, "RESOURCE_MANAGER"))
	if err != nil {
		return nil, err
	}
	return parseResources(value), nil
}

func parseResources(db string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(db, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return out
}

// ScaleFactor derives the desktop scale from Xft.dpi, the setting desktop
// environments use for HiDPI. It returns 1 when Xft.dpi is absent.
func (c *Connection) ScaleFactor() float64 {
	res, err := c.Resources()
	if err != nil {
		return 1
	}
	return scaleFromResources(res)
}

func scaleFromResources(res map[string]string) float64 {
	dpi, err := strconv.ParseFloat(res["Xft.dpi"], 64)
	if err != nil || dpi <= 0 {
		return 1
	}
	return dpi / 96
}
