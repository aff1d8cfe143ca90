// Package surface models the rendering targets of a screensaver session and
// merges physical monitors into combined surfaces.
package surface

import (
	"errors"
	"fmt"
	"math"
)

// ErrZeroSize is returned when a surface would have no pixels.
var ErrZeroSize = errors.New("surface has zero physical size")

// Rect describes a rectangular region in virtual-desktop coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Union returns the bounding rectangle of r and o.
func (r Rect) Union(o Rect) Rect {
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.Right(), o.Right())
	y2 := max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// MonitorDescriptor is one OS-reported display.
type MonitorDescriptor struct {
	// ID is the platform identity of the monitor, used for wallpaper lookups.
	ID          string
	Name        string
	Bounds      Rect
	ScaleFactor float64
}

// Point is a physical position.
type Point struct {
	X int32
	Y int32
}

// Size is a pixel extent.
type Size struct {
	Width  uint32
	Height uint32
}

// Surface is a logical rendering target: one monitor or a merged group of
// monitors. Surfaces are immutable once created.
type Surface struct {
	Position    Point
	Size        Size
	ScaleFactor float64
	// Wallpaper is the desktop background image path, empty when unknown.
	Wallpaper string
}

// New validates and builds a Surface.
func New(bounds Rect, scale float64, wallpaper string) (Surface, error) {
	if bounds.Empty() {
		return Surface{}, fmt.Errorf("%w: %dx%d", ErrZeroSize, bounds.Width, bounds.Height)
	}
	if !validScale(scale) {
		return Surface{}, fmt.Errorf("invalid scale factor %v", scale)
	}
	return Surface{
		Position:    Point{X: int32(bounds.X), Y: int32(bounds.Y)},
		Size:        Size{Width: uint32(bounds.Width), Height: uint32(bounds.Height)},
		ScaleFactor: scale,
		Wallpaper:   wallpaper,
	}, nil
}

// Bounds returns the physical rectangle covered by the surface.
func (s Surface) Bounds() Rect {
	return Rect{
		X:      int(s.Position.X),
		Y:      int(s.Position.Y),
		Width:  int(s.Size.Width),
		Height: int(s.Size.Height),
	}
}

// LogicalSize converts the physical size to device-independent pixels,
// rounding to the nearest pixel. The result is never smaller than 1x1.
func (s Surface) LogicalSize() Size {
	return LogicalSize(s.Size, s.ScaleFactor)
}

// LogicalSize divides a physical size by scale, rounding to nearest.
func LogicalSize(physical Size, scale float64) Size {
	if !validScale(scale) {
		scale = 1
	}
	return Size{
		Width:  uint32(max(1, math.Round(float64(physical.Width)/scale))),
		Height: uint32(max(1, math.Round(float64(physical.Height)/scale))),
	}
}

func validScale(scale float64) bool {
	return scale > 0 && !math.IsInf(scale, 0) && !math.IsNaN(scale)
}
