package gpu

import (
	"fmt"
	"strings"
)

// PixelConfig describes one pixel format or framebuffer configuration offered
// by a driver for the target window.
type PixelConfig struct {
	// Index is the position in the driver's enumeration order.
	Index int
	// NativeID is the driver's own identifier (pixel format number, FBConfig ID).
	NativeID int

	RedSize     uint8
	GreenSize   uint8
	BlueSize    uint8
	AlphaSize   uint8
	DepthSize   uint8
	StencilSize uint8
	Samples     uint8

	FloatPixels          bool
	SRGBCapable          bool
	SupportsTransparency bool
	HardwareAccelerated  bool
}

// String renders the attributes logged for diagnostics.
func (c PixelConfig) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config #%d (native %d): ", c.Index, c.NativeID)
	fmt.Fprintf(&b, "rgb=%d/%d/%d ", c.RedSize, c.GreenSize, c.BlueSize)
	fmt.Fprintf(&b, "alpha=%d depth=%d stencil=%d samples=%d ", c.AlphaSize, c.DepthSize, c.StencilSize, c.Samples)
	fmt.Fprintf(&b, "float=%t srgb=%t transparency=%t hardware=%t",
		c.FloatPixels, c.SRGBCapable, c.SupportsTransparency, c.HardwareAccelerated)
	return b.String()
}

// rank orders configurations: transparency first, then alpha depth, then
// fewer samples, then earlier enumeration. Antialiasing is done by the engine,
// so implicit multisampling is avoided.
type rank struct {
	transparency bool
	alpha        uint8
	samples      uint8
	index        int
}

func rankOf(c PixelConfig) rank {
	return rank{
		transparency: c.SupportsTransparency,
		alpha:        c.AlphaSize,
		samples:      c.Samples,
		index:        c.Index,
	}
}

// better reports whether r ranks strictly above o.
func (r rank) better(o rank) bool {
	if r.transparency != o.transparency {
		return r.transparency
	}
	if r.alpha != o.alpha {
		return r.alpha > o.alpha
	}
	if r.samples != o.samples {
		return r.samples < o.samples
	}
	return r.index < o.index
}

// SelectConfig returns the best ranked configuration. Index is rewritten to
// the slice position so ties always resolve toward the first enumerated entry.
func SelectConfig(configs []PixelConfig) (PixelConfig, error) {
	if len(configs) == 0 {
		return PixelConfig{}, ErrConfiguration
	}
	best := configs[0]
	best.Index = 0
	for i := 1; i < len(configs); i++ {
		c := configs[i]
		c.Index = i
		if rankOf(c).better(rankOf(best)) {
			best = c
		}
	}
	return best, nil
}
