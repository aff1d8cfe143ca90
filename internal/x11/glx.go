package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/glx"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/fluxsaver/internal/gpu"
)

// GLX attribute names as reported by GetFBConfigs.
const (
	glxDoubleBuffer     = 5
	glxRedSize          = 8
	glxGreenSize        = 9
	glxBlueSize         = 10
	glxAlphaSize        = 11
	glxDepthSize        = 12
	glxStencilSize      = 13
	glxConfigCaveat     = 0x20
	glxVisualID         = 0x800B
	glxDrawableType     = 0x8010
	glxRenderType       = 0x8011
	glxXRenderable      = 0x8012
	glxFBConfigID       = 0x8013
	glxSRGBCapable      = 0x20B2
	glxSamples          = 100001
	glxWindowBit        = 0x1
	glxRGBABit          = 0x1
	glxRGBAFloatBit     = 0x4
	glxSlowConfig       = 0x8001
	argbVisualDepth     = 32
	fbConfigAttrNumbers = 2
)

// FBConfigs lists the window-capable, double-buffered RGBA framebuffer
// configurations of the default screen. A configuration supports
// transparency when its visual is 32 bits deep, which compositors treat as
// ARGB.
func (c *Connection) FBConfigs() ([]gpu.PixelConfig, error) {
	conn := c.XUtil.Conn()
	if err := glx.Init(conn); err != nil {
		return nil, fmt.Errorf("glx init failed: %w", err)
	}
	reply, err := glx.GetFBConfigs(conn, uint32(c.Screen)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get fbconfigs: %w", err)
	}
	depths := visualDepths(xproto.Setup(conn).Roots[c.Screen])
	return parseFBConfigs(int(reply.NumFbConfigs), int(reply.NumProperties), reply.PropertyList, depths), nil
}

func visualDepths(screen xproto.ScreenInfo) map[uint32]byte {
	depths := make(map[uint32]byte)
	for _, d := range screen.AllowedDepths {
		for _, v := range d.Visuals {
			depths[uint32(v.VisualId)] = d.Depth
		}
	}
	return depths
}

// parseFBConfigs decodes the flat attribute/value list of a GetFBConfigs
// reply. Each configuration occupies numProps pairs.
func parseFBConfigs(numConfigs, numProps int, list []uint32, depths map[uint32]byte) []gpu.PixelConfig {
	stride := numProps * fbConfigAttrNumbers
	var configs []gpu.PixelConfig
	for i := 0; i < numConfigs; i++ {
		start := i * stride
		if start+stride > len(list) {
			break
		}
		attrs := make(map[uint32]uint32, numProps)
		for j := start; j < start+stride; j += fbConfigAttrNumbers {
			attrs[list[j]] = list[j+1]
		}

		visual := attrs[glxVisualID]
		if visual == 0 || attrs[glxXRenderable] == 0 || attrs[glxDoubleBuffer] == 0 {
			continue
		}
		if attrs[glxDrawableType]&glxWindowBit == 0 {
			continue
		}
		renderType := attrs[glxRenderType]
		if renderType&(glxRGBABit|glxRGBAFloatBit) == 0 {
			continue
		}

		configs = append(configs, gpu.PixelConfig{
			Index:                len(configs),
			NativeID:             int(attrs[glxFBConfigID]),
			RedSize:              uint8(attrs[glxRedSize]),
			GreenSize:            uint8(attrs[glxGreenSize]),
			BlueSize:             uint8(attrs[glxBlueSize]),
			AlphaSize:            uint8(attrs[glxAlphaSize]),
			DepthSize:            uint8(attrs[glxDepthSize]),
			StencilSize:          uint8(attrs[glxStencilSize]),
			Samples:              uint8(attrs[glxSamples]),
			FloatPixels:          renderType&glxRGBAFloatBit != 0,
			SRGBCapable:          attrs[glxSRGBCapable] != 0,
			SupportsTransparency: depths[visual] == argbVisualDepth,
			HardwareAccelerated:  attrs[glxConfigCaveat] != glxSlowConfig,
		})
	}
	return configs
}
