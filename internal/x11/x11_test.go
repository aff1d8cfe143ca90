package x11

import (
	"testing"

	"github.com/1broseidon/fluxsaver/internal/surface"
)

func TestParseResources(t *testing.T) {
	db := "! comment\nXft.dpi:\t144\nXcursor.size:  24\n\nbroken line\n"
	res := parseResources(db)

	if got := res["Xft.dpi"]; got != "144" {
		t.Fatalf("Xft.dpi = %q, want 144", got)
	}
	if got := res["Xcursor.size"]; got != "24" {
		t.Fatalf("Xcursor.size = %q, want 24", got)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 resources, got %d: %v", len(res), res)
	}
}

func TestScaleFromResources(t *testing.T) {
	tests := []struct {
		name string
		res  map[string]string
		want float64
	}{
		{name: "missing", res: map[string]string{}, want: 1},
		{name: "default dpi", res: map[string]string{"Xft.dpi": "96"}, want: 1},
		{name: "hidpi", res: map[string]string{"Xft.dpi": "192"}, want: 2},
		{name: "fractional", res: map[string]string{"Xft.dpi": "120"}, want: 1.25},
		{name: "garbage", res: map[string]string{"Xft.dpi": "large"}, want: 1},
		{name: "zero", res: map[string]string{"Xft.dpi": "0"}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scaleFromResources(tt.res); got != tt.want {
				t.Fatalf("scale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescriptorsFromMonitors(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "DP-1", X: 0, Y: 0, Width: 2560, Height: 1440},
		{ID: 1, Name: "HDMI-1", X: 2560, Y: 0, Width: 1920, Height: 1080},
		{ID: 2, Name: "ghost", Width: 0, Height: 0},
	}
	got := descriptorsFromMonitors(monitors, 1.5)
	if len(got) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(got))
	}
	want := surface.MonitorDescriptor{
		ID:          "HDMI-1",
		Name:        "HDMI-1",
		Bounds:      surface.Rect{X: 2560, Y: 0, Width: 1920, Height: 1080},
		ScaleFactor: 1.5,
	}
	if got[1] != want {
		t.Fatalf("descriptor = %+v, want %+v", got[1], want)
	}
}

func fbConfig(pairs ...uint32) []uint32 { return pairs }

func TestParseFBConfigs(t *testing.T) {
	const props = 12
	base := func(id, visual, alpha, samples, renderType uint32) []uint32 {
		return fbConfig(
			glxFBConfigID, id,
			glxVisualID, visual,
			glxXRenderable, 1,
			glxDoubleBuffer, 1,
			glxDrawableType, glxWindowBit,
			glxRenderType, renderType,
			glxRedSize, 8,
			glxGreenSize, 8,
			glxBlueSize, 8,
			glxAlphaSize, alpha,
			glxSamples, samples,
			glxConfigCaveat, 0x8000,
		)
	}
	var list []uint32
	list = append(list, base(0x21, 0x40, 0, 0, glxRGBABit)...)
	list = append(list, base(0x22, 0x41, 8, 4, glxRGBABit)...)
	list = append(list, base(0x23, 0, 8, 0, glxRGBABit)...) // no visual
	list = append(list, base(0x24, 0x42, 8, 0, 0x2)...)     // color index only

	depths := map[uint32]byte{0x40: 24, 0x41: 32, 0x42: 32}
	configs := parseFBConfigs(4, props, list, depths)
	if len(configs) != 2 {
		t.Fatalf("expected 2 usable configs, got %d", len(configs))
	}

	first, second := configs[0], configs[1]
	if first.NativeID != 0x21 || first.SupportsTransparency || first.AlphaSize != 0 {
		t.Fatalf("unexpected first config: %s", first)
	}
	if second.NativeID != 0x22 || !second.SupportsTransparency || second.Samples != 4 || second.Index != 1 {
		t.Fatalf("unexpected second config: %s", second)
	}
	if !second.HardwareAccelerated {
		t.Fatalf("expected hardware config: %s", second)
	}
}

func TestParseFBConfigsTruncatedList(t *testing.T) {
	list := fbConfig(glxFBConfigID, 1, glxVisualID, 2)
	if got := parseFBConfigs(3, 2, list, nil); len(got) != 0 {
		t.Fatalf("expected no configs from truncated list, got %d", len(got))
	}
}
