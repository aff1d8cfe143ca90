// Package flux describes the settings of the Flux fluid simulation engine.
// The engine itself is bound in package cflux.
package flux

import (
	"encoding/json"
	"fmt"
)

// Preset is one of the engine's built-in colour palettes.
type Preset string

const (
	PresetOriginal Preset = "Original"
	PresetPlasma   Preset = "Plasma"
	PresetPoolside Preset = "Poolside"
	PresetFreedom  Preset = "Freedom"
)

// ColorMode selects the palette: a preset, or colours sampled from an image.
type ColorMode struct {
	Preset    Preset
	ImageFile string
}

// MarshalJSON encodes the externally tagged form the engine decodes:
// {"Preset":"Plasma"} or {"ImageFile":"C:\\wall.jpg"}.
func (m ColorMode) MarshalJSON() ([]byte, error) {
	if m.ImageFile != "" {
		return json.Marshal(map[string]string{"ImageFile": m.ImageFile})
	}
	preset := m.Preset
	if preset == "" {
		preset = PresetOriginal
	}
	return json.Marshal(map[string]Preset{"Preset": preset})
}

// Settings is the subset of engine settings the screensaver controls. Every
// other engine setting keeps its default.
type Settings struct {
	ColorMode ColorMode `json:"colorMode"`
}

// JSON renders the settings for New.
func (s Settings) JSON() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode flux settings: %w", err)
	}
	return string(b), nil
}
