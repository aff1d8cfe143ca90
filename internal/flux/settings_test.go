package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsJSON(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     string
	}{
		{"default preset", Settings{}, `{"colorMode":{"Preset":"Original"}}`},
		{"plasma", Settings{ColorMode: ColorMode{Preset: PresetPlasma}}, `{"colorMode":{"Preset":"Plasma"}}`},
		{"image", Settings{ColorMode: ColorMode{ImageFile: `C:\Users\me\wall.jpg`}}, `{"colorMode":{"ImageFile":"C:\\Users\\me\\wall.jpg"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.settings.JSON()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, got)
		})
	}
}
