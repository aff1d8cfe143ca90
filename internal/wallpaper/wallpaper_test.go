package wallpaper

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/fluxsaver/internal/surface"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	require.NoError(t, png.Encode(f, img))
	return path
}

type mapResolver map[string]string

func (m mapResolver) Resolve(d surface.MonitorDescriptor) (string, error) {
	if p, ok := m[d.ID]; ok {
		return p, nil
	}
	return "", &ResourceError{Monitor: d.Name, Err: errors.New("not set")}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "wall.png")
	require.NoError(t, Validate(good))

	bogus := filepath.Join(dir, "wall.jpg")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0600))
	assert.Error(t, Validate(bogus))

	assert.Error(t, Validate(filepath.Join(dir, "missing.png")))
	assert.Error(t, Validate(dir), "directories are not wallpapers")
}

func TestResolveAll_KeepsOnlyValidWallpapers(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "a.png")
	monitors := []surface.MonitorDescriptor{
		{ID: "a", Name: "DP-1"},
		{ID: "b", Name: "DP-2"},
		{ID: "c", Name: "HDMI-1"},
	}
	r := mapResolver{"a": good, "b": filepath.Join(dir, "gone.png")}

	got := ResolveAll(r, monitors, nil)
	assert.Equal(t, map[string]string{"a": good}, got)
}

func TestResourceErrorIsUnavailable(t *testing.T) {
	err := &ResourceError{Monitor: "DP-1", Err: errors.New("boom")}
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "DP-1")
}
