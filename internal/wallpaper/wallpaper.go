// Package wallpaper finds the desktop wallpaper shown on each monitor so the
// engine can sample its colours.
package wallpaper

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/1broseidon/fluxsaver/internal/surface"
)

// ErrUnavailable means no usable wallpaper exists for a monitor.
var ErrUnavailable = errors.New("wallpaper unavailable")

// ResourceError describes why a monitor's wallpaper could not be used.
type ResourceError struct {
	Monitor string
	Path    string
	Err     error
}

func (e *ResourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("wallpaper for %s (%s): %v", e.Monitor, e.Path, e.Err)
	}
	return fmt.Sprintf("wallpaper for %s: %v", e.Monitor, e.Err)
}

func (e *ResourceError) Is(target error) bool { return target == ErrUnavailable }

func (e *ResourceError) Unwrap() error { return e.Err }

// Resolver returns the wallpaper image path for a monitor.
type Resolver interface {
	Resolve(m surface.MonitorDescriptor) (string, error)
}

// Validate checks that path is a regular file holding a decodable image.
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("decode image header: %w", err)
	}
	return nil
}

// ResolveAll maps monitor IDs to validated wallpaper paths. Monitors without
// a usable wallpaper are logged and left out.
func ResolveAll(r Resolver, monitors []surface.MonitorDescriptor, logger *slog.Logger) map[string]string {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	out := make(map[string]string, len(monitors))
	if r == nil {
		return out
	}
	for _, m := range monitors {
		path, err := r.Resolve(m)
		if err == nil {
			if verr := Validate(path); verr != nil {
				err = &ResourceError{Monitor: m.Name, Path: path, Err: verr}
			}
		}
		if err != nil {
			logger.Warn("no wallpaper for monitor", "monitor", m.Name, "error", err)
			continue
		}
		out[m.ID] = path
	}
	return out
}
