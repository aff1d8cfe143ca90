//go:build !linux && !windows

package wallpaper

import (
	"errors"
	"log/slog"
)

// NewSystemResolver is unsupported on this OS.
func NewSystemResolver(logger *slog.Logger) (Resolver, error) {
	return nil, &ResourceError{Monitor: "*", Err: errors.New("no wallpaper source on this platform")}
}
