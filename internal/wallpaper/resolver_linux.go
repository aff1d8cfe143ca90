//go:build linux

package wallpaper

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strings"

	"github.com/1broseidon/fluxsaver/internal/surface"
)

// GSettingsResolver reads the GNOME background, which applies to every
// monitor.
type GSettingsResolver struct {
	logger *slog.Logger
	// run executes gsettings; replaced in tests.
	run func(args ...string) (string, error)
}

// NewSystemResolver returns the resolver for the running desktop.
func NewSystemResolver(logger *slog.Logger) (Resolver, error) {
	if _, err := exec.LookPath("gsettings"); err != nil {
		return nil, &ResourceError{Monitor: "*", Err: fmt.Errorf("gsettings not found: %w", err)}
	}
	return &GSettingsResolver{logger: logger, run: runGSettings}, nil
}

func runGSettings(args ...string) (string, error) {
	out, err := exec.Command("gsettings", args...).Output()
	if err != nil {
		return "", fmt.Errorf("gsettings %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (r *GSettingsResolver) Resolve(m surface.MonitorDescriptor) (string, error) {
	key := "picture-uri"
	if scheme, err := r.run("get", "org.gnome.desktop.interface", "color-scheme"); err == nil && unquote(scheme) == "prefer-dark" {
		key = "picture-uri-dark"
	}
	value, err := r.run("get", "org.gnome.desktop.background", key)
	if err != nil {
		return "", &ResourceError{Monitor: m.Name, Err: err}
	}
	path, err := pathFromURI(unquote(value))
	if err != nil {
		return "", &ResourceError{Monitor: m.Name, Err: err}
	}
	if r.logger != nil {
		r.logger.Debug("resolved wallpaper", "monitor", m.Name, "key", key, "path", path)
	}
	return path, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func pathFromURI(uri string) (string, error) {
	if uri == "" {
		return "", errors.New("no background configured")
	}
	if strings.HasPrefix(uri, "/") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse background uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported background uri scheme %q", u.Scheme)
	}
	return u.Path, nil
}
