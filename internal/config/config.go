package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/fluxsaver/internal/flux"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "0.1.0"

// supportedVersions accepts every config written by this major version.
var supportedVersions = mustConstraint(">= 0.1.0, < 1.0.0")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

type ColorMode string

const (
	ColorModeOriginal     ColorMode = "original"
	ColorModePlasma       ColorMode = "plasma"
	ColorModePoolside     ColorMode = "poolside"
	ColorModeFreedom      ColorMode = "freedom"
	ColorModeDesktopImage ColorMode = "desktop_image"
)

var presets = map[ColorMode]flux.Preset{
	ColorModeOriginal: flux.PresetOriginal,
	ColorModePlasma:   flux.PresetPlasma,
	ColorModePoolside: flux.PresetPoolside,
	ColorModeFreedom:  flux.PresetFreedom,
}

type InteropMode string

const (
	InteropAuto InteropMode = "auto"
	InteropOff  InteropMode = "off"
)

type FluxConfig struct {
	ColorMode ColorMode `yaml:"color_mode"`
}

type ScreensaverConfig struct {
	// ExitMotionThreshold is the pointer travel, in device-independent
	// units per event batch, that ends the screensaver.
	ExitMotionThreshold float64 `yaml:"exit_motion_threshold"`
	FadeDurationMS      int     `yaml:"fade_duration_ms"`
}

type GPUConfig struct {
	Interop          InteropMode `yaml:"interop"`
	HighPerformance  bool        `yaml:"high_performance"`
	FrameLatencyWait bool        `yaml:"frame_latency_wait"`
	VSync            bool        `yaml:"vsync"`
}

// Config is the effective configuration.
type Config struct {
	Version     string            `yaml:"version"`
	LogLevel    string            `yaml:"log_level"`
	Flux        FluxConfig        `yaml:"flux"`
	Screensaver ScreensaverConfig `yaml:"screensaver"`
	GPU         GPUConfig         `yaml:"gpu"`
}

func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentVersion,
		LogLevel: "warn",
		Flux: FluxConfig{
			ColorMode: ColorModeOriginal,
		},
		Screensaver: ScreensaverConfig{
			ExitMotionThreshold: 10,
			FadeDurationMS:      300,
		},
		GPU: GPUConfig{
			Interop:         InteropAuto,
			HighPerformance: true,
			VSync:           true,
		},
	}
}

func (c *Config) Validate() error {
	v, err := semver.NewVersion(c.Version)
	if err != nil {
		return &ValidationError{Path: "version", Err: fmt.Errorf("version must be a semantic version: %w", err)}
	}
	if !supportedVersions.Check(v) {
		return &ValidationError{Path: "version", Err: fmt.Errorf("version %s is not supported (want %s)", v, supportedVersions)}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	if _, ok := presets[c.Flux.ColorMode]; !ok && c.Flux.ColorMode != ColorModeDesktopImage {
		return &ValidationError{Path: "flux.color_mode", Err: fmt.Errorf("color_mode must be one of: original, plasma, poolside, freedom, desktop_image")}
	}
	if c.Screensaver.ExitMotionThreshold <= 0 {
		return &ValidationError{Path: "screensaver.exit_motion_threshold", Err: fmt.Errorf("exit_motion_threshold must be > 0")}
	}
	if c.Screensaver.FadeDurationMS <= 0 {
		return &ValidationError{Path: "screensaver.fade_duration_ms", Err: fmt.Errorf("fade_duration_ms must be > 0")}
	}
	switch c.GPU.Interop {
	case InteropAuto, InteropOff:
	default:
		return &ValidationError{Path: "gpu.interop", Err: fmt.Errorf("interop must be one of: auto, off")}
	}
	return nil
}

// Level returns the slog level for log_level.
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}
}

// FadeDuration returns the fade-in length.
func (c *Config) FadeDuration() time.Duration {
	return time.Duration(c.Screensaver.FadeDurationMS) * time.Millisecond
}

// EngineSettings returns the engine settings for a surface showing
// wallpaper. desktop_image without a wallpaper falls back to the default
// preset.
func (c *Config) EngineSettings(wallpaper string) flux.Settings {
	if c.Flux.ColorMode == ColorModeDesktopImage {
		if wallpaper != "" {
			return flux.Settings{ColorMode: flux.ColorMode{ImageFile: wallpaper}}
		}
		return flux.Settings{ColorMode: flux.ColorMode{Preset: flux.PresetOriginal}}
	}
	preset, ok := presets[c.Flux.ColorMode]
	if !ok {
		preset = flux.PresetOriginal
	}
	return flux.Settings{ColorMode: flux.ColorMode{Preset: preset}}
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveTo writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}
