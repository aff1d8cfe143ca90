package config

// RawConfig mirrors the YAML file. Nil fields were not set and keep their
// defaults.
type RawConfig struct {
	Version     *string               `yaml:"version"`
	LogLevel    *string               `yaml:"log_level"`
	Flux        *RawFluxConfig        `yaml:"flux"`
	Screensaver *RawScreensaverConfig `yaml:"screensaver"`
	GPU         *RawGPUConfig         `yaml:"gpu"`
}

type RawFluxConfig struct {
	ColorMode *ColorMode `yaml:"color_mode"`
}

type RawScreensaverConfig struct {
	ExitMotionThreshold *float64 `yaml:"exit_motion_threshold"`
	FadeDurationMS      *int     `yaml:"fade_duration_ms"`
}

type RawGPUConfig struct {
	Interop          *InteropMode `yaml:"interop"`
	HighPerformance  *bool        `yaml:"high_performance"`
	FrameLatencyWait *bool        `yaml:"frame_latency_wait"`
	VSync            *bool        `yaml:"vsync"`
}
