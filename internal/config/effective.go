package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	setIf(&cfg.Version, raw.Version)
	setIf(&cfg.LogLevel, raw.LogLevel)
	if raw.Flux != nil {
		setIf(&cfg.Flux.ColorMode, raw.Flux.ColorMode)
	}
	if s := raw.Screensaver; s != nil {
		setIf(&cfg.Screensaver.ExitMotionThreshold, s.ExitMotionThreshold)
		setIf(&cfg.Screensaver.FadeDurationMS, s.FadeDurationMS)
	}
	if g := raw.GPU; g != nil {
		setIf(&cfg.GPU.Interop, g.Interop)
		setIf(&cfg.GPU.HighPerformance, g.HighPerformance)
		setIf(&cfg.GPU.FrameLatencyWait, g.FrameLatencyWait)
		setIf(&cfg.GPU.VSync, g.VSync)
	}
	return cfg
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
