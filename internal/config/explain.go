package config

import "fmt"

// Paths lists every setting Explain understands, in file order.
var Paths = []string{
	"version",
	"log_level",
	"flux.color_mode",
	"screensaver.exit_motion_threshold",
	"screensaver.fade_duration_ms",
	"gpu.interop",
	"gpu.high_performance",
	"gpu.frame_latency_wait",
	"gpu.vsync",
}

// Explain returns the effective value at the given YAML path and where it
// came from.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}
	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "version":
		return cfg.Version, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "flux.color_mode":
		return cfg.Flux.ColorMode, nil
	case "screensaver.exit_motion_threshold":
		return cfg.Screensaver.ExitMotionThreshold, nil
	case "screensaver.fade_duration_ms":
		return cfg.Screensaver.FadeDurationMS, nil
	case "gpu.interop":
		return cfg.GPU.Interop, nil
	case "gpu.high_performance":
		return cfg.GPU.HighPerformance, nil
	case "gpu.frame_latency_wait":
		return cfg.GPU.FrameLatencyWait, nil
	case "gpu.vsync":
		return cfg.GPU.VSync, nil
	default:
		return nil, fmt.Errorf("unknown config path %q", path)
	}
}
