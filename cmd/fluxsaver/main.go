package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/1broseidon/fluxsaver/internal/appdirs"
	"github.com/1broseidon/fluxsaver/internal/cli"
	"github.com/1broseidon/fluxsaver/internal/config"
	"github.com/1broseidon/fluxsaver/internal/desktop"
	"github.com/1broseidon/fluxsaver/internal/flux/cflux"
	"github.com/1broseidon/fluxsaver/internal/instance"
	"github.com/1broseidon/fluxsaver/internal/logging"
	"github.com/1broseidon/fluxsaver/internal/platform"
	"github.com/1broseidon/fluxsaver/internal/session"
	"github.com/1broseidon/fluxsaver/internal/wallpaper"
)

// Windows, glfw and every GL context belong to the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "")
		cli.PrintUsage(os.Stderr)
		return 1
	}

	res, cfgErr := config.LoadWithSources()
	cfg := config.DefaultConfig()
	if cfgErr == nil {
		cfg = res.Config
	}

	logger := openLogger(cfg)
	defer logger.Close()

	switch {
	case cfgErr != nil:
		logger.Error("failed to load configuration, using defaults", "error", cfgErr)
	case res.Missing:
		logger.Info("no configuration file, using defaults", "path", res.Path)
	}
	logger.Info("starting", "mode", cmd.Mode.String(), "version", config.CurrentVersion)

	if cmd.Mode == session.ModeSettings {
		if cfgErr != nil {
			fmt.Fprintln(os.Stderr, cfgErr)
			return 1
		}
		return runSettings(os.Stdout, res)
	}
	if err := runSession(cmd, cfg, logger.Logger); err != nil {
		logger.Error("screensaver failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func openLogger(cfg *config.Config) *logging.Logger {
	opts := logging.Options{Level: cfg.Level()}
	if path, err := appdirs.LogPath(); err == nil {
		opts.Path = path
	}
	logger, err := logging.New(opts)
	if err != nil {
		logger.Warn("failed to open log file", "path", opts.Path, "error", err)
	}
	return logger
}

func runSession(cmd cli.Command, cfg *config.Config, logger *slog.Logger) error {
	p, err := desktop.New(desktop.Options{HighPerformance: cfg.GPU.HighPerformance}, logger)
	if err != nil {
		return fmt.Errorf("window system: %w", err)
	}
	defer p.Close()

	var resolver wallpaper.Resolver
	if cfg.Flux.ColorMode == config.ColorModeDesktopImage && cmd.Mode == session.ModeScreensaver {
		r, err := wallpaper.NewSystemResolver(logger)
		if err != nil {
			logger.Warn("wallpaper lookup unavailable, using the default palette", "error", err)
		} else {
			resolver = r
			if c, ok := r.(io.Closer); ok {
				defer c.Close()
			}
		}
	}

	base := instance.Options{
		FadeDuration: cfg.FadeDuration(),
		Interop:      cfg.GPU.Interop == config.InteropAuto,
		VSync:        cfg.GPU.VSync,
	}
	newInstance := func(win platform.Window) (session.Instance, error) {
		opts := base
		opts.Settings = cfg.EngineSettings(win.Surface().Wallpaper)
		inst, err := instance.New(win, newEngine, opts, logger)
		if err != nil {
			return nil, err
		}
		return inst, nil
	}

	s := session.New(p, newInstance, session.Options{
		Mode:            cmd.Mode,
		PreviewHost:     cmd.Host,
		MotionThreshold: cfg.Screensaver.ExitMotionThreshold,
		Window: platform.WindowOptions{
			Title:            "Flux",
			Transparent:      cmd.Mode == session.ModeScreensaver,
			VSync:            cfg.GPU.VSync,
			FrameLatencyWait: cfg.GPU.FrameLatencyWait,
		},
		Wallpapers: resolver,
	}, logger)
	return s.Run()
}

func newEngine(logicalWidth, logicalHeight, physicalWidth, physicalHeight uint32, settingsJSON string) (instance.Engine, error) {
	f, err := cflux.New(logicalWidth, logicalHeight, physicalWidth, physicalHeight, settingsJSON)
	if err != nil {
		return nil, err
	}
	return f, nil
}
