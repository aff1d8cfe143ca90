package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/fluxsaver/internal/config"
)

func TestRunSettingsWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluxsaver", "config.yaml")
	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if !res.Missing {
		t.Fatalf("expected missing config")
	}

	var out bytes.Buffer
	if code := runSettings(&out, res); code != 0 {
		t.Fatalf("runSettings exit code = %d", code)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Wrote default configuration", "# gpu.vsync = true (default)", "color_mode: original"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	reloaded, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Missing {
		t.Fatalf("expected config file to exist after settings")
	}
}

func TestRunSettingsReportsFileSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 0.1.0\nflux:\n  color_mode: plasma\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	var out bytes.Buffer
	if code := runSettings(&out, res); code != 0 {
		t.Fatalf("runSettings exit code = %d", code)
	}
	if !strings.Contains(out.String(), "# flux.color_mode = plasma ("+res.Path+":3:") {
		t.Fatalf("expected file source for color_mode:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Wrote default configuration") {
		t.Fatalf("existing config must not be rewritten")
	}
}
