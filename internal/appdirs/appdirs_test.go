package appdirs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDir_UsesXDGConfigHomeWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", td)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if want := filepath.Join(td, "fluxsaver"); got != want {
		t.Fatalf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestConfigDir_FallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if !strings.HasPrefix(got, home) || !strings.HasSuffix(got, "fluxsaver") {
		t.Fatalf("ConfigDir() = %q, want fluxsaver dir under %q", got, home)
	}
}

func TestDataDir_CreatesDirectory(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_DATA_HOME", td)

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat %q: %v", got, err)
	}
	if !info.IsDir() {
		t.Fatalf("%q is not a directory", got)
	}
}

func TestPaths(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", td)
	t.Setenv("XDG_DATA_HOME", td)

	cfg, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}
	if filepath.Base(cfg) != "config.yaml" {
		t.Fatalf("ConfigPath() = %q, want config.yaml", cfg)
	}

	log, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath() error: %v", err)
	}
	if filepath.Base(log) != "fluxsaver.log" {
		t.Fatalf("LogPath() = %q, want fluxsaver.log", log)
	}
}
