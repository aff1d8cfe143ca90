package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToFileAndStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fluxsaver.log")
	var stderr bytes.Buffer

	logger, err := New(Options{Path: path, Level: slog.LevelInfo, Stderr: &stderr})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("session started", "mode", "screensaver")
	logger.Debug("hidden")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "session started") || !strings.Contains(string(data), "mode=screensaver") {
		t.Fatalf("log file missing entry: %q", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Fatalf("debug entry should be filtered at info level")
	}
	if !strings.Contains(stderr.String(), "session started") {
		t.Fatalf("stderr missing entry: %q", stderr.String())
	}
}

func TestNew_FileErrorFallsBackToStderr(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var stderr bytes.Buffer

	logger, err := New(Options{Path: filepath.Join(blocker, "fluxsaver.log"), Stderr: &stderr})
	if err == nil {
		t.Fatalf("expected error opening log under a regular file")
	}
	logger.Warn("still logging")
	if !strings.Contains(stderr.String(), "still logging") {
		t.Fatalf("expected fallback to stderr, got %q", stderr.String())
	}
}

func TestRotatingFile_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluxsaver.log")
	f, err := OpenRotatingFile(path, 1, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	for i := 0; i < 4; i++ {
		if _, err := f.Write(chunk); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	for _, name := range []string{"fluxsaver.log", "fluxsaver.log.1", "fluxsaver.log.2"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(path), name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected at most 2 rotated files, stat .3: %v", err)
	}
}
