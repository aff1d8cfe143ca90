// Package logging builds the process logger: a text handler writing to the
// log file in the data directory, mirrored to stderr when it is a terminal.
package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Options configure New.
type Options struct {
	// Path is the log file. Empty disables file logging.
	Path      string
	Level     slog.Leveler
	MaxSizeMB int
	MaxFiles  int
	// Stderr overrides terminal detection when non-nil.
	Stderr io.Writer
}

// Logger owns the handler outputs.
type Logger struct {
	*slog.Logger
	file *RotatingFile
}

// New builds the logger. Failing to open the log file is not fatal: the
// logger falls back to stderr and the error is returned alongside it.
func New(opts Options) (*Logger, error) {
	level := opts.Level
	if level == nil {
		level = slog.LevelWarn
	}

	var writers []io.Writer
	var openErr error
	var file *RotatingFile
	if opts.Path != "" {
		file, openErr = OpenRotatingFile(opts.Path, opts.MaxSizeMB, opts.MaxFiles)
		if openErr == nil {
			writers = append(writers, file)
		}
	}

	stderr := opts.Stderr
	if stderr == nil && (term.IsTerminal(int(os.Stderr.Fd())) || len(writers) == 0) {
		stderr = os.Stderr
	}
	if stderr != nil {
		writers = append(writers, stderr)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler), file: file}, openErr
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
