// Package cli parses the command line the Windows screensaver host uses to
// launch a screensaver.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/1broseidon/fluxsaver/internal/session"
)

// ErrUsage is matched by every argument error.
var ErrUsage = errors.New("invalid arguments")

// Command is what the process was asked to do.
type Command struct {
	Mode session.Mode
	// Host is the preview host window handle in ModePreview.
	Host uintptr
}

// Parse interprets the arguments after the program name. Flags are
// case-insensitive; only the first one is considered.
//
//	(none), /c, /c:<hwnd>     settings
//	/s                        screensaver
//	/p <hwnd>, /p:<hwnd>      preview inside hwnd
//	-parenthwnd <hwnd>        preview inside hwnd (Wallpaper Engine)
func Parse(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Mode: session.ModeSettings}, nil
	}
	flag := strings.ToLower(args[0])
	switch {
	case flag == "/c" || strings.HasPrefix(flag, "/c:"):
		return Command{Mode: session.ModeSettings}, nil
	case flag == "/s":
		return Command{Mode: session.ModeScreensaver}, nil
	case flag == "/p" || flag == "-parenthwnd":
		if len(args) < 2 {
			return Command{}, fmt.Errorf("%w: %s needs the preview window handle", ErrUsage, args[0])
		}
		return preview(args[1])
	case strings.HasPrefix(flag, "/p:"):
		return preview(flag[len("/p:"):])
	default:
		return Command{}, fmt.Errorf("%w: unknown argument %q", ErrUsage, args[0])
	}
}

func preview(handle string) (Command, error) {
	host, err := ParseHandle(handle)
	if err != nil {
		return Command{}, err
	}
	return Command{Mode: session.ModePreview, Host: host}, nil
}

// ParseHandle parses a window handle given in decimal, or in hex with a 0x
// prefix.
func ParseHandle(s string) (uintptr, error) {
	s = strings.TrimSpace(s)
	base := 10
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		s, base = rest, 16
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: window handle %q: %v", ErrUsage, s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("%w: window handle is null", ErrUsage)
	}
	return uintptr(v), nil
}

// PrintUsage writes the accepted command lines.
func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fluxsaver [/s | /p <hwnd> | /c]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  /s                  Run the screensaver")
	fmt.Fprintln(w, "  /p <hwnd>           Preview inside a window (also /p:<hwnd>, -parenthwnd <hwnd>)")
	fmt.Fprintln(w, "  /c                  Write the default config and print the settings (default)")
}
