package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/fluxsaver/internal/config"
)

// runSettings stands in for a settings panel: it makes sure a config file
// exists and shows every setting with where its value came from.
func runSettings(w io.Writer, res *config.LoadResult) int {
	if res.Missing {
		if err := res.Config.SaveTo(res.Path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintf(w, "Wrote default configuration to %s\n\n", res.Path)
	}

	fmt.Fprintf(w, "# config: %s\n", res.Path)
	for _, path := range config.Paths {
		value, src, err := config.Explain(res, path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintf(w, "# %s = %s (%s)\n", path, formatValue(value), formatSource(src))
	}
	fmt.Fprintln(w, "")

	data, err := res.Config.Marshal()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprint(w, string(data))
	return 0
}

func formatValue(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(trimNewline(out))
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	return b
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.Line > 0 {
			return fmt.Sprintf("%s:%d:%d", src.File, src.Line, src.Column)
		}
		return src.File
	default:
		return string(src.Kind)
	}
}
