// Package core holds process-wide plumbing shared by every component.
package core

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// InitLogger installs the global slog handler. Verbose mode enables debug
// output and source positions.
func InitLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		AddSource:  verbose,
	})
	slog.SetDefault(slog.New(handler))
}
