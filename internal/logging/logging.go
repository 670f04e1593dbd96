package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type Options struct {
	Verbosity string
}

// Setup installs the process-wide slog default.
//
// Diagnostics go to stderr so the progress line and the final report own stdout.
func Setup(o Options) {
	var level slog.Level
	switch o.Verbosity {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	w := os.Stderr
	logger := slog.New(
		tint.NewHandler(w, &tint.Options{
			NoColor:   !isatty.IsTerminal(w.Fd()),
			Level:     level,
			AddSource: level < 0,
		}),
	)

	slog.SetDefault(logger)
}
