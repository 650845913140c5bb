package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler, debug mode drops the
// level to slog.LevelDebug which also turns on request dumping in the
// resty instrumentation.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
