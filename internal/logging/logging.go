package logging

import (
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup routes the default slog logger to a rotating file. The TUI owns
// the terminal once it starts, so nothing else may write to stdout.
func Setup(logFile string, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	writer := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}
	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
