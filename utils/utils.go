package utils

import (
	"log/slog"
)

// Check panics on setup errors the process cannot run without.
func Check(e error) {
	if e != nil {
		slog.Error("fatal setup error", "error", e)
		panic(e)
	}
}

// withError logs the message only; wrapped errors would otherwise print their
// stack trace on every line.
func withError(e error, args []any) []any {
	return append([]any{"error", e.Error()}, args...)
}

// Loge logs a non-nil error at error level with optional key/value pairs.
func Loge(e error, args ...any) {
	if e != nil {
		slog.Error("", withError(e, args)...)
	}
}

func Logwe(e error, args ...any) {
	if e != nil {
		slog.Warn("", withError(e, args)...)
	}
}

func Logde(e error, args ...any) {
	if e != nil {
		slog.Debug("", withError(e, args)...)
	}
}
