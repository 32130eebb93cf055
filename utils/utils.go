package utils

import (
	"log/slog"
)

// Check panics on errors the daemon cannot start or continue without.
// Callers wrap with context first.
func Check(e error) {
	if e != nil {
		slog.Error("fatal error", "error", e)
		panic(e)
	}
}

// Loge and friends log an error at the matching level and otherwise do
// nothing, so call sites stay single-line.
func Loge(e error) {
	if e != nil {
		slog.Error("error occurred", "error", e)
	}
}

func Logwe(e error) {
	if e != nil {
		slog.Warn("error occurred", "error", e)
	}
}

func Logie(e error) {
	if e != nil {
		slog.Info("error occurred", "error", e)
	}
}

func Logde(e error) {
	if e != nil {
		slog.Debug("error occurred", "error", e)
	}
}
