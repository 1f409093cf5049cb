package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the process logger. Logs go to a file because stderr
// belongs to the terminal UI; with no path configured logging is off.
func NewLogger(path string, debug bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
