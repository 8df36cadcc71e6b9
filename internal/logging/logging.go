package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// File receives JSON logs when set. The TUI never logs to the terminal, so this is its only sink.
	File string
	// Stderr logs to standard error (CLI commands with --verbose).
	Stderr bool
}

// New builds the process logger. With neither a file nor stderr it is a no-op logger.
func New(opt Options) (*zap.Logger, error) {
	var paths []string
	if f := strings.TrimSpace(opt.File); f != "" {
		if err := os.MkdirAll(filepath.Dir(f), 0o755); err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		paths = append(paths, f)
	}
	if opt.Stderr {
		paths = append(paths, "stderr")
	}
	if len(paths) == 0 {
		return zap.NewNop(), nil
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = paths
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if opt.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	// Sampling drops repeated lines; every event matters in a short CLI run.
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
