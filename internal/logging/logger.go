package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kingrea/urbanwizard/internal/config"
)

// Options tune the logger beyond what the project config holds.
type Options struct {
	// Stderr mirrors every entry to standard error. Leave it off while the
	// TUI owns the terminal.
	Stderr bool
	// Verbose forces debug level.
	Verbose bool
}

// New builds a JSON logger appending to the project log file, by default
// .urbanwizard/logs/urbanwizard.log.
func New(cfg *config.Config, opts Options) (*zap.Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging: config is required")
	}
	path := cfg.LogFile()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel())
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	if opts.Stderr {
		zc.OutputPaths = append(zc.OutputPaths, "stderr")
		zc.ErrorOutputPaths = append(zc.ErrorOutputPaths, "stderr")
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger.Named("urbanwizard"), nil
}
