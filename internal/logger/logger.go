// Package logger builds the zap logger shared by every component.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Options configures New.
type Options struct {
	Level LogLevel
	// File receives log output. The TUI owns the terminal, so logs go to a file.
	File string
	// Stderr also writes to stderr, for foreground commands like the daemon.
	Stderr      bool
	Development bool
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	var config zap.Config
	if opts.Development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	config.Level = zap.NewAtomicLevelAt(opts.Level.zapLevel())

	var outputs []string
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
		outputs = append(outputs, opts.File)
	}
	if opts.Stderr || len(outputs) == 0 {
		outputs = append(outputs, "stderr")
	}
	config.OutputPaths = outputs
	config.ErrorOutputPaths = outputs

	log, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}

// ParseLevel validates a configured level name.
func ParseLevel(s string) (LogLevel, error) {
	switch l := LogLevel(s); l {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return l, nil
	case "":
		return InfoLevel, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}
