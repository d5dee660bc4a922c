// Package logger provides structured logging for the application.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Interface is the logging contract used across the application.
type Interface interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Interface
	Sync() error
}

// Logger implements Interface on top of zap.
type Logger struct {
	zapLogger *zap.Logger
}

var logLevels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// New creates a logger. Development mode uses the console encoder with
// colored levels; production mode emits JSON.
func New(level string, development bool) (Interface, error) {
	if level == "" {
		level = "info"
	}
	zapLevel, ok := logLevels[level]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Logger{zapLogger: zapLogger}, nil
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() Interface {
	return &Logger{zapLogger: zap.NewNop()}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zapLogger.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.zapLogger.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.zapLogger.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zapLogger.Error(msg, fields...) }

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...zap.Field) Interface {
	return &Logger{zapLogger: l.zapLogger.With(fields...)}
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error { return l.zapLogger.Sync() }
