// Package logger provides a structured logging facility using zap logger.
// Loggers travel in the context so request-scoped fields (request ID,
// identifier, target) are attached once and reused by every log call.
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DevelopmentEnvironment selects a verbose, human-readable console logger.
	DevelopmentEnvironment = "development"

	// ProductionEnvironment selects an info-level JSON logger.
	ProductionEnvironment = "production"
)

// Options configures the default logger.
type Options struct {
	// Environment is either DevelopmentEnvironment or ProductionEnvironment.
	Environment string
	// File, when set, additionally writes JSON logs to a rotating file.
	File string
	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep.
	MaxBackups int
	// MaxAgeDays is the number of days rotated files are kept.
	MaxAgeDays int
}

// defaultLogger is the package-level logger instance used when no logger is found in context.
var defaultLogger = zap.NewNop() //nolint: gochecknoglobals

// Setup initializes the default logger for the given environment.
func Setup(environment string) {
	SetupWithOptions(Options{Environment: environment})
}

// SetupWithOptions initializes the default logger. When opts.File is set, log
// entries are written both to stderr and to a lumberjack-rotated file.
func SetupWithOptions(opts Options) {
	var base *zap.Logger
	var level zapcore.LevelEnabler
	if opts.Environment == ProductionEnvironment {
		base, _ = zap.NewProduction()
		level = zap.InfoLevel
	} else {
		base, _ = zap.NewDevelopment()
		level = zap.DebugLevel
	}

	if opts.File == "" {
		defaultLogger = base

		return
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}),
		level,
	)
	defaultLogger = base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}), zap.ErrorOutput(zapcore.Lock(os.Stderr)))
}

type key struct{}

// Get retrieves a logger from the provided context.
// If no logger is found in the context, it returns the default logger.
func Get(ctx context.Context) *zap.Logger {
	if logger, _ := ctx.Value(key{}).(*zap.Logger); logger != nil {
		return logger
	}

	return defaultLogger
}

// WithLogger creates a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// WithFields creates a new context whose logger includes the specified fields.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// IsDebug checks if the logger in the context is configured at debug level.
func IsDebug(ctx context.Context) bool {
	return Get(ctx).Level() == zap.DebugLevel
}

// Debug logs a message at debug level with the given fields.
func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

// Info logs a message at info level with the given fields.
func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

// Warn logs a message at warn level with the given fields.
func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

// Error logs a message at error level with the given fields.
func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

// Fatal logs a message at fatal level with the given fields.
func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}
