// Package logger holds the process-wide zap logger. Packages take child loggers with
// WithModule; until Init runs every logger is a no-op, which keeps tests quiet.
package logger

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultService = "medisearch"

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// Options configures the global logger.
type Options struct {
	// Level is a zap level name. Unknown or empty values select info.
	Level string
	// Format is "json" (default) or "console".
	Format string
	// Service is attached to every entry. Defaults to "medisearch".
	Service string
}

// Init installs a JSON logger at the given level.
func Init(level string) error {
	return InitWithOptions(Options{Level: level})
}

// InitWithOptions builds and installs the global logger.
func InitWithOptions(opts Options) error {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(opts.Format), "console") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))

	service := strings.TrimSpace(opts.Service)
	if service == "" {
		service = defaultService
	}
	cfg.InitialFields = map[string]interface{}{"service": service}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Replace(l)
	return nil
}

func parseLevel(level string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil || level == "" {
		return zapcore.InfoLevel
	}
	return lvl
}

// Replace swaps the global logger. Nil installs a no-op logger.
func Replace(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	global.Store(l)
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	return global.Load()
}

// Sync flushes buffered entries.
func Sync() error {
	return Logger().Sync()
}

// WithModule returns a child of the current global logger tagged with module. The child
// does not follow later Replace calls.
func WithModule(module string) *zap.Logger {
	return Logger().With(zap.String("module", module))
}
