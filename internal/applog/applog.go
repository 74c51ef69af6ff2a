// Package applog builds the named, leveled loggers every other package
// pulls a *zap.SugaredLogger from. One logger per component name (e.g.
// "parser", "resolve", "driver"), all sharing one formatter and one level,
// the same shape as a single root logger handing out
// logging.getLogger(name) children with a shared handler and formatter.
package applog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level names accepted by New, matching the CLI's -v flag and the
// config file's log_level field.
const (
	LevelDebug    = "debug"
	LevelWarn     = "warn"
	LevelCritical = "critical"
)

// Registry hands out named loggers that all share one level and encoder.
type Registry struct {
	base *zap.Logger
}

// New builds a Registry at the given level. An unrecognized level falls
// back to warn, the default the original tool ships with.
func New(level string) *Registry {
	cfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		NameKey:          "name",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: ":: ",
	}
	encoder := zapcore.NewConsoleEncoder(cfg)
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zapLevel(level))
	return &Registry{base: zap.New(core)}
}

func zapLevel(level string) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelCritical:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// Named returns the logger for one component, e.g. r.Named("resolve").
func (r *Registry) Named(name string) *zap.SugaredLogger {
	return r.base.Named(name).Sugar()
}

// Critical logs at the highest level this tool distinguishes and exits
// the process with a non-zero status, for the fatal input-absent /
// output-write-failure cases.
func Critical(log *zap.SugaredLogger, format string, args ...any) {
	log.Fatalf(format, args...)
}
