// Package logging builds the zap logger shared by the pool, the sealer and
// the command line, with optional size-based file rotation.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Level     string `yaml:"level"`      // debug, info, warn, error
	ToConsole bool   `yaml:"to_console"` // write to stderr
	FilePath  string `yaml:"file_path"`  // rotated JSON log; empty disables

	MaxSize    int  `yaml:"max_size"`    // MB per file
	MaxBackups int  `yaml:"max_backups"` // rotated files kept
	MaxAge     int  `yaml:"max_age"`     // days
	Compress   bool `yaml:"compress"`

	EnableCaller bool `yaml:"enable_caller"`
}

// DefaultOptions logs info and above to the console only.
func DefaultOptions() Options {
	return Options{
		Level:        "info",
		ToConsole:    true,
		MaxSize:      100,
		MaxBackups:   10,
		MaxAge:       30,
		Compress:     true,
		EnableCaller: true,
	}
}

var levels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// ParseLevel maps a level name to its zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	level, ok := levels[name]
	if !ok {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// New builds a logger from opts. With neither console nor file output the
// logger discards everything.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var cores []zapcore.Core

	if opts.ToConsole {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.Lock(os.Stderr),
			zap.NewAtomicLevelAt(level),
		))
	}

	if opts.FilePath != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		})
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(enc),
			writer,
			zap.NewAtomicLevelAt(level),
		))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	var zopts []zap.Option
	if opts.EnableCaller {
		zopts = append(zopts, zap.AddCaller())
	}
	zopts = append(zopts, zap.AddStacktrace(zapcore.ErrorLevel))

	return zap.New(zapcore.NewTee(cores...), zopts...), nil
}
