// Package log builds zap loggers for governance binaries.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ConsoleEncoder is a human readable encoder.
	ConsoleEncoder = "console"
	// JSONEncoder writes one json object per entry.
	JSONEncoder = "json"
)

// where logs go by default.
var logWriter io.Writer = os.Stderr

// Config for binaries loggers.
type Config struct {
	Level   string `mapstructure:"level"`
	Encoder string `mapstructure:"encoder"`
}

// DefaultConfig writes info and above to the console.
func DefaultConfig() Config {
	return Config{
		Level:   zapcore.InfoLevel.String(),
		Encoder: ConsoleEncoder,
	}
}

// NewEncoder returns an encoder by name.
func NewEncoder(name string) (zapcore.Encoder, error) {
	switch name {
	case ConsoleEncoder, "":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg), nil
	case JSONEncoder:
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), nil
	}
	return nil, fmt.Errorf("unknown log encoder %q", name)
}

// NewWithLevel creates a logger with a fixed level and with a set of (optional) hooks.
func NewWithLevel(module string,
	level zap.AtomicLevel,
	encoder zapcore.Encoder,
	hooks ...func(zapcore.Entry) error,
) *zap.Logger {
	consoleSyncer := zapcore.AddSync(logWriter)
	core := zapcore.NewCore(encoder, consoleSyncer, level)
	return zap.New(zapcore.RegisterHooks(core, hooks...)).Named(module)
}

// New builds a logger from the config.
func New(module string, cfg Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, ErrMalformedConfig(err)
	}
	encoder, err := NewEncoder(cfg.Encoder)
	if err != nil {
		return nil, ErrMalformedConfig(err)
	}
	return NewWithLevel(module, level, encoder), nil
}
