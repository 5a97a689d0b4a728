package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger so components can derive named children.
type Logger struct {
	*zap.Logger
	config Config
}

var (
	globalLogger *Logger
	once         sync.Once
)

// NewLogger builds the process-wide logger on first use and returns it afterwards.
func NewLogger() *Logger {
	once.Do(func() {
		cfg := ConfigFromEnv()
		globalLogger = build(cfg)
		for _, problem := range cfg.Problems {
			globalLogger.Warn("Logger configuration", zap.String("problem", problem))
		}
		globalLogger.Info("Logger initialized",
			zap.Stringer("level", cfg.Level),
			zap.String("encoding", cfg.Encoding),
			zap.String("output", cfg.Output))
	})
	return globalLogger
}

// NewNopLogger returns a logger that discards everything. Used by tests.
func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop(), config: Config{Level: zapcore.InfoLevel, Encoding: EncodingJSON, Output: "stdout"}}
}

func build(cfg Config) *Logger {
	zapConfig := zap.NewProductionConfig()
	if cfg.Level == zapcore.DebugLevel {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(cfg.Level)
	zapConfig.Encoding = cfg.Encoding
	if cfg.Encoding == EncodingConsole {
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}
	zapConfig.OutputPaths, zapConfig.ErrorOutputPaths = outputPaths(cfg)

	zl, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing zap logger: %v. Falling back to production defaults.\n", err)
		zl, _ = zap.NewProduction()
	}
	return &Logger{Logger: zl, config: cfg}
}

func outputPaths(cfg Config) (out, errOut []string) {
	if !cfg.toFile() {
		return []string{cfg.Output}, []string{"stderr"}
	}
	dir := filepath.Dir(cfg.Output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory %q, logging to stdout: %v\n", dir, err)
		return []string{"stdout"}, []string{"stderr"}
	}
	return []string{cfg.Output, "stdout"}, []string{cfg.Output, "stderr"}
}

// Named adds a new path segment to the logger's name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name), config: l.config}
}

// With adds structured context to the logger.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...), config: l.config}
}
