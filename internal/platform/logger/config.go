package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

const (
	EncodingJSON    = "json"
	EncodingConsole = "console"
)

// Config is the parsed logger setup. Invalid settings fall back to defaults
// and are listed in Problems so they can be logged once the logger exists.
type Config struct {
	Level    zapcore.Level
	Encoding string
	// Output is stdout, stderr or a file path. Files also get a copy on stdout.
	Output   string
	Problems []string
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT_FILE.
func ConfigFromEnv() Config {
	cfg := Config{Level: zapcore.InfoLevel, Encoding: EncodingJSON, Output: "stdout"}

	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		level, err := parseLevel(raw)
		if err != nil {
			cfg.Problems = append(cfg.Problems, err.Error())
		} else {
			cfg.Level = level
		}
	}

	switch format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))); format {
	case "", EncodingJSON:
	case EncodingConsole, "text":
		cfg.Encoding = EncodingConsole
	default:
		cfg.Problems = append(cfg.Problems, fmt.Sprintf("unknown LOG_FORMAT %q, using json", format))
	}

	if out := strings.TrimSpace(os.Getenv("LOG_OUTPUT_FILE")); out != "" {
		cfg.Output = out
	}
	return cfg
}

// parseLevel accepts zap level names plus "warning".
func parseLevel(raw string) (zapcore.Level, error) {
	name := strings.ToLower(raw)
	if name == "warning" {
		name = "warn"
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown LOG_LEVEL %q, using info", raw)
	}
	return level, nil
}

func (c Config) toFile() bool {
	return c.Output != "stdout" && c.Output != "stderr"
}
