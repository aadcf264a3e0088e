// Package logging builds the zerolog logger used by the command line tools.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "BUNDLER_LOG_LEVEL"
	EnvLogNoColor = "BUNDLER_LOG_NOCOLOR"
	EnvLogJSON    = "BUNDLER_LOG_JSON"
)

// Config controls where and how log lines are written.
type Config struct {
	Level   zerolog.Level
	NoColor bool
	JSON    bool
}

// DefaultConfig returns info-level logging, pretty-printed when out is a terminal.
func DefaultConfig(out io.Writer) Config {
	return Config{
		Level: zerolog.InfoLevel,
		JSON:  !isTerminal(out),
	}
}

// FromEnv applies BUNDLER_LOG_* overrides from getenv on top of cfg.
func FromEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		return cfg
	}
	if lvl, ok := ParseLevel(getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(getenv(EnvLogJSON)); ok {
		cfg.JSON = v
	}
	return cfg
}

// New returns a logger writing to out.
func New(out io.Writer, cfg Config) zerolog.Logger {
	w := out
	if !cfg.JSON {
		w = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    cfg.NoColor,
			TimeFormat: time.Kitchen,
		}
	}
	return zerolog.New(w).Level(cfg.Level).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level. Empty or unknown input
// reports false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "off", "disabled":
		return zerolog.Disabled, true
	}
	return zerolog.InfoLevel, false
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
