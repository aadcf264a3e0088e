package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw    string
		want   zerolog.Level
		wantOK bool
	}{
		{"", zerolog.InfoLevel, false},
		{"bogus", zerolog.InfoLevel, false},
		{"trace", zerolog.TraceLevel, true},
		{" DEBUG ", zerolog.DebugLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.raw)
		assert.Equal(t, tt.wantOK, ok, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestDefaultConfigNonTerminal(t *testing.T) {
	cfg := DefaultConfig(&bytes.Buffer{})
	assert.True(t, cfg.JSON)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level)
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:   "debug",
		EnvLogNoColor: "true",
		EnvLogJSON:    "false",
	}
	cfg := FromEnv(Config{Level: zerolog.InfoLevel, JSON: true}, func(k string) string { return env[k] })
	assert.Equal(t, Config{Level: zerolog.DebugLevel, NoColor: true, JSON: false}, cfg)

	unchanged := FromEnv(cfg, func(string) string { return "" })
	assert.Equal(t, cfg, unchanged)
	assert.Equal(t, cfg, FromEnv(cfg, nil))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Level: zerolog.InfoLevel, JSON: true})

	log.Debug().Msg("hidden")
	log.Info().Str("archive", "a.zip").Msg("release archive created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "a.zip", line["archive"])
	assert.Equal(t, "release archive created", line["message"])
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Level: zerolog.DebugLevel, NoColor: true})

	log.Debug().Str("entry", "LICENSE").Msg("added")
	assert.Contains(t, buf.String(), "added")
	assert.Contains(t, buf.String(), "entry=LICENSE")
}
