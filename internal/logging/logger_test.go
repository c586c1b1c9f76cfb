// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// Tests in this file mutate the global logger and must not run in parallel.

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "info" || cfg.Format != "json" || !cfg.Timestamp || cfg.Caller {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("field", "title").Msg("index built")

	out := buf.String()
	for _, want := range []string{`"level":"info"`, `"message":"index built"`, `"field":"title"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("hidden")
	Info().Msg("hidden")
	Warn().Msg("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("entries below warn were written: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn entry missing")
	}
	if GetLevel() != zerolog.WarnLevel {
		t.Errorf("GetLevel() = %v", GetLevel())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestComponentAndErr(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(DefaultConfig())

	l := Component("catalog")
	l.Info().Msg("loaded")
	Err(errors.New("disk full")).Msg("write failed")

	out := buf.String()
	if !strings.Contains(out, `"component":"catalog"`) {
		t.Errorf("component field missing: %s", out)
	}
	if !strings.Contains(out, `"error":"disk full"`) || !strings.Contains(out, `"level":"error"`) {
		t.Errorf("Err entry malformed: %s", out)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	defer Init(DefaultConfig())

	SetLevel("error")
	Warn().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("warn written after SetLevel(error): %s", buf.String())
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewTestLogger(&buf)
	l.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("test logger should write debug entries")
	}
}
