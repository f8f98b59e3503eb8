package main

import (
	"fmt"
	"log/slog"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	if err != nil {
		t.Fatalf("parseConfig() error = %v", err)
	}
	if cfg.tui {
		t.Fatalf("expected desktop mode by default")
	}
	if !cfg.llmEnabled {
		t.Fatalf("expected narration enabled by default")
	}
	if cfg.replyTimeout != 3*time.Second {
		t.Fatalf("replyTimeout = %v, want 3s", cfg.replyTimeout)
	}
	if cfg.model == "" {
		t.Fatalf("expected a default model")
	}
	if cfg.logLevel != slog.LevelInfo {
		t.Fatalf("logLevel = %v, want info", cfg.logLevel)
	}
}

func TestParseConfigRejectsBadTimeout(t *testing.T) {
	if _, err := parseConfig([]string{"--reply-timeout", "0"}); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
	if _, err := parseConfig([]string{"--reply-timeout", "-5"}); err == nil {
		t.Fatalf("expected error for negative timeout")
	}
}

func TestParseConfigRejectsExtraArgs(t *testing.T) {
	if _, err := parseConfig([]string{"--tui", "leftover"}); err == nil {
		t.Fatalf("expected error for unexpected positional arguments")
	}
}

func TestParseConfigRejectsEmptyModel(t *testing.T) {
	if _, err := parseConfig([]string{"--model", "  "}); err == nil {
		t.Fatalf("expected error for blank model")
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		raw     string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{" WARN ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"bogus", slog.LevelInfo, true},
	}
	for _, tc := range cases {
		got, err := parseLogLevel(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseLogLevel(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseLogLevel(%q) error = %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestLineSinkWriterSplitsLines(t *testing.T) {
	var got []string
	w := &lineSinkWriter{sink: func(line string) { got = append(got, line) }}

	fmt.Fprintf(w, "first line\nsecond ")
	fmt.Fprintf(w, "line\n\n")

	if len(got) != 2 || got[0] != "first line" || got[1] != "second line" {
		t.Fatalf("sink lines = %v, want [first line, second line]", got)
	}
}
