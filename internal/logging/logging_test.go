// Package logging provides tests for logger construction and session files.
package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"ERROR", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"text", log.TextFormatter},
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"", log.TextFormatter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormatter(tt.input); got != tt.want {
				t.Errorf("ParseFormatter(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Run("level filters messages", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewFromConfig(&buf, "warn", "text", false, false)

		logger.Info("hidden")
		logger.Warn("shown", "id", 7)

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info message should be filtered, got: %s", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "id=7") {
			t.Errorf("expected warn message with field, got: %s", out)
		}
		if !strings.Contains(out, DefaultPrefix) {
			t.Errorf("expected prefix %q, got: %s", DefaultPrefix, out)
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewFromConfig(&buf, "debug", "json", false, false)
		logger.Debug("task added", "id", 1)

		out := strings.TrimSpace(buf.String())
		if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"msg":"task added"`) {
			t.Errorf("expected JSON log line, got: %s", out)
		}
	})
}

func TestDiscard(t *testing.T) {
	// Must not panic and must not write anywhere visible.
	Discard().Error("nothing to see")
}

func TestNewSession(t *testing.T) {
	t.Run("creates file in nested dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs", "nested")

		session, err := NewSession(dir)
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		defer session.Close()

		if session.ID == "" {
			t.Error("expected ID to be set")
		}
		if filepath.Dir(session.LogPath) != session.Dir {
			t.Errorf("LogPath %q not in Dir %q", session.LogPath, session.Dir)
		}
		if _, err := os.Stat(session.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}

		logger := NewFromConfig(session.Writer(), "info", "logfmt", false, false)
		logger.Info("session started")
		if err := session.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		data, err := os.ReadFile(session.LogPath)
		if err != nil {
			t.Fatalf("read log: %v", err)
		}
		if !strings.Contains(string(data), "session started") {
			t.Errorf("log file missing message: %s", data)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		_, err := NewSession("")
		if err == nil || !strings.Contains(err.Error(), "empty") {
			t.Fatalf("expected empty dir error, got %v", err)
		}
	})

	t.Run("ids are unique", func(t *testing.T) {
		dir := t.TempDir()
		a, err := NewSession(dir)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()
		b, err := NewSession(dir)
		if err != nil {
			t.Fatal(err)
		}
		defer b.Close()
		if a.ID == b.ID {
			t.Errorf("expected distinct session IDs, both %q", a.ID)
		}
	})

	t.Run("nil session close", func(t *testing.T) {
		var s *Session
		if err := s.Close(); err != nil {
			t.Errorf("nil Close: %v", err)
		}
	})
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "absent"))
		if err != nil || got != "" {
			t.Errorf("got (%q, %v), want empty", got, err)
		}
	})

	t.Run("picks newest log", func(t *testing.T) {
		dir := t.TempDir()
		older := filepath.Join(dir, "a.log")
		newer := filepath.Join(dir, "b.log")
		other := filepath.Join(dir, "c.txt")
		for _, p := range []string{older, newer, other} {
			if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		past := time.Now().Add(-time.Hour)
		if err := os.Chtimes(older, past, past); err != nil {
			t.Fatal(err)
		}

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatalf("FindLatestLog: %v", err)
		}
		if got != newer {
			t.Errorf("got %q, want %q", got, newer)
		}
	})
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\nfour\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree\nfour\n"},
		{2, "three\nfour\n"},
		{10, "one\ntwo\nthree\nfour\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(&buf, path, tt.n); err != nil {
			t.Fatalf("TailLog(%d): %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog(%d): got %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	if err := TailLog(&bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.log"), 1); err == nil {
		t.Error("expected error for missing file")
	}
}
