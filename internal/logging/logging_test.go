package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_InfoLevelDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	log.Debug().Msg("hidden")
	log.Warn().Str("field", "name").Msg("company name is required")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if entry["level"] != "warn" || entry["message"] != "company name is required" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestNew_DebugUsesConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)
	log.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected console format, got %q", buf.String())
	}
}

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "workboard.log")
	log, closer := Setup(Options{Path: path})
	log.Info().Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "hello") {
		t.Fatalf("expected log file to contain message, got %q", string(b))
	}
}

func TestSetup_EmptyPathIsNop(t *testing.T) {
	log, closer := Setup(Options{})
	log.Error().Msg("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
