package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Info("stage finished", "stage", "extract")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["level"] != "info" || entry["msg"] != "stage finished" || entry["stage"] != "extract" {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts: %v", entry)
	}
}

func TestNewConsoleWithoutTerminalHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("frame rendered", "frame", "frame00000001.jpg")
	out := buf.String()
	if !strings.Contains(out, "frame rendered") || !strings.Contains(out, "frame00000001.jpg") {
		t.Fatalf("output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected ANSI escapes: %q", out)
	}
}

func TestNewRejectsUnknownValues(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected format error")
	}
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected level error")
	}
}
