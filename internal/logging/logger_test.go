package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	component := NewComponentLogger(logger, "clid")
	component.Info("command channel listening",
		String(FieldInterface, "net0"),
		String("socket", "/run/cmdchan-net0.sock"))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO clid: command channel listening") {
		t.Fatalf("unexpected line %q", line)
	}
	if !strings.Contains(line, "interface=net0") {
		t.Fatalf("missing interface attr in %q", line)
	}
	if !strings.Contains(line, "socket=/run/cmdchan-net0.sock") {
		t.Fatalf("missing socket attr in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be folded into the prefix, got %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar)))

	logger.Warn("command rejected", String("line", "dataset active"))

	if !strings.Contains(buf.String(), `line="dataset active"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar)))

	logger.Info("daemon started", String(FieldEventType, "daemon_started"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if record["msg"] != "daemon started" {
		t.Fatalf("unexpected msg %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("expected ts field")
	}
	if record[FieldEventType] != "daemon_started" {
		t.Fatalf("unexpected event type %v", record[FieldEventType])
	}
}

func TestNewWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "cmdchand.log")
	logger, err := New(Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("wake pipe drained")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "wake pipe drained") {
		t.Fatalf("expected record in file, got %q", data)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWarnWithContextFillsRequiredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, new(slog.LevelVar)))

	WarnWithContext(logger, "failed to record command line", "history_record_failed")

	line := buf.String()
	for _, key := range []string{FieldEventType, FieldErrorHint, FieldImpact} {
		if !strings.Contains(line, key+"=") {
			t.Fatalf("missing %s in %q", key, line)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
