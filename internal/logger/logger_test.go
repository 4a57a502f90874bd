package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug message", nil)
	l.Info("info message", nil)
	l.Warn("warn message", nil)
	l.Error("error message", nil, errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below min level should be discarded")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("messages at or above min level should be logged")
	}
}

func TestLoggerJSONShape(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Info("facility collected", Fields{"facility_id": "f1", "records": 3})

	var e map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if e["level"] != "INFO" {
		t.Errorf("level = %v", e["level"])
	}
	if e["message"] != "facility collected" {
		t.Errorf("message = %v", e["message"])
	}
	fields, ok := e["fields"].(map[string]interface{})
	if !ok {
		t.Fatal("fields missing")
	}
	if fields["facility_id"] != "f1" {
		t.Errorf("facility_id field = %v", fields["facility_id"])
	}
}

func TestLoggerErrorField(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelInfo, &buf)

	l.Error("fetch failed", nil, errors.New("connection refused"))

	if !strings.Contains(buf.String(), "connection refused") {
		t.Error("error detail should appear in output")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"nonsense", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.Add("records.inserted", 3)
	m.Add("records.inserted", 2)

	if got := m.Counter("records.inserted"); got != 5 {
		t.Errorf("counter = %d, want 5", got)
	}
	if got := m.Counter("missing"); got != 0 {
		t.Errorf("missing counter = %d, want 0", got)
	}
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.Add("runs", 1)
	m.RecordTiming("collect", 100*time.Millisecond)
	m.RecordTiming("collect", 300*time.Millisecond)

	snap := m.Snapshot()
	counters := snap["counters"].(map[string]int64)
	if counters["runs"] != 1 {
		t.Errorf("runs counter = %d", counters["runs"])
	}

	timings := snap["timings"].(map[string]map[string]string)
	stats, ok := timings["collect"]
	if !ok {
		t.Fatal("collect timing missing")
	}
	if stats["count"] != "2" {
		t.Errorf("count = %s, want 2", stats["count"])
	}
	if stats["min"] != "100ms" || stats["max"] != "300ms" {
		t.Errorf("min/max = %s/%s", stats["min"], stats["max"])
	}
}
