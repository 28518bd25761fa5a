package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "totals updated",
			fields:  Fields{"goal": "7000"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "server failed",
			err:     errors.New("listen tcp: address in use"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Errorf("log() logged = %v, want %v", logged, tt.want)
			}
		})
	}
}

func TestLogger_EntryShape(t *testing.T) {
	var buf bytes.Buffer
	New(LevelDebug, &buf).Error("widget fetch failed", Fields{"url": "https://example.com"}, errors.New("timeout"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry.Level != "ERROR" {
		t.Errorf("Level = %q, want ERROR", entry.Level)
	}
	if entry.Message != "widget fetch failed" {
		t.Errorf("Message = %q", entry.Message)
	}
	if entry.Error != "timeout" {
		t.Errorf("Error = %q, want timeout", entry.Error)
	}
	if entry.Fields["url"] != "https://example.com" {
		t.Errorf("Fields[url] = %v", entry.Fields["url"])
	}
	if _, err := time.Parse(time.RFC3339, entry.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", entry.Timestamp, err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("log line should end with a newline")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"", LevelInfo, false},
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"verbose", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(tt.minLevel, &buf).log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("proxy.requests")
	m.IncrCounter("proxy.requests")
	m.IncrCounter("proxy.requests")

	if got := m.GetSnapshot().Counters["proxy.requests"]; got != 3 {
		t.Errorf("Counter = %v, want 3", got)
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("totals.raised", 1000)
	m.SetGauge("totals.raised", 3250)

	if got := m.GetSnapshot().Gauges["totals.raised"]; got != 3250 {
		t.Errorf("Gauge = %v, want 3250", got)
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("scraper.fetch", 100*time.Millisecond)
	m.RecordTiming("scraper.fetch", 200*time.Millisecond)
	m.RecordTiming("scraper.fetch", 150*time.Millisecond)

	timing := m.GetSnapshot().Timings["scraper.fetch"]
	if timing.Count != 3 {
		t.Errorf("Timing count = %v, want 3", timing.Count)
	}
	if timing.Min != "100ms" {
		t.Errorf("Min timing = %v, want 100ms", timing.Min)
	}
	if timing.Max != "200ms" {
		t.Errorf("Max timing = %v, want 200ms", timing.Max)
	}
	if timing.Average != "150ms" {
		t.Errorf("Average timing = %v, want 150ms", timing.Average)
	}
}

func TestMetrics_TimingBounded(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < maxTimingSamples+10; i++ {
		m.RecordTiming("scraper.fetch", time.Millisecond)
	}
	if got := m.GetSnapshot().Timings["scraper.fetch"].Count; got != maxTimingSamples {
		t.Errorf("Timing count = %d, want %d", got, maxTimingSamples)
	}
}

func TestMetrics_SnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("a")

	snap := m.GetSnapshot()
	snap.Counters["a"] = 100

	if got := m.GetSnapshot().Counters["a"]; got != 1 {
		t.Errorf("mutating a snapshot changed the tracker: got %d", got)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(LevelDebug, &buf))
	defer SetDefault(New(LevelInfo, &bytes.Buffer{}))

	Debug("test debug", nil)
	Info("test info", Fields{"key": "value"})
	Warn("test warning", nil)
	Error("test error", Fields{"component": "test"}, errors.New("test"))

	if lines := strings.Count(buf.String(), "\n"); lines != 4 {
		t.Errorf("default logger wrote %d lines, want 4", lines)
	}

	IncrCounter("test")
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	snap := GetMetricsSnapshot()
	if snap.Counters["test"] < 1 {
		t.Error("GetMetricsSnapshot() missing counter")
	}
}
