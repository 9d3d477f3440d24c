package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// records decodes one JSON object per line of buf.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, rec)
	}
	return out
}

func runContext() context.Context {
	ctx := WithRunID(context.Background(), "run-01")
	ctx = WithWorker(ctx, 2)
	return WithContainer(ctx, "stress")
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   []string
	}{
		{"json", "json", []string{`"msg":"worker finished"`, `"run_id":"run-01"`, `"worker":2`, `"container":"stress"`}},
		{"default is json", "", []string{`"msg":"worker finished"`, `"run_id":"run-01"`}},
		{"text", "text", []string{"msg=\"worker finished\"", "run_id=run-01", "worker=2", "container=stress"}},
		{"console", "console", []string{"run_id=run-01", "container=stress"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(Config{Level: "info", Format: tt.format, Output: &buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			l.WithContext(runContext()).Info("worker finished")

			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q does not contain %q", buf.String(), w)
				}
			}
		})
	}
}

func TestSetLevel_Reload(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	// Handed out before the reload, as the snapshot store and the HTTP
	// middleware hold theirs.
	bridged := Slog(l)

	l.Debug("before reload")
	bridged.Debug("before reload")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %s", buf.String())
	}

	SetLevel("debug")
	l.Debug("after reload")
	bridged.Debug("after reload")
	if got := len(records(t, &buf)); got != 2 {
		t.Fatalf("got %d records after SetLevel(debug), want 2", got)
	}

	buf.Reset()
	SetLevel("warn")
	l.Info("suppressed")
	bridged.Info("suppressed")
	l.Warn("kept")
	recs := records(t, &buf)
	if len(recs) != 1 || recs[0]["msg"] != "kept" {
		t.Errorf("records after SetLevel(warn) = %v, want only %q", recs, "kept")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlog_CarriesRunTags(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sl := Slog(l)

	sl.InfoContext(runContext(), "value log GC", "table", 3)
	sl.Info("store opened")

	recs := records(t, &buf)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	tagged, plain := recs[0], recs[1]
	if tagged["run_id"] != "run-01" || tagged["container"] != "stress" {
		t.Errorf("tagged record = %v, want run_id and container", tagged)
	}
	if tagged["worker"] != float64(2) || tagged["table"] != float64(3) {
		t.Errorf("tagged record = %v, want worker=2 table=3", tagged)
	}
	for _, k := range []string{KeyRunID, KeyWorker, KeyContainer} {
		if _, ok := plain[k]; ok {
			t.Errorf("record without context has %s: %v", k, plain)
		}
	}
}

func TestSlog_OtherLogger(t *testing.T) {
	if got := Slog(nil); got != slog.Default() {
		t.Error("Slog(nil) should return slog.Default()")
	}
}

func TestLogger_WithKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.WithContext(runContext()).With("kind", "set").Error("stress verification failed")

	recs := records(t, &buf)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0]["kind"] != "set" || recs[0]["run_id"] != "run-01" {
		t.Errorf("record = %v, want kind and run_id", recs[0])
	}
	if recs[0]["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", recs[0]["level"])
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	SetDefault(l)

	L(WithRunID(context.Background(), "run-02")).Info("soak started")

	recs := records(t, &buf)
	if len(recs) != 1 || recs[0]["run_id"] != "run-02" {
		t.Errorf("records = %v, want one soak record with run_id run-02", recs)
	}
}
