package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

type sampleReport struct {
	RunID   string           `json:"run_id"`
	Size    int              `json:"size"`
	Elapsed time.Duration    `json:"elapsed"`
	Ratio   float64          `json:"ratio"`
	Ops     map[string]int64 `json:"ops"`
	Note    string           `json:"note,omitempty"`
	hidden  int
}

func sample() *sampleReport {
	return &sampleReport{
		RunID:   "01HABC",
		Size:    42,
		Elapsed: 1500 * time.Millisecond,
		Ratio:   0.25,
		Ops:     map[string]int64{"put": 3, "get": 7},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) should return *JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("NewFormatter(yaml) should return *YAMLFormatter")
	}
	if _, ok := NewFormatter(FormatTable).(*TableFormatter); !ok {
		t.Error("NewFormatter(table) should return *TableFormatter")
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, sample()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"FIELD", "run_id", "01HABC", "1.5s", "0.25", "ops.get", "ops.put"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("unexported fields should not be rendered")
	}
	if strings.Index(out, "ops.get") > strings.Index(out, "ops.put") {
		t.Error("map rows should be sorted by key")
	}
}

func TestTableFormatter_NestedStruct(t *testing.T) {
	type section struct {
		Level string        `json:"level"`
		Wait  time.Duration `json:"wait"`
	}
	data := struct {
		Log section `json:"log"`
	}{Log: section{Level: "debug", Wait: time.Second}}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	for _, want := range []string{"log.level", "debug", "log.wait", "1s"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	tbl := &Table{Headers: []string{"A", "B"}}
	tbl.AddRow("1", "2")

	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, tbl); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "A") {
		t.Errorf("headers rendered with NoHeaders: %q", buf.String())
	}
}

func TestTableFormatter_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, 42); err == nil {
		t.Error("Format(int) should fail")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sample()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["run_id"] != "01HABC" {
		t.Errorf("run_id = %v, want 01HABC", decoded["run_id"])
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, sample()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"run_id: 01HABC", "size: 42", "elapsed: 1500000000", "ratio: 0.25", "get: 7"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "note") {
		t.Error("omitempty fields should be dropped")
	}
	if strings.Contains(out, `"`) {
		t.Errorf("numbers should encode unquoted:\n%s", out)
	}
}

func TestYAMLFormatter_NumberRanges(t *testing.T) {
	data := map[string]any{
		"neg":   int64(-7),
		"big":   uint64(18446744073709551615),
		"list":  []int{1, 2},
		"ratio": 1.5,
	}

	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"neg: -7", "big: 18446744073709551615", "- 1", "- 2", "ratio: 1.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}
}
