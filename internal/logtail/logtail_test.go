package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v, want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	line := `{"time":"2025-10-08T21:01:05.123Z","level":"WARN","msg":"sweep failed","component":"poller","status":502,"error":"bad gateway from backend"}`
	entry, ok := Parse(line)
	if !ok {
		t.Fatal("Parse() ok = false, want true")
	}
	if entry.Level != "WARN" || entry.Message != "sweep failed" || entry.Component != "poller" {
		t.Fatalf("entry = %#v", entry)
	}
	if !entry.Time.Equal(time.Date(2025, 10, 8, 21, 1, 5, 123000000, time.UTC)) {
		t.Fatalf("Time = %v", entry.Time)
	}
	want := []Attr{{Key: "error", Value: `"bad gateway from backend"`}, {Key: "status", Value: "502"}}
	if !reflect.DeepEqual(entry.Attrs, want) {
		t.Fatalf("Attrs = %#v, want %#v", entry.Attrs, want)
	}

	for _, bad := range []string{"", "plain text", "{not json"} {
		if _, ok := Parse(bad); ok {
			t.Fatalf("Parse(%q) ok = true, want false", bad)
		}
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "non json passes through",
			input:    "panic: something",
			expected: "panic: something",
		},
		{
			name:     "no time no component",
			input:    `{"level":"INFO","msg":"starting"}`,
			expected: "INFO  starting",
		},
		{
			name:     "component and attrs",
			input:    `{"level":"ERROR","msg":"fetch failed","component":"fetch","resource":"events"}`,
			expected: "ERROR [fetch] fetch failed resource=events",
		},
		{
			name:     "nested attr",
			input:    `{"level":"DEBUG","msg":"m","q":{"limit":500}}`,
			expected: `DEBUG m q={"limit":500}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.input, false); got != tt.expected {
				t.Errorf("FormatLine() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatLines(t *testing.T) {
	input := []string{`{"level":"INFO","msg":"a"}`, "raw"}
	got := FormatLines(input, false)
	want := []string{"INFO  a", "raw"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FormatLines() = %q, want %q", got, want)
	}
}
