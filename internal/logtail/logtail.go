package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one structured log record.
type Entry struct {
	Time      time.Time
	Level     string
	Component string
	Message   string
	Attrs     []Attr
}

// Attr is a key/value pair from a log record.
type Attr struct {
	Key   string
	Value string
}

// Parse decodes a JSON log line written by tensu's slog handler. Lines that
// are not JSON objects return ok=false.
func Parse(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return Entry{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Entry{}, false
	}

	entry := Entry{}
	if ts, ok := raw["time"].(string); ok {
		entry.Time, _ = time.Parse(time.RFC3339Nano, ts)
	}
	entry.Level, _ = raw["level"].(string)
	entry.Message, _ = raw["msg"].(string)
	entry.Component, _ = raw["component"].(string)

	keys := make([]string, 0, len(raw))
	for k := range raw {
		switch k {
		case "time", "level", "msg", "component":
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		entry.Attrs = append(entry.Attrs, Attr{Key: k, Value: formatValue(raw[k])})
	}
	return entry, true
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		if strings.ContainsAny(t, " \t") {
			return fmt.Sprintf("%q", t)
		}
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case nil:
		return "null"
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(encoded)
	}
}

var (
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	componentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF"))
	keyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	levelStyles    = map[string]lipgloss.Style{
		"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
		"INFO":  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
		"WARN":  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
)

// FormatLine renders a JSON log line for humans. Lines that do not parse are
// returned unchanged.
func FormatLine(line string, color bool) string {
	entry, ok := Parse(line)
	if !ok {
		return line
	}

	paint := func(s lipgloss.Style, text string) string {
		if !color || text == "" {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	if !entry.Time.IsZero() {
		b.WriteString(paint(timeStyle, entry.Time.Local().Format("2006-01-02 15:04:05")))
		b.WriteByte(' ')
	}
	level := strings.ToUpper(entry.Level)
	b.WriteString(paint(levelStyles[level], fmt.Sprintf("%-5s", level)))
	if entry.Component != "" {
		b.WriteByte(' ')
		b.WriteString(paint(componentStyle, "["+entry.Component+"]"))
	}
	b.WriteString(" ")
	b.WriteString(entry.Message)
	for _, attr := range entry.Attrs {
		b.WriteByte(' ')
		b.WriteString(paint(keyStyle, attr.Key+"="))
		b.WriteString(attr.Value)
	}
	return b.String()
}

// FormatLines applies FormatLine to each line.
func FormatLines(lines []string, color bool) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = FormatLine(line, color)
	}
	return out
}
