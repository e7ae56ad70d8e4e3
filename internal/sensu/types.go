package sensu

import (
	"strconv"
	"time"
)

// Item is a single resource record as returned by the backend. Its shape is
// owned by the backend; the helpers below read the fields tensu displays.
type Item map[string]any

// Check status codes as reported by Sensu.
const (
	StatusPassing = 0
	StatusWarning = 1
	StatusFailing = 2
)

const noReason = "(No reason provided)"

// Lookup walks nested maps along path and returns the value found, if any.
func (i Item) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(i)
	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the string at path, or fallback when missing or not a string.
func (i Item) String(fallback string, path ...string) string {
	v, ok := i.Lookup(path...)
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// Int returns the integer at path. JSON numbers decode as float64, so both
// float and integer kinds are accepted.
func (i Item) Int(fallback int64, path ...string) int64 {
	v, ok := i.Lookup(path...)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	case uint64:
		return int64(n)
	case string:
		if parsed, err := strconv.ParseInt(n, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// Bool returns the boolean at path.
func (i Item) Bool(path ...string) bool {
	v, ok := i.Lookup(path...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Strings returns the string slice at path, skipping non-string entries.
func (i Item) Strings(path ...string) []string {
	v, ok := i.Lookup(path...)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Event accessors.

func (i Item) EntityName() string { return i.String("", "entity", "metadata", "name") }
func (i Item) CheckName() string { return i.String("", "check", "metadata", "name") }
func (i Item) CheckOutput() string { return i.String("", "check", "output") }
func (i Item) CheckStatus() int64 { return i.Int(-1, "check", "status") }
func (i Item) IsSilenced() bool { return i.Bool("check", "is_silenced") }
func (i Item) SilencedBy() []string { return i.Strings("check", "silenced") }
func (i Item) Timestamp() time.Time { return unixTime(i.Int(0, "timestamp")) }
func (i Item) Issued() time.Time { return unixTime(i.Int(0, "check", "issued")) }

// CheckState maps the numeric check status to a label.
func (i Item) CheckState() string {
	return StateLabel(i.CheckStatus())
}

// StateLabel maps a check status code to passing/warning/failing/unknown.
func StateLabel(status int64) string {
	switch status {
	case StatusPassing:
		return "passing"
	case StatusWarning:
		return "warning"
	case StatusFailing:
		return "failing"
	default:
		return "unknown"
	}
}

// Silence accessors.

func (i Item) Name() string { return i.String("", "metadata", "name") }
func (i Item) Creator() string { return i.String("", "metadata", "created_by") }
func (i Item) Reason() string { return i.String(noReason, "reason") }
func (i Item) Begin() time.Time { return unixTime(i.Int(0, "begin")) }
func (i Item) ExpireOnResolve() bool { return i.Bool("expire_on_resolve") }
func (i Item) ExpireSeconds() int64 { return i.Int(-1, "expire") }
func (i Item) ExpireAt() time.Time { return unixTime(i.Int(0, "expire_at")) }
func (i Item) SilenceSubscription() string { return i.String("", "subscription") }

// Clone returns a deep copy so callers can mutate an item without touching a
// shared snapshot.
func (i Item) Clone() Item {
	if i == nil {
		return nil
	}
	return cloneValue(map[string]any(i)).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		dup := make(map[string]any, len(t))
		for k, val := range t {
			dup[k] = cloneValue(val)
		}
		return dup
	case Item:
		return Item(cloneValue(map[string]any(t)).(map[string]any))
	case []any:
		dup := make([]any, len(t))
		for idx, val := range t {
			dup[idx] = cloneValue(val)
		}
		return dup
	default:
		return v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Item:
		return m, true
	default:
		return nil, false
	}
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
