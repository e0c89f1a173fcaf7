package logs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"subforge/internal/logging"
)

// Entry is one decoded JSON log record.
type Entry struct {
	Time      string
	Level     string
	Message   string
	Component string
	RunID     string
	Fields    map[string]any
}

// Filter selects entries. Empty fields match everything.
type Filter struct {
	RunID     string
	Component string
	// MinLevel is one of debug, info, warn, error.
	MinLevel string
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// Parse decodes a JSON log line. ok is false for lines that are not JSON
// objects.
func Parse(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	entry := Entry{Fields: map[string]any{}}
	for key, value := range raw {
		switch key {
		case "ts":
			entry.Time = fmt.Sprint(value)
		case "level":
			entry.Level = strings.ToLower(fmt.Sprint(value))
		case "msg":
			entry.Message = fmt.Sprint(value)
		case logging.FieldComponent:
			entry.Component = fmt.Sprint(value)
		case logging.FieldRunID:
			entry.RunID = fmt.Sprint(value)
		default:
			entry.Fields[key] = value
		}
	}
	return entry, true
}

// Match reports whether entry passes the filter. RunID matches by prefix so
// the short IDs shown by `subforge history` work.
func (f Filter) Match(entry Entry) bool {
	if f.RunID != "" && !strings.HasPrefix(entry.RunID, f.RunID) {
		return false
	}
	if f.Component != "" && !strings.EqualFold(entry.Component, f.Component) {
		return false
	}
	if f.MinLevel != "" {
		floor, ok := levelRank[strings.ToLower(f.MinLevel)]
		if ok && levelRank[entry.Level] < floor {
			return false
		}
	}
	return true
}

// Format renders an entry in the console layout:
// "TS LEVEL component: message key=value ...", keys sorted.
func (e Entry) Format() string {
	var b strings.Builder
	b.WriteString(e.Time)
	b.WriteByte(' ')
	b.WriteString(strings.ToUpper(e.Level))
	b.WriteByte(' ')
	if e.Component != "" {
		b.WriteString(e.Component)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.RunID != "" {
		b.WriteString(" run_id=")
		b.WriteString(e.RunID)
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := fmt.Sprint(e.Fields[key])
		if strings.ContainsAny(value, " =\"") {
			value = fmt.Sprintf("%q", value)
		}
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
	}
	return b.String()
}

// Select parses lines and returns the formatted entries that pass f. Lines
// that are not JSON are passed through unchanged when f is empty.
func Select(lines []string, f Filter) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		entry, ok := Parse(line)
		if !ok {
			if f == (Filter{}) {
				out = append(out, line)
			}
			continue
		}
		if f.Match(entry) {
			out = append(out, entry.Format())
		}
	}
	return out
}
