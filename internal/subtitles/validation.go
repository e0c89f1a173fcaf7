package subtitles

import (
	"fmt"
	"math"
)

// Validate inspects decoded records for problems a player would trip over.
// It returns human-readable issue tags; an empty slice means the track looks
// sound. Validation never rewrites the records.
func Validate(records []Record) []string {
	if len(records) == 0 {
		return []string{"empty_subtitle_file"}
	}
	var issues []string
	var previousStart float64
	for i, rec := range records {
		if rec.Index != i+1 {
			issues = append(issues, fmt.Sprintf("index_gap: position %d has index %d", i+1, rec.Index))
		}
		start, end, err := ParseTiming(rec.Timing)
		if err != nil {
			issues = append(issues, fmt.Sprintf("invalid_timing: index %d: %v", rec.Index, err))
			continue
		}
		if end < start {
			issues = append(issues, fmt.Sprintf("negative_duration: index %d", rec.Index))
		}
		if i > 0 && start < previousStart {
			issues = append(issues, fmt.Sprintf("out_of_order: index %d", rec.Index))
		}
		previousStart = start
	}
	return issues
}

// ValidateFile reads path and validates its records.
func ValidateFile(path string) []string {
	records, err := ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error: %v", err)}
	}
	return Validate(records)
}

// Bounds returns the earliest start and latest end across records with
// parseable timing. ok is false when no timing could be parsed.
func Bounds(records []Record) (first, last float64, ok bool) {
	first = math.Inf(1)
	for _, rec := range records {
		start, end, err := ParseTiming(rec.Timing)
		if err != nil {
			continue
		}
		ok = true
		if start < first {
			first = start
		}
		if end > last {
			last = end
		}
	}
	if !ok {
		return 0, 0, false
	}
	return first, last, true
}
