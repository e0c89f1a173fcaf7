package subtitles

import (
	"strings"

	"subforge/internal/textutil"
)

// MergeThreshold is the similarity a segment must strictly exceed before it is
// treated as a repeat of the segment before it.
const MergeThreshold = 0.7

// Segment is a single transcription result as produced by a speech-to-text
// backend. Times are seconds from the start of the audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns End-Start.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Consolidate collapses runs of near-identical consecutive segments. When two
// neighbours score above MergeThreshold the one with the strictly longer
// duration survives (ties keep the earlier one) and the other is discarded,
// span included. The input slice is never modified.
func Consolidate(segments []Segment) []Segment {
	if len(segments) == 0 {
		return nil
	}
	out := make([]Segment, 0, len(segments))
	current := segments[0]
	for _, next := range segments[1:] {
		if textutil.EditSimilarity(current.Text, next.Text) > MergeThreshold {
			if next.Duration() > current.Duration() {
				current = next
			}
			continue
		}
		out = append(out, current)
		current = next
	}
	return append(out, current)
}

// RecordsFromSegments numbers segments from 1 and renders their timing.
func RecordsFromSegments(segments []Segment) []Record {
	records := make([]Record, 0, len(segments))
	for i, seg := range segments {
		records = append(records, Record{
			Index:  i + 1,
			Timing: FormatTiming(seg.Start, seg.End),
			Text:   strings.TrimSpace(seg.Text),
		})
	}
	return records
}
