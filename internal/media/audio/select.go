package audio

import (
	"strconv"
	"strings"

	"subforge/internal/language"
	"subforge/internal/media/ffprobe"
)

// Selection identifies the audio stream that should feed transcription.
type Selection struct {
	Stream ffprobe.Stream
	// Index is the absolute stream index usable with ffmpeg "-map 0:<idx>",
	// or -1 when the container has no audio.
	Index    int
	Language string
	// LanguageMatched reports whether the preferred language was found.
	LanguageMatched bool
}

// Found reports whether an audio stream was selected.
func (s Selection) Found() bool {
	return s.Index >= 0
}

// Label returns a human-readable summary of the selected stream.
func (s Selection) Label() string {
	if !s.Found() {
		return ""
	}
	return formatStreamSummary(s.Stream)
}

// Select picks the audio stream to transcribe. A stream tagged with the
// preferred language wins over any other; within that group the default
// disposition is preferred and commentary or descriptive tracks are pushed
// down. Without a preferred language, or when nothing matches, the same
// ranking is applied to every audio stream.
func Select(streams []ffprobe.Stream, preferredLanguage string) Selection {
	candidates := buildCandidates(streams, preferredLanguage)
	if len(candidates) == 0 {
		return Selection{Index: -1}
	}

	best := candidates[0]
	bestScore := score(best)
	for _, cand := range candidates[1:] {
		if s := score(cand); s > bestScore {
			best, bestScore = cand, s
		}
	}
	return Selection{
		Stream:          best.stream,
		Index:           best.stream.Index,
		Language:        best.language,
		LanguageMatched: best.languageMatch,
	}
}

type candidate struct {
	stream         ffprobe.Stream
	order          int
	language       string
	title          string
	languageMatch  bool
	defaultFlagged bool
	commentary     bool
	channels       int
}

func buildCandidates(streams []ffprobe.Stream, preferredLanguage string) []candidate {
	var result []candidate
	for _, stream := range streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		cand := candidate{
			stream:         stream,
			order:          len(result),
			language:       language.ExtractFromTags(stream.Tags),
			title:          normalizeTitle(stream.Tags),
			defaultFlagged: stream.Disposition["default"] == 1,
			channels:       channelCount(stream),
		}
		cand.languageMatch = preferredLanguage != "" && language.Matches(cand.language, preferredLanguage)
		cand.commentary = isCommentary(stream, cand.title)
		result = append(result, cand)
	}
	return result
}

func score(cand candidate) float64 {
	total := 0.0
	if cand.languageMatch {
		total += 1000
	}
	if cand.commentary {
		total -= 500
	}
	if cand.defaultFlagged {
		total += 100
	}
	if cand.channels >= 6 {
		total += 10
	}
	total -= float64(cand.order) * 0.1
	return total
}

func isCommentary(stream ffprobe.Stream, title string) bool {
	if stream.Disposition["comment"] == 1 || stream.Disposition["visual_impaired"] == 1 {
		return true
	}
	for _, keyword := range []string{"commentary", "comment", "descriptive", "audio description"} {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

func normalizeTitle(tags map[string]string) string {
	for _, key := range []string{"title", "TITLE", "handler_name", "HANDLER_NAME"} {
		if value, ok := tags[key]; ok {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}

func channelCount(stream ffprobe.Stream) int {
	if stream.Channels > 0 {
		return stream.Channels
	}
	layout := strings.ToLower(strings.TrimSpace(stream.ChannelLayout))
	switch {
	case layout == "":
		return 0
	case layout == "mono":
		return 1
	case layout == "stereo":
		return 2
	}
	total := 0
	for _, part := range strings.Split(layout, ".") {
		part = strings.Trim(part, "abcdefghijklmnopqrstuvwxyz ()")
		if n, err := strconv.Atoi(part); err == nil {
			total += n
		}
	}
	return total
}

func formatStreamSummary(stream ffprobe.Stream) string {
	parts := make([]string, 0, 4)
	if lang := language.ExtractFromTags(stream.Tags); lang != "" {
		parts = append(parts, lang)
	}
	codec := stream.CodecLong
	if codec == "" {
		codec = stream.CodecName
	}
	if codec != "" {
		parts = append(parts, codec)
	}
	if stream.Channels > 0 {
		parts = append(parts, strconv.Itoa(stream.Channels)+"ch")
	}
	if title := strings.TrimSpace(stream.Tags["title"]); title != "" {
		parts = append(parts, title)
	}
	if len(parts) == 0 {
		return "audio #" + strconv.Itoa(stream.Index)
	}
	return strings.Join(parts, " | ")
}
