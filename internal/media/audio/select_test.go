package audio

import (
	"testing"

	"subforge/internal/media/ffprobe"
)

func TestSelectPrefersPreferredLanguage(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "video"},
		{
			Index:       1,
			CodecType:   "audio",
			CodecName:   "truehd",
			Channels:    8,
			Tags:        map[string]string{"language": "eng"},
			Disposition: map[string]int{"default": 1},
		},
		{
			Index:     2,
			CodecType: "audio",
			CodecName: "ac3",
			Channels:  2,
			Tags:      map[string]string{"language": "jpn"},
		},
	}

	sel := Select(streams, "ja")
	if sel.Index != 2 {
		t.Fatalf("expected japanese track (index 2), got %d", sel.Index)
	}
	if !sel.LanguageMatched {
		t.Fatal("expected language match")
	}
	if sel.Language != "jpn" {
		t.Fatalf("unexpected language %q", sel.Language)
	}
}

func TestSelectPushesCommentaryDown(t *testing.T) {
	streams := []ffprobe.Stream{
		{
			Index:       1,
			CodecType:   "audio",
			CodecName:   "ac3",
			Channels:    2,
			Tags:        map[string]string{"language": "eng", "title": "Director's Commentary"},
			Disposition: map[string]int{"default": 1},
		},
		{
			Index:     2,
			CodecType: "audio",
			CodecName: "dts",
			Channels:  6,
			Tags:      map[string]string{"language": "eng", "title": "Main"},
		},
	}

	sel := Select(streams, "en")
	if sel.Index != 2 {
		t.Fatalf("expected main feature track (index 2), got %d", sel.Index)
	}
}

func TestSelectUsesDefaultWithoutLanguage(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 1, CodecType: "audio", Channels: 2, Tags: map[string]string{"language": "fra"}},
		{Index: 2, CodecType: "audio", Channels: 2, Tags: map[string]string{"language": "deu"}, Disposition: map[string]int{"default": 1}},
	}

	sel := Select(streams, "")
	if sel.Index != 2 {
		t.Fatalf("expected default-flagged track, got %d", sel.Index)
	}
	if sel.LanguageMatched {
		t.Fatal("no language was requested")
	}
}

func TestSelectFallsBackWhenLanguageMissing(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "audio", CodecName: "dts", Channels: 6, Tags: map[string]string{"language": "jpn"}},
		{Index: 1, CodecType: "audio", CodecName: "ac3", Channels: 2, Tags: map[string]string{"language": "fra"}},
	}

	sel := Select(streams, "en")
	if sel.Index != 0 {
		t.Fatalf("expected first audio stream as fallback, got %d", sel.Index)
	}
	if sel.LanguageMatched {
		t.Fatal("expected no language match")
	}
}

func TestSelectWithoutAudio(t *testing.T) {
	sel := Select([]ffprobe.Stream{{Index: 0, CodecType: "video"}}, "en")
	if sel.Found() {
		t.Fatalf("expected no selection, got %+v", sel)
	}
	if sel.Label() != "" {
		t.Fatalf("expected empty label, got %q", sel.Label())
	}
}

func TestChannelCountFromLayout(t *testing.T) {
	tests := []struct {
		layout string
		want   int
	}{
		{"", 0},
		{"mono", 1},
		{"stereo", 2},
		{"5.1(side)", 6},
		{"7.1", 8},
	}
	for _, tc := range tests {
		if got := channelCount(ffprobe.Stream{ChannelLayout: tc.layout}); got != tc.want {
			t.Errorf("channelCount(%q) = %d, want %d", tc.layout, got, tc.want)
		}
	}
}

func TestLabel(t *testing.T) {
	sel := Selection{
		Index:  3,
		Stream: ffprobe.Stream{Index: 3, CodecName: "aac", Channels: 2, Tags: map[string]string{"language": "eng", "title": "Stereo"}},
	}
	if got := sel.Label(); got != "eng | aac | 2ch | Stereo" {
		t.Fatalf("unexpected label %q", got)
	}
}
