package logs_test

import (
	"testing"

	"subforge/internal/logs"
)

var sample = []string{
	`{"ts":"2026-01-02T03:04:05Z","level":"info","msg":"pipeline run started","component":"pipeline","run_id":"abc12345-0000","output_dir":"/tmp/out dir"}`,
	`{"ts":"2026-01-02T03:04:06Z","level":"debug","msg":"record translated","component":"translation","run_id":"abc12345-0000","index":1}`,
	`{"ts":"2026-01-02T03:04:07Z","level":"warn","msg":"failed to record run history","component":"pipeline","run_id":"ffff0000-1111"}`,
	`not json`,
}

func TestParseAndFormat(t *testing.T) {
	entry, ok := logs.Parse(sample[0])
	if !ok {
		t.Fatal("expected json line to parse")
	}
	if entry.Component != "pipeline" || entry.RunID != "abc12345-0000" || entry.Level != "info" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	want := `2026-01-02T03:04:05Z INFO pipeline: pipeline run started run_id=abc12345-0000 output_dir="/tmp/out dir"`
	if got := entry.Format(); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
	if _, ok := logs.Parse("not json"); ok {
		t.Fatal("plain text must not parse")
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		filter logs.Filter
		want   int
	}{
		{name: "no filter keeps plain lines", filter: logs.Filter{}, want: 4},
		{name: "run prefix", filter: logs.Filter{RunID: "abc1"}, want: 2},
		{name: "component", filter: logs.Filter{Component: "translation"}, want: 1},
		{name: "min level", filter: logs.Filter{MinLevel: "info"}, want: 2},
		{name: "combined", filter: logs.Filter{RunID: "abc", MinLevel: "warn"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := logs.Select(sample, tt.filter); len(got) != tt.want {
				t.Fatalf("Select() returned %d lines: %#v", len(got), got)
			}
		})
	}
}
