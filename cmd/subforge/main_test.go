package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"subforge/internal/services"
	"subforge/internal/subtitles"
	"subforge/internal/testsupport"
)

func TestRunCommandEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)
	installStubs(t, env.baseDir, pipelineStubs())
	video := filepath.Join(env.baseDir, "movie.mkv")
	testsupport.WriteFile(t, video, 32)

	out, stderr, err := runCLI(t, []string{"run", video}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v\nstdout: %s\nstderr: %s", err, out, stderr)
	}
	requireContains(t, out, "Processing "+video)

	outputDir := env.cfg.Paths.OutputDir
	original := testsupport.ReadSRT(t, filepath.Join(outputDir, "movie_en.srt"))
	wantOriginal := []subtitles.Record{
		{Index: 1, Timing: "00:00:00,000 --> 00:00:01,500", Text: "Hello there"},
		{Index: 2, Timing: "00:00:03,000 --> 00:00:04,000", Text: "General Kenobi"},
	}
	if !slices.Equal(original, wantOriginal) {
		t.Fatalf("original subtitles = %+v", original)
	}

	translated := testsupport.ReadSRT(t, filepath.Join(outputDir, "movie.srt"))
	if len(translated) != 2 || translated[0].Text != "HELLO THERE" || translated[1].Text != "GENERAL KENOBI" {
		t.Fatalf("translated subtitles = %+v", translated)
	}
	if translated[1].Timing != wantOriginal[1].Timing {
		t.Fatalf("timing changed: %q", translated[1].Timing)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "movie.subforge.wav")); !os.IsNotExist(err) {
		t.Fatalf("expected intermediate audio to be removed, stat err = %v", err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "movie.mkv")
	requireContains(t, out, "done")

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var rows []historyRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode history json: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0].State != "done" || rows[0].Subtitles != 2 || rows[0].Segments != 3 {
		t.Fatalf("unexpected history rows %+v", rows)
	}

	out, _, err = runCLI(t, []string{"history", "show", rows[0].ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, rows[0].ID)
	requireContains(t, out, filepath.Join(outputDir, "movie.srt"))
}

func TestRunCommandKeepAudio(t *testing.T) {
	env := setupCLITestEnv(t)
	installStubs(t, env.baseDir, pipelineStubs())
	video := filepath.Join(env.baseDir, "clip.mp4")
	testsupport.WriteFile(t, video, 32)
	outDir := filepath.Join(env.baseDir, "custom")

	if _, stderr, err := runCLI(t, []string{"run", "--keep-audio", "--output-dir", outDir, "--target", "French", video}, env.configPath); err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}
	for _, name := range []string{"clip.subforge.wav", "clip_en.srt", "clip.srt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestRunCommandMissingBinaries(t *testing.T) {
	env := setupCLITestEnv(t)
	installStubs(t, env.baseDir, map[string]string{"ffprobe": ffprobeStub})
	video := filepath.Join(env.baseDir, "movie.mkv")
	testsupport.WriteFile(t, video, 32)

	_, _, err := runCLI(t, []string{"run", video}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, err.Error(), "FFmpeg, uvx")
}

func TestRunCommandRecordsFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	stubs := pipelineStubs()
	stubs["uvx"] = "#!/bin/sh\nif [ \"$1\" = \"--version\" ]; then exit 0; fi\necho 'model download failed' >&2\nexit 3\n"
	installStubs(t, env.baseDir, stubs)
	video := filepath.Join(env.baseDir, "movie.mkv")
	testsupport.WriteFile(t, video, 32)

	out, _, err := runCLI(t, []string{"run", video}, env.configPath)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	requireContains(t, out, "[ERROR]")
	if _, statErr := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, "movie.srt")); !os.IsNotExist(statErr) {
		t.Fatalf("translated subtitles must not exist after a failed run")
	}

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var rows []historyRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode history json: %v", err)
	}
	if len(rows) != 1 || rows[0].State != "failed" || rows[0].ErrorKind != "external_tool" {
		t.Fatalf("unexpected history rows %+v", rows)
	}
}

func TestRunCommandRequiresArgs(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "provide at least one video") {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestTranslateSRTCommandUsesCache(t *testing.T) {
	env := setupCLITestEnv(t)
	input := filepath.Join(env.baseDir, "show_en.srt")
	testsupport.WriteSRT(t, input, []subtitles.Record{
		{Index: 1, Timing: "00:00:01,000 --> 00:00:02,000", Text: "good morning"},
		{Index: 2, Timing: "00:00:03,000 --> 00:00:04,000", Text: "good night"},
	})

	out, _, err := runCLI(t, []string{"translate-srt", input}, env.configPath)
	if err != nil {
		t.Fatalf("translate-srt: %v", err)
	}
	output := filepath.Join(env.baseDir, "show.srt")
	requireContains(t, out, output)
	got := testsupport.ReadSRT(t, output)
	if len(got) != 2 || got[0].Text != "GOOD MORNING" || got[1].Text != "GOOD NIGHT" {
		t.Fatalf("translated = %+v", got)
	}
	if calls := env.llmCalls.Load(); calls != 2 {
		t.Fatalf("expected 2 llm calls, got %d", calls)
	}

	second := filepath.Join(env.baseDir, "again.srt")
	if _, _, err := runCLI(t, []string{"translate-srt", "-o", second, input}, env.configPath); err != nil {
		t.Fatalf("translate-srt again: %v", err)
	}
	if calls := env.llmCalls.Load(); calls != 2 {
		t.Fatalf("expected cached translations, got %d llm calls", calls)
	}

	out, _, err = runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "2 cached translations")

	if _, _, err := runCLI(t, []string{"translate-srt", "--no-cache", "-o", second, input}, env.configPath); err != nil {
		t.Fatalf("translate-srt --no-cache: %v", err)
	}
	if calls := env.llmCalls.Load(); calls != 4 {
		t.Fatalf("expected --no-cache to call the backend, got %d calls", calls)
	}

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 2 cached translations")
}

func TestTranslateSRTCommandMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"translate-srt", filepath.Join(env.baseDir, "none_en.srt")}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConsolidateCommand(t *testing.T) {
	dir := t.TempDir()
	transcript := filepath.Join(dir, "episode.json")
	payload := `{"segments":[` +
		`{"start":0,"end":1,"text":"Where are we going"},` +
		`{"start":1,"end":2.5,"text":"Where are we going?"},` +
		`{"start":3,"end":4,"text":"Home."}]}`
	if err := os.WriteFile(transcript, []byte(payload), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	out, _, err := runCLI(t, []string{"consolidate", transcript}, "")
	if err != nil {
		t.Fatalf("consolidate: %v", err)
	}
	requireContains(t, out, "Wrote 2 subtitles (from 3 segments)")

	got := testsupport.ReadSRT(t, filepath.Join(dir, "episode.srt"))
	want := []subtitles.Record{
		{Index: 1, Timing: "00:00:01,000 --> 00:00:02,500", Text: "Where are we going?"},
		{Index: 2, Timing: "00:00:03,000 --> 00:00:04,000", Text: "Home."},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("consolidated = %+v", got)
	}
}

func TestConsolidateCommandMissingTranscript(t *testing.T) {
	_, _, err := runCLI(t, []string{"consolidate", filepath.Join(t.TempDir(), "none.json")}, "")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDoctorOffline(t *testing.T) {
	env := setupCLITestEnv(t)
	installStubs(t, env.baseDir, pipelineStubs())

	out, _, err := runCLI(t, []string{"doctor", "--offline"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "== Binaries ==")
	requireContains(t, out, "ffmpeg version stub")
	requireContains(t, out, "History database")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected failing check:\n%s", out)
	}
}

func TestDoctorReportsMissingBinaries(t *testing.T) {
	env := setupCLITestEnv(t)
	installStubs(t, env.baseDir, map[string]string{"ffmpeg": ffmpegStub})

	out, _, err := runCLI(t, []string{"doctor", "--offline"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, out, "missing (optional)")
	requireContains(t, err.Error(), "uvx")
}
