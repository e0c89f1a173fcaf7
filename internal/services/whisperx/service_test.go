package whisperx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"subforge/internal/services"
)

const sampleTranscript = `{"segments": [
  {"start": 0.5, "end": 2.0, "text": " Hello there.", "words": [{"word": "Hello", "start": 0.5, "end": 0.9}]},
  {"start": 2.1, "end": 3.4, "text": " General Kenobi."}
]}`

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestTranscribeParsesJSONOutput(t *testing.T) {
	workDir := t.TempDir()
	svc := NewService(Config{Model: "small", Language: "English", WorkDir: workDir}, "uvx-test", nil)
	var captured []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		captured = append([]string{name}, args...)
		out := filepath.Join(argValue(args, "--output_dir"), "movie.json")
		return os.WriteFile(out, []byte(sampleTranscript), 0o644)
	})

	segments, err := svc.Transcribe(context.Background(), "/tmp/audio/movie.wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Start != 0.5 || segments[0].End != 2.0 || segments[0].Text != " Hello there." {
		t.Fatalf("unexpected first segment %+v", segments[0])
	}

	if captured[0] != "uvx-test" {
		t.Fatalf("unexpected binary %q", captured[0])
	}
	if got := argValue(captured, "--output_format"); got != "json" {
		t.Fatalf("output format = %q", got)
	}
	if got := argValue(captured, "--language"); got != "en" {
		t.Fatalf("language = %q", got)
	}
	if got := argValue(captured, "--model"); got != "small" {
		t.Fatalf("model = %q", got)
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("scratch dir should be removed, found %d entries", len(entries))
	}
}

func TestTranscribeCommandFailure(t *testing.T) {
	svc := NewService(Config{WorkDir: t.TempDir()}, "", nil)
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1: CUDA out of memory")
	})

	_, err := svc.Transcribe(context.Background(), "/tmp/movie.wav")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Fatalf("expected command output in error: %v", err)
	}
}

func TestTranscribeMissingOutput(t *testing.T) {
	svc := NewService(Config{WorkDir: t.TempDir()}, "", nil)
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })

	if _, err := svc.Transcribe(context.Background(), "/tmp/movie.wav"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestBuildArgsDevices(t *testing.T) {
	cpu := NewService(Config{}, "", nil).buildArgs("a.wav", "/out")
	if argValue(cpu, "--device") != cpuDevice || argValue(cpu, "--compute_type") != cpuComputeType {
		t.Fatalf("unexpected cpu args %v", cpu)
	}
	if argValue(cpu, "--vad_method") != VADMethodSilero {
		t.Fatalf("expected silero default, got %v", cpu)
	}
	if slices.Contains(cpu, "--language") {
		t.Fatalf("no language hint expected, got %v", cpu)
	}

	gpu := NewService(Config{CUDAEnabled: true, VADMethod: VADMethodPyannote, HFToken: "hf"}, "", nil).buildArgs("a.wav", "/out")
	if argValue(gpu, "--device") != cudaDevice {
		t.Fatalf("unexpected gpu args %v", gpu)
	}
	if argValue(gpu, "--extra-index-url") != pypiIndexURL {
		t.Fatalf("expected pypi fallback index, got %v", gpu)
	}
	if argValue(gpu, "--hf_token") != "hf" {
		t.Fatalf("expected hf token, got %v", gpu)
	}
}

func TestLoadTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.json")
	if err := os.WriteFile(path, []byte(sampleTranscript), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	segments, err := LoadTranscript(path)
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if len(segments) != 2 || segments[1].Text != " General Kenobi." {
		t.Fatalf("unexpected segments %+v", segments)
	}

	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadTranscript(path); err == nil {
		t.Fatal("expected parse error")
	}
}
