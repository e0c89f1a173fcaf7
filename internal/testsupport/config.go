package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subforge/internal/config"
)

// ConfigOption adjusts the generated test configuration.
type ConfigOption func(t testing.TB, base string, cfg *config.Config)

// NewConfig produces a config whose directories all live in a per-test temp
// directory. Credentials are filled with placeholders so backend
// constructors succeed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths = config.Paths{
		StateDir:  filepath.Join(base, "state"),
		LogDir:    filepath.Join(base, "logs"),
		WorkDir:   filepath.Join(base, "work"),
		OutputDir: filepath.Join(base, "output"),
	}
	cfg.LLM.APIKey = "test"
	cfg.OpenAI.APIKey = "test"

	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

// WithLLMEndpoint points the llm backend at url, typically an httptest server.
func WithLLMEndpoint(url string) ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.LLM.BaseURL = url
	}
}

// WithOutputNextToVideo clears the output directory so subtitles land beside
// the source video.
func WithOutputNextToVideo() ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Paths.OutputDir = ""
	}
}

// WithStubbedBinaries puts no-op executables for names first on PATH for the
// rest of the test. They answer -version/--version with "<name> version
// stub". With no names, ffmpeg, ffprobe and uvx are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(t testing.TB, base string, _ *config.Config) {
		t.Helper()
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "uvx"}
		}
		binDir := filepath.Join(base, "bin")
		for _, name := range names {
			StubBinary(t, binDir, name, "exit 0\n")
		}
		t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// StubBinary writes an executable shell script named name into dir. body
// runs after the version-flag handling.
func StubBinary(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	script.WriteString(`case "$1" in -version|--version) echo "` + name + ` version stub"; exit 0;; esac` + "\n")
	script.WriteString(body)
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(script.String()), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
