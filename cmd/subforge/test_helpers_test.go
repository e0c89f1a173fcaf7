package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subforge/internal/config"
	"subforge/internal/testsupport"
)

const ffmpegStub = `#!/bin/sh
if [ "$1" = "-version" ]; then echo "ffmpeg version stub"; exit 0; fi
for last; do :; done
printf 'RIFF0000WAVE' > "$last"
`

const ffprobeStub = `#!/bin/sh
if [ "$1" = "-version" ]; then echo "ffprobe version stub"; exit 0; fi
echo '{"streams":[{"index":0,"codec_type":"video","codec_name":"h264"},{"index":1,"codec_type":"audio","codec_name":"aac","channels":2,"tags":{"language":"eng"},"disposition":{"default":1}}],"format":{"duration":"4.0"}}'
`

const uvxStub = `#!/bin/sh
if [ "$1" = "--version" ]; then echo "uv 0.0.0"; exit 0; fi
src=""
out=""
prev=""
for arg in "$@"; do
  if [ "$prev" = "whisperx" ]; then src="$arg"; fi
  if [ "$prev" = "--output_dir" ]; then out="$arg"; fi
  prev="$arg"
done
base="${src##*/}"
base="${base%.wav}"
printf '%s\n' '{"segments":[{"start":0.0,"end":1.5,"text":" Hello there"},{"start":1.5,"end":3.0,"text":" Hello there!"},{"start":3.0,"end":4.0,"text":" General Kenobi"}]}' > "$out/$base.json"
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	llmCalls   *atomic.Int64
}

// setupCLITestEnv writes a config pointing every directory into a temp dir
// and the llm backend at an httptest server that upper-cases its input.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	calls := new(atomic.Int64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reply := ""
		for _, msg := range req.Messages {
			if msg.Role == "user" {
				reply = strings.ToUpper(msg.Content)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithLLMEndpoint(srv.URL))
	cfg.LLM.RetryAttempts = 1
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	configPath := filepath.Join(base, "subforge.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, llmCalls: calls}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// installStubs writes the pipeline's external tools into a bin directory and
// makes it the only PATH entry. Stubs use shell builtins only.
func installStubs(t *testing.T, dir string, stubs map[string]string) {
	t.Helper()
	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	for name, script := range stubs {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte(script), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", binDir)
}

func pipelineStubs() map[string]string {
	return map[string]string{"ffmpeg": ffmpegStub, "ffprobe": ffprobeStub, "uvx": uvxStub}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
