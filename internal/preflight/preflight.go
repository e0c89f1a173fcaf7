package preflight

import (
	"context"
	"strings"

	"subforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunLocal executes the checks that need no network: directory access and
// the history database.
func RunLocal(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if strings.TrimSpace(cfg.Paths.OutputDir) != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	}
	return append(results, CheckStore(ctx, cfg))
}

// RunAll executes RunLocal plus the backend API checks that apply to the
// given config. Binary checks are reported separately by CheckSystemDeps.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := RunLocal(ctx, cfg)
	switch cfg.Translation.Backend {
	case "llm":
		results = append(results, CheckLLM(ctx, "Translation LLM", cfg.LLM))
	case "openai":
		results = append(results, CheckOpenAI(ctx, "Translation OpenAI", cfg.OpenAI))
	}

	// Both OpenAI backends share one key and endpoint; one check covers them.
	if cfg.Transcription.Backend == "openai" && cfg.Translation.Backend != "openai" {
		results = append(results, CheckOpenAI(ctx, "Transcription OpenAI", cfg.OpenAI))
	}

	return results
}
