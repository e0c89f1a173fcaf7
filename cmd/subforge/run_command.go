package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subforge/internal/config"
	"subforge/internal/deps"
	"subforge/internal/pipeline"
	"subforge/internal/preflight"
	"subforge/internal/services"
	"subforge/internal/store"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var targetLanguage string
	var sourceLanguage string
	var outputDir string
	var keepAudio bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "run <video>...",
		Short: "Extract, transcribe and translate subtitles for video files",
		Long: "Run the full pipeline for each video: extract a 16 kHz mono WAV, transcribe it,\n" +
			"merge near-duplicate segments, write <video>_<lang>.srt, translate every line\n" +
			"and write <video>.srt. Videos are processed one after another.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("provide at least one video file. Example: subforge run /path/to/movie.mkv\nRun subforge run --help for more details")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			applyRunOverrides(cfg, cmd, targetLanguage, sourceLanguage, outputDir, keepAudio, noCache)
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			if missing := deps.Missing(preflight.CheckSystemDeps(cmd.Context(), cfg)); len(missing) > 0 {
				return services.Wrap(services.ErrConfiguration, "", "run", "missing required binaries: "+deps.Names(missing), nil)
			}

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var observe []pipeline.Option
			if colorize {
				observe = append(observe, pipeline.WithStateObserver(func(state pipeline.State) {
					fmt.Fprintf(out, "%s%s%s\n", ansiBlue, "  -> "+state.String(), ansiReset)
				}))
			}
			orchestrator, err := buildOrchestrator(cfg, st, logger, observe...)
			if err != nil {
				return err
			}

			var failures []error
			for _, video := range args {
				video = strings.TrimSpace(video)
				if abs, err := filepath.Abs(video); err == nil {
					video = abs
				}
				fmt.Fprintf(out, "Processing %s\n", video)
				result, err := orchestrator.Run(cmd.Context(), video)
				if err != nil {
					if cmd.Context().Err() != nil {
						return err
					}
					fmt.Fprintln(out, renderStatusLine("Result", statusError, err.Error(), colorize))
					failures = append(failures, fmt.Errorf("%s: %w", filepath.Base(video), err))
					continue
				}
				printRunResult(out, result, colorize)
			}

			switch len(failures) {
			case 0:
				return nil
			case 1:
				return failures[0]
			default:
				return fmt.Errorf("%d of %d runs failed: %w", len(failures), len(args), errors.Join(failures...))
			}
		},
	}

	cmd.Flags().StringVarP(&targetLanguage, "target", "t", "", "Target language (overrides translation.target_language)")
	cmd.Flags().StringVarP(&sourceLanguage, "language", "l", "", "Spoken language code (overrides transcription.language)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for subtitles and audio (default: next to each video)")
	cmd.Flags().BoolVar(&keepAudio, "keep-audio", false, "Keep the extracted WAV after a successful run")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the translation cache")
	return cmd
}

func applyRunOverrides(cfg *config.Config, cmd *cobra.Command, target, source, outputDir string, keepAudio, noCache bool) {
	if v := strings.TrimSpace(target); v != "" {
		cfg.Translation.TargetLanguage = v
	}
	if v := strings.TrimSpace(source); v != "" {
		cfg.Transcription.Language = v
	}
	if v := strings.TrimSpace(outputDir); v != "" {
		if expanded, err := config.ExpandPath(v); err == nil {
			v = expanded
		}
		cfg.Paths.OutputDir = v
	}
	if cmd.Flags().Changed("keep-audio") {
		cfg.Pipeline.KeepAudio = keepAudio
	}
	if noCache {
		cfg.Translation.CacheEnabled = false
	}
}

func printRunResult(out io.Writer, result pipeline.Result, colorize bool) {
	summary := fmt.Sprintf("%d segments, %d subtitles in %s", result.Segments, result.Records, result.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(out, renderStatusLine("Result", statusOK, summary, colorize))
	fmt.Fprintln(out, renderStatusLine("Run ID", statusInfo, result.RunID, colorize))
	fmt.Fprintln(out, renderStatusLine("Original", statusInfo, result.OriginalPath, colorize))
	fmt.Fprintln(out, renderStatusLine("Translated", statusInfo, result.TranslatedPath, colorize))
}
