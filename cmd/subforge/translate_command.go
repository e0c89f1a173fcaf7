package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subforge/internal/config"
	"subforge/internal/pipeline"
	"subforge/internal/store"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var targetLanguage string
	var outputPath string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "translate-srt <file.srt>",
		Short: "Translate an existing SRT file",
		Long: "Translate every subtitle of an SRT file and write the result. Without --output\n" +
			"the translated file is <prefix>.srt next to the input, where prefix is the input\n" +
			"name up to its first underscore (movie_en.srt -> movie.srt).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if v := strings.TrimSpace(targetLanguage); v != "" {
				cfg.Translation.TargetLanguage = v
			}
			if noCache {
				cfg.Translation.CacheEnabled = false
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			var st *store.Store
			if cfg.Translation.CacheEnabled {
				st, err = store.Open(cfg)
				if err != nil {
					return fmt.Errorf("open history database: %w", err)
				}
				defer st.Close()
			}
			pass, err := buildPass(cfg, st, logger)
			if err != nil {
				return err
			}

			input, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			output := strings.TrimSpace(outputPath)
			if output != "" {
				if output, err = config.ExpandPath(output); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}

			written, err := pipeline.TranslateFile(cmd.Context(), pass, input, cfg.Translation.TargetLanguage, output, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Translated subtitles saved to %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLanguage, "target", "t", "", "Target language (overrides translation.target_language)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: <prefix>.srt next to the input)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the translation cache")
	return cmd
}
