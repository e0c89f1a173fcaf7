package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subforge/internal/config"
	"subforge/internal/pipeline"
	"subforge/internal/services"
	"subforge/internal/services/whisperx"
)

func newConsolidateCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "consolidate <transcript.json>",
		Short: "Merge a WhisperX JSON transcript into an SRT file",
		Long: "Read the segments of a WhisperX JSON transcript, merge near-duplicate\n" +
			"neighbours and write them as SRT. Without --output the file is written next\n" +
			"to the transcript with an .srt extension.",
		Annotations: map[string]string{skipConfigLoad: "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve transcript path: %w", err)
			}
			segments, err := whisperx.LoadTranscript(input)
			if err != nil {
				marker := services.ErrValidation
				if errors.Is(err, fs.ErrNotExist) {
					marker = services.ErrNotFound
				}
				return services.Wrap(marker, "consolidating", "read transcript", input, err)
			}

			output := strings.TrimSpace(outputPath)
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + ".srt"
			} else if output, err = config.ExpandPath(output); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			count, err := pipeline.ConsolidateToFile(segments, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d subtitles (from %d segments) to %s\n", count, len(segments), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output SRT file")
	return cmd
}
