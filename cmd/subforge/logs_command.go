package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"subforge/internal/logging"
	"subforge/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int
	var filter logs.Filter

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display the subforge log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			out := cmd.OutOrStdout()
			runCtx := cmd.Context()

			// Filtering happens after reading, so read everything and trim
			// the matches instead of the raw lines.
			opts := logs.TailOptions{Offset: -1, Limit: lines}
			if filter != (logs.Filter{}) {
				opts.Limit = 0
			}
			if lines <= 0 {
				opts = logs.TailOptions{Offset: 0}
			}

			result, err := logs.Tail(runCtx, path, opts)
			if err != nil {
				return fmt.Errorf("tail logs: %w", err)
			}
			selected := logs.Select(result.Lines, filter)
			if lines > 0 && len(selected) > lines {
				selected = selected[len(selected)-lines:]
			}
			for _, line := range selected {
				fmt.Fprintln(out, line)
			}
			if !follow {
				if len(selected) == 0 {
					fmt.Fprintln(out, "No log entries available")
				}
				return nil
			}

			offset := result.Offset
			for {
				result, err := logs.Tail(runCtx, path, logs.TailOptions{Offset: offset, Follow: true, Wait: time.Second})
				if runCtx.Err() != nil {
					return nil
				}
				if err != nil {
					return fmt.Errorf("tail logs: %w", err)
				}
				for _, line := range logs.Select(result.Lines, filter) {
					fmt.Fprintln(out, line)
				}
				offset = result.Offset
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of entries to show (0 for all)")
	cmd.Flags().StringVar(&filter.RunID, "run", "", "Only show entries for this run ID (prefix match)")
	cmd.Flags().StringVar(&filter.Component, "component", "", "Only show entries from this component")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Minimum level to show (debug, info, warn, error)")
	return cmd
}
