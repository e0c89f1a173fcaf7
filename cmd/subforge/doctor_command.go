package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"subforge/internal/config"
	"subforge/internal/deps"
	"subforge/internal/language"
	"subforge/internal/preflight"
	"subforge/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check binaries, directories and backend access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			printConfigSummary(out, ctx.configPath, cfg, colorize)

			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Binaries", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderDependencyTable(statuses))

			var results []preflight.Result
			if offline {
				results = preflight.RunLocal(cmd.Context(), cfg)
			} else {
				results = preflight.RunAll(cmd.Context(), cfg)
			}
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(out, line)
			}
			failed := 0
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}

			missing := deps.Missing(statuses)
			if len(missing) > 0 {
				return services.Wrap(services.ErrConfiguration, "", "doctor", "missing required binaries: "+deps.Names(missing), nil)
			}
			if failed > 0 {
				return services.Wrap(services.ErrConfiguration, "", "doctor", fmt.Sprintf("%d checks failed", failed), nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip API reachability checks")
	return cmd
}

func printConfigSummary(out io.Writer, path string, cfg *config.Config, colorize bool) {
	for _, line := range renderSectionHeader("Configuration", colorize) {
		fmt.Fprintln(out, line)
	}
	if path == "" {
		path = "(defaults)"
	}
	output := cfg.Paths.OutputDir
	if output == "" {
		output = "next to each video"
	}
	source := "auto-detect"
	if cfg.Transcription.Language != "" {
		source = language.DisplayName(cfg.Transcription.Language)
	}
	fmt.Fprintln(out, renderStatusLine("Config file", statusInfo, path, colorize))
	fmt.Fprintln(out, renderStatusLine("Transcription", statusInfo, cfg.Transcription.Backend+" ("+source+")", colorize))
	fmt.Fprintln(out, renderStatusLine("Translation", statusInfo, cfg.Translation.Backend+" -> "+language.TargetName(cfg.Translation.TargetLanguage), colorize))
	fmt.Fprintln(out, renderStatusLine("Translation cache", statusInfo, yesNo(cfg.Translation.CacheEnabled), colorize))
	fmt.Fprintln(out, renderStatusLine("Output", statusInfo, output, colorize))
}

func renderDependencyTable(statuses []deps.Status) string {
	columns := []tableColumn{{Title: "Binary"}, {Title: "Status"}, {Title: "Path"}, {Title: "Version"}, {Title: "Purpose"}}
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "ok"
		location := s.Path
		switch {
		case !s.Available && s.Optional:
			state = "missing (optional)"
			location = s.Detail
		case !s.Available:
			state = "missing"
			location = s.Detail
		}
		rows = append(rows, []string{s.Name, state, location, s.Version, s.Description})
	}
	return renderTable(columns, rows)
}
