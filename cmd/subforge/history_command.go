package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subforge/internal/store"
)

type historyRow struct {
	ID             string     `json:"id"`
	Source         string     `json:"source"`
	State          string     `json:"state"`
	Transcription  string     `json:"transcription_backend"`
	Translation    string     `json:"translation_backend"`
	TargetLanguage string     `json:"target_language"`
	OriginalPath   string     `json:"original_path,omitempty"`
	TranslatedPath string     `json:"translated_path,omitempty"`
	Segments       int        `json:"segments"`
	Subtitles      int        `json:"subtitles"`
	ErrorKind      string     `json:"error_kind,omitempty"`
	Error          string     `json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	DurationMS     int64      `json:"duration_ms"`
}

func toHistoryRow(run store.Run) historyRow {
	return historyRow{
		ID:             run.ID,
		Source:         run.SourcePath,
		State:          run.State,
		Transcription:  run.TranscriptionBackend,
		Translation:    run.TranslationBackend,
		TargetLanguage: run.TargetLanguage,
		OriginalPath:   run.OriginalPath,
		TranslatedPath: run.TranslatedPath,
		Segments:       run.SegmentCount,
		Subtitles:      run.RecordCount,
		ErrorKind:      run.ErrorKind,
		Error:          run.ErrorMessage,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		DurationMS:     run.Duration().Milliseconds(),
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(st *store.Store) error {
				runs, err := st.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					rows := make([]historyRow, 0, len(runs))
					for _, run := range runs {
						rows = append(rows, toHistoryRow(run))
					}
					return writeHistoryJSON(cmd.OutOrStdout(), rows)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded yet")
					return nil
				}
				fmt.Fprintln(out, renderHistoryTable(runs))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryPruneCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(st *store.Store) error {
				run, err := findRun(cmd, st, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if asJSON {
					return writeHistoryJSON(cmd.OutOrStdout(), toHistoryRow(*run))
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				kind := statusOK
				switch {
				case run.State == "failed":
					kind = statusError
				case run.FinishedAt == nil:
					kind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("Run", statusInfo, run.ID, colorize))
				fmt.Fprintln(out, renderStatusLine("Source", statusInfo, run.SourcePath, colorize))
				fmt.Fprintln(out, renderStatusLine("State", kind, run.State, colorize))
				fmt.Fprintln(out, renderStatusLine("Backends", statusInfo, run.TranscriptionBackend+" / "+run.TranslationBackend, colorize))
				fmt.Fprintln(out, renderStatusLine("Target language", statusInfo, run.TargetLanguage, colorize))
				fmt.Fprintln(out, renderStatusLine("Segments", statusInfo, fmt.Sprintf("%d merged into %d subtitles", run.SegmentCount, run.RecordCount), colorize))
				fmt.Fprintln(out, renderStatusLine("Original", statusInfo, run.OriginalPath, colorize))
				fmt.Fprintln(out, renderStatusLine("Translated", statusInfo, run.TranslatedPath, colorize))
				fmt.Fprintln(out, renderStatusLine("Duration", statusInfo, run.Duration().Round(time.Second).String(), colorize))
				if run.ErrorMessage != "" {
					fmt.Fprintln(out, renderStatusLine("Error", statusError, fmt.Sprintf("[%s] %s", run.ErrorKind, run.ErrorMessage), colorize))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run as JSON")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete finished runs older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return errors.New("--older-than must be positive")
			}
			return withStore(ctx, func(st *store.Store) error {
				removed, err := st.PruneRuns(cmd.Context(), time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age of the oldest run to keep")
	return cmd
}

// findRun resolves a full run ID or a unique prefix of one.
func findRun(cmd *cobra.Command, st *store.Store, id string) (*store.Run, error) {
	if id == "" {
		return nil, errors.New("run id is required")
	}
	run, err := st.GetRun(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if run != nil {
		return run, nil
	}
	runs, err := st.ListRuns(cmd.Context(), 0)
	if err != nil {
		return nil, err
	}
	var match *store.Run
	for i := range runs {
		if !strings.HasPrefix(runs[i].ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("run id %q is ambiguous", id)
		}
		match = &runs[i]
	}
	if match == nil {
		return nil, fmt.Errorf("run %q not found", id)
	}
	return match, nil
}

func renderHistoryTable(runs []store.Run) string {
	columns := []tableColumn{
		{Title: "ID"},
		{Title: "Started"},
		{Title: "Source"},
		{Title: "State"},
		{Title: "Backends"},
		{Title: "Target"},
		{Title: "Subtitles", Right: true},
		{Title: "Duration", Right: true},
	}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			filepath.Base(run.SourcePath),
			run.State,
			run.TranscriptionBackend + "/" + run.TranslationBackend,
			run.TargetLanguage,
			strconv.Itoa(run.RecordCount),
			run.Duration().Round(time.Second).String(),
		})
	}
	return renderTable(columns, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func withStore(ctx *commandContext, fn func(*store.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history database: %w", err)
	}
	defer st.Close()
	return fn(st)
}

// writeHistoryJSON prints v as indented JSON. Paths are left unescaped.
func writeHistoryJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
