package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run is one pipeline execution as recorded in history.
type Run struct {
	ID                   string
	SourcePath           string
	State                string
	TranscriptionBackend string
	TranslationBackend   string
	TargetLanguage       string
	AudioPath            string
	OriginalPath         string
	TranslatedPath       string
	SegmentCount         int
	RecordCount          int
	ErrorKind            string
	ErrorMessage         string
	StartedAt            time.Time
	UpdatedAt            time.Time
	FinishedAt           *time.Time
}

// Duration returns how long the run took, or has taken so far.
func (r Run) Duration() time.Duration {
	end := r.UpdatedAt
	if r.FinishedAt != nil {
		end = *r.FinishedAt
	}
	if end.Before(r.StartedAt) {
		return 0
	}
	return end.Sub(r.StartedAt)
}

const runColumns = "id, source_path, state, transcription_backend, translation_backend, target_language, audio_path, original_path, translated_path, segment_count, record_count, error_kind, error_message, started_at, updated_at, finished_at"

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// CreateRun inserts run, assigning an ID and timestamps when unset.
func (s *Store) CreateRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("create run: run is nil")
	}
	if strings.TrimSpace(run.SourcePath) == "" {
		return errors.New("create run: source path required")
	}
	if run.ID == "" {
		run.ID = NewRunID()
	}
	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	run.UpdatedAt = now

	_, err := s.exec(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.SourcePath,
		run.State,
		nullableString(run.TranscriptionBackend),
		nullableString(run.TranslationBackend),
		nullableString(run.TargetLanguage),
		nullableString(run.AudioPath),
		nullableString(run.OriginalPath),
		nullableString(run.TranslatedPath),
		run.SegmentCount,
		run.RecordCount,
		nullableString(run.ErrorKind),
		nullableString(run.ErrorMessage),
		formatTime(run.StartedAt),
		formatTime(run.UpdatedAt),
		nullableTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// UpdateRun persists every mutable field of run.
func (s *Store) UpdateRun(ctx context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return errors.New("update run: run id required")
	}
	run.UpdatedAt = time.Now().UTC()
	res, err := s.exec(ctx,
		`UPDATE runs
         SET state = ?, transcription_backend = ?, translation_backend = ?, target_language = ?,
             audio_path = ?, original_path = ?, translated_path = ?, segment_count = ?,
             record_count = ?, error_kind = ?, error_message = ?, updated_at = ?, finished_at = ?
         WHERE id = ?`,
		run.State,
		nullableString(run.TranscriptionBackend),
		nullableString(run.TranslationBackend),
		nullableString(run.TargetLanguage),
		nullableString(run.AudioPath),
		nullableString(run.OriginalPath),
		nullableString(run.TranslatedPath),
		run.SegmentCount,
		run.RecordCount,
		nullableString(run.ErrorKind),
		nullableString(run.ErrorMessage),
		formatTime(run.UpdatedAt),
		nullableTime(run.FinishedAt),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run %s: %w", run.ID, sql.ErrNoRows)
	}
	return nil
}

// GetRun fetches a run by ID. A missing run returns nil without error.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// PruneRuns deletes finished runs that started before cutoff.
func (s *Store) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM runs WHERE finished_at IS NOT NULL AND started_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run           Run
		transcription sql.NullString
		translation   sql.NullString
		target        sql.NullString
		audio         sql.NullString
		original      sql.NullString
		translated    sql.NullString
		errorKind     sql.NullString
		errorMessage  sql.NullString
		startedRaw    string
		updatedRaw    string
		finishedRaw   sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.SourcePath,
		&run.State,
		&transcription,
		&translation,
		&target,
		&audio,
		&original,
		&translated,
		&run.SegmentCount,
		&run.RecordCount,
		&errorKind,
		&errorMessage,
		&startedRaw,
		&updatedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.TranscriptionBackend = transcription.String
	run.TranslationBackend = translation.String
	run.TargetLanguage = target.String
	run.AudioPath = audio.String
	run.OriginalPath = original.String
	run.TranslatedPath = translated.String
	run.ErrorKind = errorKind.String
	run.ErrorMessage = errorMessage.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		run.UpdatedAt = updated
	}
	if finished, err := parseTimeString(finishedRaw.String); err == nil {
		run.FinishedAt = &finished
	}
	return &run, nil
}
