package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subforge/internal/logging"
	"subforge/internal/services"
	"subforge/internal/store"
	"subforge/internal/subtitles"
	"subforge/internal/translation"
)

// AudioExtractor writes the speech track of a video to a WAV file.
type AudioExtractor interface {
	Extract(ctx context.Context, videoPath, audioPath string) error
}

// Transcriber converts an audio file into timestamped segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]subtitles.Segment, error)
}

// RunRecorder persists run history. *store.Store satisfies it.
type RunRecorder interface {
	CreateRun(ctx context.Context, run *store.Run) error
	UpdateRun(ctx context.Context, run *store.Run) error
}

// Options configures one orchestrator.
type Options struct {
	// OutputDir receives the WAV and both subtitle files. Empty means the
	// directory of the source video.
	OutputDir string
	// SourceLanguage names the original subtitle file (<video>_<lang>.srt).
	SourceLanguage string
	TargetLanguage string
	// KeepAudio skips deleting the intermediate WAV after a successful run.
	KeepAudio bool
	// LockDir holds per-source advisory locks. Empty disables locking.
	LockDir string

	// Backend names recorded in run history.
	TranscriptionBackend string
	TranslationBackend   string
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder records every state transition in run history.
func WithRecorder(recorder RunRecorder) Option {
	return func(o *Orchestrator) {
		o.recorder = recorder
	}
}

// WithStateObserver calls fn on every state transition, including the
// terminal one.
func WithStateObserver(fn func(State)) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

// Result describes a finished run.
type Result struct {
	RunID          string
	State          State
	AudioPath      string
	OriginalPath   string
	TranslatedPath string
	Segments       int
	Records        int
	Elapsed        time.Duration
}

// Orchestrator drives a video through extraction, transcription,
// consolidation, translation and the two subtitle writes.
type Orchestrator struct {
	extractor   AudioExtractor
	transcriber Transcriber
	pass        *translation.Pass
	opts        Options
	logger      *slog.Logger
	recorder    RunRecorder
	observer    func(State)
}

// New wires an orchestrator from explicitly constructed collaborators.
func New(extractor AudioExtractor, transcriber Transcriber, pass *translation.Pass, opts Options, logger *slog.Logger, options ...Option) *Orchestrator {
	o := &Orchestrator{
		extractor:   extractor,
		transcriber: transcriber,
		pass:        pass,
		opts:        opts,
		logger:      logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

// run carries the mutable state of one Run call.
type run struct {
	result  Result
	record  store.Run
	logger  *slog.Logger
	started time.Time
}

// Run processes videoPath to completion or failure. On failure the returned
// Result has State StateFailed and the error is the one that stopped the
// run; no later stage runs, cleanup included.
func (o *Orchestrator) Run(ctx context.Context, videoPath string) (Result, error) {
	if err := o.validate(); err != nil {
		return Result{State: StateFailed}, err
	}
	source, err := filepath.Abs(strings.TrimSpace(videoPath))
	if err != nil || strings.TrimSpace(videoPath) == "" {
		return Result{State: StateFailed}, services.Wrap(services.ErrValidation, "", "run", "video path required", err)
	}
	if _, err := os.Stat(source); err != nil {
		return Result{State: StateFailed}, services.Wrap(services.ErrNotFound, "", "stat video", source, err)
	}

	lock, err := acquireSourceLock(o.opts.LockDir, source)
	if err != nil {
		return Result{State: StateFailed}, err
	}
	if lock != nil {
		defer func() { _ = lock.Unlock() }()
	}

	outputDir := o.opts.OutputDir
	if strings.TrimSpace(outputDir) == "" {
		outputDir = filepath.Dir(source)
	}
	originalPath := subtitles.OriginalPath(outputDir, source, o.opts.SourceLanguage)

	r := &run{started: time.Now()}
	r.result = Result{
		RunID:          store.NewRunID(),
		AudioPath:      subtitles.AudioPath(outputDir, source),
		OriginalPath:   originalPath,
		TranslatedPath: subtitles.TranslatedPath(originalPath),
	}
	r.record = store.Run{
		ID:                   r.result.RunID,
		SourcePath:           source,
		State:                string(StateExtracting),
		TranscriptionBackend: o.opts.TranscriptionBackend,
		TranslationBackend:   o.opts.TranslationBackend,
		TargetLanguage:       o.opts.TargetLanguage,
		AudioPath:            r.result.AudioPath,
		OriginalPath:         r.result.OriginalPath,
		TranslatedPath:       r.result.TranslatedPath,
		StartedAt:            r.started.UTC(),
	}

	ctx = services.WithRunID(ctx, r.result.RunID)
	ctx = services.WithSource(ctx, source)
	r.logger = logging.WithContext(ctx, o.logger)
	r.logger.Info("pipeline run started",
		logging.String("output_dir", outputDir),
		logging.String("target_language", o.opts.TargetLanguage),
	)
	if o.recorder != nil {
		if err := o.recorder.CreateRun(ctx, &r.record); err != nil {
			o.warnRecorder(r.logger, err)
		}
	}

	if err := o.execute(ctx, r, source); err != nil {
		o.fail(ctx, r, err)
		return r.result, err
	}
	o.finish(ctx, r)
	return r.result, nil
}

func (o *Orchestrator) validate() error {
	switch {
	case o.extractor == nil:
		return services.Wrap(services.ErrConfiguration, "", "run", "audio extractor required", nil)
	case o.transcriber == nil:
		return services.Wrap(services.ErrConfiguration, "", "run", "transcriber required", nil)
	case o.pass == nil:
		return services.Wrap(services.ErrConfiguration, "", "run", "translation pass required", nil)
	case strings.TrimSpace(o.opts.TargetLanguage) == "":
		return services.Wrap(services.ErrConfiguration, "", "run", "target language required", nil)
	}
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, r *run, source string) error {
	stageCtx, err := o.enter(ctx, r, StateExtracting)
	if err != nil {
		return err
	}
	if err := o.extractor.Extract(stageCtx, source, r.result.AudioPath); err != nil {
		return err
	}

	if stageCtx, err = o.enter(ctx, r, StateTranscribing); err != nil {
		return err
	}
	segments, err := o.transcriber.Transcribe(stageCtx, r.result.AudioPath)
	if err != nil {
		return err
	}
	r.result.Segments = len(segments)
	r.record.SegmentCount = len(segments)

	if _, err = o.enter(ctx, r, StateConsolidating); err != nil {
		return err
	}
	consolidated := subtitles.Consolidate(segments)
	records := subtitles.RecordsFromSegments(consolidated)
	r.result.Records = len(records)
	r.record.RecordCount = len(records)
	r.logger.Info("segments consolidated",
		logging.Int("segments", len(segments)),
		logging.Int("records", len(records)),
		logging.Int("merged", len(segments)-len(consolidated)),
	)

	if stageCtx, err = o.enter(ctx, r, StateWritingOriginal); err != nil {
		return err
	}
	if err := subtitles.WriteFile(r.result.OriginalPath, records); err != nil {
		return fmt.Errorf("write original subtitles: %w", err)
	}
	o.checkWritten(stageCtx, r.result.OriginalPath)

	if stageCtx, err = o.enter(ctx, r, StateTranslating); err != nil {
		return err
	}
	translated, err := o.pass.Translate(stageCtx, records, o.opts.TargetLanguage)
	if err != nil {
		return err
	}

	if stageCtx, err = o.enter(ctx, r, StateWritingTranslated); err != nil {
		return err
	}
	if err := subtitles.WriteFile(r.result.TranslatedPath, translated); err != nil {
		return fmt.Errorf("write translated subtitles: %w", err)
	}
	o.checkWritten(stageCtx, r.result.TranslatedPath)

	if stageCtx, err = o.enter(ctx, r, StateCleaningUp); err != nil {
		return err
	}
	o.cleanup(stageCtx, r)
	return nil
}

// enter checks for cancellation, then moves the run into state.
func (o *Orchestrator) enter(ctx context.Context, r *run, state State) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		return ctx, err
	}
	o.transition(ctx, r, state)
	stageCtx := services.WithStage(ctx, string(state))
	logging.WithContext(stageCtx, o.logger).Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
	)
	return stageCtx, nil
}

func (o *Orchestrator) transition(ctx context.Context, r *run, state State) {
	r.result.State = state
	r.record.State = string(state)
	if o.recorder != nil {
		if err := o.recorder.UpdateRun(ctx, &r.record); err != nil {
			o.warnRecorder(r.logger, err)
		}
	}
	if o.observer != nil {
		o.observer(state)
	}
}

func (o *Orchestrator) checkWritten(ctx context.Context, path string) {
	issues := subtitles.ValidateFile(path)
	if len(issues) == 0 {
		return
	}
	logging.WarnWithContext(logging.WithContext(ctx, o.logger), "subtitle validation issues", "subtitle_validation",
		logging.String("path", path),
		logging.Int("issue_count", len(issues)),
		logging.String("issues", strings.Join(issues, "; ")),
		logging.String(logging.FieldErrorHint, "inspect the subtitle file"),
		logging.String(logging.FieldImpact, "players may show some cues incorrectly"),
	)
}

func (o *Orchestrator) cleanup(ctx context.Context, r *run) {
	logger := logging.WithContext(ctx, o.logger)
	if o.opts.KeepAudio {
		logger.Info("keeping extracted audio", logging.String("path", r.result.AudioPath))
		return
	}
	if err := os.Remove(r.result.AudioPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(logger, "failed to remove extracted audio", "audio_cleanup_failed",
			logging.String("path", r.result.AudioPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the file manually"),
			logging.String(logging.FieldImpact, "intermediate WAV left on disk"),
		)
		return
	}
	logger.Info("removed extracted audio", logging.String("path", r.result.AudioPath))
}

func (o *Orchestrator) finish(ctx context.Context, r *run) {
	r.result.Elapsed = time.Since(r.started)
	finished := time.Now().UTC()
	r.record.FinishedAt = &finished
	o.transition(ctx, r, StateDone)
	r.logger.Info("pipeline run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("original", r.result.OriginalPath),
		logging.String("translated", r.result.TranslatedPath),
		logging.Int("records", r.result.Records),
		logging.Duration("elapsed", r.result.Elapsed),
	)
}

func (o *Orchestrator) fail(ctx context.Context, r *run, err error) {
	failedIn := r.result.State
	details := services.Details(err)
	r.result.Elapsed = time.Since(r.started)
	finished := time.Now().UTC()
	r.record.FinishedAt = &finished
	r.record.ErrorKind = details.Kind
	r.record.ErrorMessage = err.Error()
	// History must still be written when the run was cancelled.
	o.transition(context.WithoutCancel(ctx), r, StateFailed)
	logging.ErrorWithContext(r.logger, "pipeline run failed", "run_failed",
		logging.String("failed_stage", string(failedIn)),
		logging.String("error_kind", details.Kind),
		logging.String(logging.FieldErrorHint, details.Hint),
		logging.Error(err),
	)
}

func (o *Orchestrator) warnRecorder(logger *slog.Logger, err error) {
	logging.WarnWithContext(logger, "failed to record run history", "run_history_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the state directory database"),
		logging.String(logging.FieldImpact, "run missing from subforge history"),
	)
}
