package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subforge/internal/logging"
	"subforge/internal/media/ffprobe"
	"subforge/internal/services"
)

// Sample layout expected by speech-to-text backends.
const (
	SampleRate = "16000"
	Channels   = "1"
	Codec      = "pcm_s16le"
)

// CommandRunner executes an external command to completion.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// ProbeFunc inspects a media file.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Extractor writes a mono 16 kHz PCM WAV from the best audio track of a video.
type Extractor struct {
	ffmpegBinary  string
	ffprobeBinary string
	language      string
	logger        *slog.Logger
	run           CommandRunner
	probe         ProbeFunc
}

// ExtractorOption customizes an Extractor.
type ExtractorOption func(*Extractor)

// WithCommandRunner replaces ffmpeg execution (for testing).
func WithCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		if runner != nil {
			e.run = runner
		}
	}
}

// WithProbe replaces ffprobe inspection (for testing).
func WithProbe(probe ProbeFunc) ExtractorOption {
	return func(e *Extractor) {
		if probe != nil {
			e.probe = probe
		}
	}
}

// NewExtractor builds an extractor. preferredLanguage steers track selection
// and may be empty.
func NewExtractor(ffmpegBinary, ffprobeBinary, preferredLanguage string, logger *slog.Logger, opts ...ExtractorOption) *Extractor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	e := &Extractor{
		ffmpegBinary:  ffmpegBinary,
		ffprobeBinary: ffprobeBinary,
		language:      preferredLanguage,
		logger:        logging.NewComponentLogger(logger, "audio"),
		run:           runCommand,
		probe:         ffprobe.Inspect,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract writes dest from source. The output directory is created if needed
// and an existing file at dest is overwritten.
func (e *Extractor) Extract(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" {
		return services.Wrap(services.ErrValidation, "extracting", "extract audio", "source path required", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return services.Wrap(services.ErrNotFound, "extracting", "stat source", source, err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("ensure audio directory %s: %w", filepath.Dir(dest), err)
	}

	logger := logging.WithContext(ctx, e.logger)
	streamIndex := -1
	result, err := e.probe(ctx, e.ffprobeBinary, source)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "ffprobe failed; extracting default audio track", "audio_probe_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify ffprobe is installed and the file is readable"),
			logging.String(logging.FieldImpact, "ffmpeg picks the audio track"),
		)
	default:
		selection := Select(result.Streams, e.language)
		if !selection.Found() {
			return services.Wrap(services.ErrValidation, "extracting", "select audio", fmt.Sprintf("%s has no audio stream", source), nil)
		}
		streamIndex = selection.Index
		logger.Info("audio track selected",
			logging.Int("stream_index", selection.Index),
			logging.String("track", selection.Label()),
			logging.Bool("language_matched", selection.LanguageMatched),
			logging.Int("audio_streams", result.AudioStreamCount()),
		)
	}

	if err := e.run(ctx, e.ffmpegBinary, BuildArgs(source, streamIndex, dest)...); err != nil {
		return services.Wrap(services.ErrExternalTool, "extracting", "ffmpeg", source, err)
	}
	if _, err := os.Stat(dest); err != nil {
		return services.Wrap(services.ErrExternalTool, "extracting", "ffmpeg", "no output produced at "+dest, err)
	}
	return nil
}

// BuildArgs returns the ffmpeg arguments that extract one audio stream as
// mono 16 kHz PCM. A negative streamIndex leaves track choice to ffmpeg.
func BuildArgs(source string, streamIndex int, dest string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
	}
	if streamIndex >= 0 {
		args = append(args, "-map", fmt.Sprintf("0:%d", streamIndex))
	}
	return append(args,
		"-vn",
		"-sn",
		"-dn",
		"-ac", Channels,
		"-ar", SampleRate,
		"-c:a", Codec,
		dest,
	)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
