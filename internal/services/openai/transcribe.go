package openai

import (
	"context"
	"strings"
	"time"

	sdk "github.com/sashabaranov/go-openai"

	"subforge/internal/language"
	"subforge/internal/logging"
	"subforge/internal/services"
	"subforge/internal/subtitles"
)

// Name identifies the transcription backend in logs and run history.
func (c *Client) Name() string {
	return "openai"
}

// Transcribe uploads audioPath to the transcription endpoint and returns the
// segment-level timestamps from the verbose JSON response.
func (c *Client) Transcribe(ctx context.Context, audioPath string) ([]subtitles.Segment, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribing", "openai", "audio path required", nil)
	}
	model := c.cfg.TranscriptionModel
	if model == "" {
		model = sdk.Whisper1
	}

	logger := logging.WithContext(ctx, c.logger)
	logger.Info("openai transcription started", logging.String("audio", audioPath), logging.String("model", model))
	started := time.Now()

	resp, err := c.api.CreateTranscription(ctx, sdk.AudioRequest{
		Model:    model,
		FilePath: audioPath,
		Language: language.ToISO2(c.cfg.Language),
		Format:   sdk.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, classify("transcribing", "create transcription", err)
	}

	segments := make([]subtitles.Segment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		segments = append(segments, subtitles.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	if len(segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		// Servers without segment support return text only.
		segments = append(segments, subtitles.Segment{Start: 0, End: resp.Duration, Text: resp.Text})
	}
	logger.Info("openai transcription complete",
		logging.Int("segments", len(segments)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return segments, nil
}
