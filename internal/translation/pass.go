package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"subforge/internal/logging"
	"subforge/internal/services"
	"subforge/internal/subtitles"
)

// Options tunes a translation pass.
type Options struct {
	// Concurrency bounds in-flight translator calls. Values below one mean one.
	Concurrency int
}

// Pass translates a record sequence while preserving index and timing.
type Pass struct {
	translator Translator
	opts       Options
	logger     *slog.Logger
}

// NewPass constructs a pass around translator.
func NewPass(translator Translator, opts Options, logger *slog.Logger) *Pass {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Pass{
		translator: translator,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "translation"),
	}
}

// Translate returns one translated record per input record, in input order.
// Index and Timing are copied unchanged and the translator's reply becomes
// the text as-is; the llm and openai chat clients already trim surrounding
// whitespace from their replies. Records with empty text are not sent to the
// translator and stay empty. The first failure aborts the pass; no partial
// output is returned.
func (p *Pass) Translate(ctx context.Context, records []subtitles.Record, targetLanguage string) ([]subtitles.Record, error) {
	if p.translator == nil {
		return nil, services.Wrap(services.ErrConfiguration, "translating", "translate", "no translator configured", nil)
	}
	if strings.TrimSpace(targetLanguage) == "" {
		return nil, services.Wrap(services.ErrValidation, "translating", "translate", "target language required", nil)
	}

	logger := logging.WithContext(ctx, p.logger)
	out := make([]subtitles.Record, len(records))
	started := time.Now()

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(p.opts.Concurrency)
	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			translated := rec
			if rec.Text != "" {
				text, err := p.translator.Translate(gctx, rec.Text, targetLanguage)
				if err != nil {
					return fmt.Errorf("translate record %d: %w", rec.Index, err)
				}
				translated.Text = text
			}
			out[i] = translated
			logger.Debug("record translated",
				logging.Int("index", rec.Index),
				logging.String("timing", rec.Timing),
				logging.String("source_text", rec.Text),
				logging.String("translated_text", translated.Text),
			)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Info("translation pass complete",
		logging.Int("records", len(out)),
		logging.String("target_language", targetLanguage),
		logging.Int("concurrency", p.opts.Concurrency),
		logging.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}
