package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"subforge/internal/logging"
	"subforge/internal/services"
	"subforge/internal/subtitles"
	"subforge/internal/translation"
)

// TranslateFile reads an existing SRT, translates every record and writes
// the result. An empty outputPath derives <prefix>.srt from the input name.
// Nothing is written when any record fails to translate.
func TranslateFile(ctx context.Context, pass *translation.Pass, srtPath, targetLanguage, outputPath string, logger *slog.Logger) (string, error) {
	if pass == nil {
		return "", services.Wrap(services.ErrConfiguration, "translating", "translate file", "translation pass required", nil)
	}
	logger = logging.NewComponentLogger(logger, "pipeline")
	records, err := subtitles.ReadFile(srtPath)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "translating", "read subtitles", "", err)
	}
	if len(records) == 0 {
		return "", services.Wrap(services.ErrValidation, "translating", "read subtitles", srtPath+" contains no subtitle records", nil)
	}
	if strings.TrimSpace(outputPath) == "" {
		outputPath = subtitles.TranslatedPath(srtPath)
	}
	if filepath.Clean(outputPath) == filepath.Clean(srtPath) {
		return "", services.Wrap(services.ErrValidation, "translating", "translate file", "output would overwrite "+srtPath, nil)
	}

	translated, err := pass.Translate(ctx, records, targetLanguage)
	if err != nil {
		return "", err
	}
	if err := subtitles.WriteFile(outputPath, translated); err != nil {
		return "", fmt.Errorf("write translated subtitles: %w", err)
	}
	logger.Info("subtitle file translated",
		logging.String("input", srtPath),
		logging.String("output", outputPath),
		logging.Int("records", len(translated)),
	)
	return outputPath, nil
}

// ConsolidateToFile merges near-duplicate segments and writes them as SRT.
// It returns the number of records written.
func ConsolidateToFile(segments []subtitles.Segment, outputPath string) (int, error) {
	records := subtitles.RecordsFromSegments(subtitles.Consolidate(segments))
	if err := subtitles.WriteFile(outputPath, records); err != nil {
		return 0, fmt.Errorf("write consolidated subtitles: %w", err)
	}
	return len(records), nil
}
