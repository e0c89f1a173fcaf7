package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"

	"subforge/internal/language"
	"subforge/internal/logging"
)

// Cache persists translations between runs.
type Cache interface {
	LookupTranslation(ctx context.Context, key string) (string, bool, error)
	StoreTranslation(ctx context.Context, key, targetLanguage, text string) error
}

// CacheKey identifies one translation: the same text sent to the same model
// for the same target always maps to the same key.
func CacheKey(backend, model, targetLanguage, text string) string {
	target := language.ToISO2(targetLanguage)
	if target == "" {
		target = strings.ToLower(strings.TrimSpace(targetLanguage))
	}
	sum := sha256.Sum256([]byte(strings.Join([]string{backend, model, target, text}, "\x00")))
	return hex.EncodeToString(sum[:])
}

// CachedTranslator consults a Cache before calling the wrapped translator.
// Cache failures are logged and never fail a translation.
type CachedTranslator struct {
	next    Translator
	cache   Cache
	backend string
	model   string
	logger  *slog.Logger
}

// NewCachedTranslator wraps next with cache lookups keyed by backend and model.
func NewCachedTranslator(next Translator, cache Cache, backend, model string, logger *slog.Logger) *CachedTranslator {
	return &CachedTranslator{
		next:    next,
		cache:   cache,
		backend: backend,
		model:   model,
		logger:  logging.NewComponentLogger(logger, "translation_cache"),
	}
}

// Translate returns a cached translation when present, otherwise translates
// and stores the result.
func (t *CachedTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	key := CacheKey(t.backend, t.model, targetLanguage, text)
	logger := logging.WithContext(ctx, t.logger)

	cached, ok, err := t.cache.LookupTranslation(ctx, key)
	switch {
	case err != nil:
		logging.WarnWithContext(logger, "translation cache lookup failed", "translation_cache_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state directory database"),
			logging.String(logging.FieldImpact, "line is translated again"),
		)
	case ok:
		return cached, nil
	}

	translated, err := t.next.Translate(ctx, text, targetLanguage)
	if err != nil {
		return "", err
	}
	if err := t.cache.StoreTranslation(ctx, key, targetLanguage, translated); err != nil {
		logging.WarnWithContext(logger, "translation cache store failed", "translation_cache_store_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state directory database"),
			logging.String(logging.FieldImpact, "line will not be reused by later runs"),
		)
	}
	return translated, nil
}
