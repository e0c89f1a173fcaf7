package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LookupTranslation returns the cached translation for key.
func (s *Store) LookupTranslation(ctx context.Context, key string) (string, bool, error) {
	var text string
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT translated_text FROM translations WHERE cache_key = ?`, key,
	).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup translation: %w", err)
	}
	return text, true, nil
}

// StoreTranslation records a translation, replacing any previous entry for key.
func (s *Store) StoreTranslation(ctx context.Context, key, targetLanguage, text string) error {
	_, err := s.exec(ctx,
		`INSERT INTO translations (cache_key, target_language, translated_text, created_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(cache_key) DO UPDATE SET translated_text = excluded.translated_text, created_at = excluded.created_at`,
		key, targetLanguage, text, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("store translation: %w", err)
	}
	return nil
}

// CountTranslations returns the number of cached translations.
func (s *Store) CountTranslations(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), `SELECT COUNT(1) FROM translations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count translations: %w", err)
	}
	return count, nil
}

// ClearTranslations empties the translation cache.
func (s *Store) ClearTranslations(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM translations`)
	if err != nil {
		return 0, fmt.Errorf("clear translations: %w", err)
	}
	return res.RowsAffected()
}
