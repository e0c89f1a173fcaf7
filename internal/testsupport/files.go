package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subforge/internal/subtitles"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteSRT writes records to path as SRT and fails the test on error.
func WriteSRT(t testing.TB, path string, records []subtitles.Record) {
	t.Helper()
	if err := subtitles.WriteFile(path, records); err != nil {
		t.Fatalf("write srt %s: %v", path, err)
	}
}

// ReadSRT decodes the SRT at path and fails the test on error.
func ReadSRT(t testing.TB, path string) []subtitles.Record {
	t.Helper()
	records, err := subtitles.ReadFile(path)
	if err != nil {
		t.Fatalf("read srt %s: %v", path, err)
	}
	return records
}
