package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"subforge/internal/services"
)

// acquireSourceLock takes a non-blocking advisory lock for source inside dir.
// A nil lock and nil error are returned when dir is empty.
func acquireSourceLock(dir, source string) (*flock.Flock, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory %s: %w", dir, err)
	}
	sum := sha256.Sum256([]byte(source))
	lockPath := filepath.Join(dir, hex.EncodeToString(sum[:8])+".lock")

	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "", "acquire lock",
			fmt.Sprintf("%s is already being processed by another run", source), nil)
	}
	return lock, nil
}
