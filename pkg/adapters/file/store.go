package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/ordinal/pkg/domain"
)

// Store implements ports.DefaultsStore using the local filesystem.
// Each key is stored as a JSON file named after a hash of the key, since keys
// are usually directory paths.
type Store struct {
	BasePath string
}

type record struct {
	Key string `json:"key"`
	domain.Defaults
}

// NewStore creates a new Store with the given base path.
// If basePath is empty, it defaults to ".ordinal/defaults" under the user's
// config directory, falling back to the working directory.
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultStorePath()
	}
	return &Store{BasePath: basePath}
}

// DefaultStorePath returns the directory used when no path is configured.
func DefaultStorePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ordinal", "defaults")
	}
	return filepath.Join(".ordinal", "defaults")
}

func (s *Store) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.BasePath, hex.EncodeToString(sum[:12])+".json")
}

// Save persists the defaults to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, key string, defaults *domain.Defaults) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure defaults directory: %w", err)
	}

	data, err := json.MarshalIndent(record{Key: key, Defaults: *defaults}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(s.BasePath, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := s.path(key)
	// os.Rename does not replace an existing file on Windows.
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove existing defaults file: %w", err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to move defaults file into place: %w", err)
	}
	return nil
}

// Load retrieves the defaults stored for key.
func (s *Store) Load(ctx context.Context, key string) (*domain.Defaults, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrDefaultsNotFound
		}
		return nil, fmt.Errorf("failed to read defaults file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}
	// Hash collision or a hand-edited file.
	if rec.Key != key {
		return nil, domain.ErrDefaultsNotFound
	}
	return &rec.Defaults, nil
}

// Delete removes the defaults file.
func (s *Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete defaults file: %w", err)
	}
	return nil
}
