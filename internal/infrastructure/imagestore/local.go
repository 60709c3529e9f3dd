package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dreamstay-backend/internal/domain"
)

// ErrInvalidKey is returned for keys that are not a single plain file name.
var ErrInvalidKey = errors.New("imagestore: invalid key")

// ValidKey reports whether key is a plain file name (no separators, no dot segments).
func ValidKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, `/\`) && !strings.Contains(key, "..")
}

// LocalStore keeps images as files directly under Dir.
type LocalStore struct {
	Dir string
}

// Put writes data to Dir/key through a temp file and a rename, so readers and
// concurrent writers of other keys never observe a partially written file.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("imagestore: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("imagestore: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("imagestore: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("imagestore: close %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("imagestore: chmod %s: %w", key, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.Dir, key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("imagestore: rename %s: %w", key, err)
	}
	return nil
}

// Get reads Dir/key, returning domain.ErrImageNotFound when the file does not exist.
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if !ValidKey(key) {
		return nil, domain.ErrImageNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("imagestore: read %s: %w", key, err)
	}
	return data, nil
}
