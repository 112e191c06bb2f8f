package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// FileStore is a filesystem-based implementation of the KeyValue interface.
// Each key is stored as one JSON document:
//
//	<root>/
//	  backups.json
//	  preferences.json
//
// Writes go through a temp file and rename so a crash mid-write never leaves
// a torn document behind.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at the given directory, creating
// it if needed.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Get returns the value stored under key, or organizer.ErrKeyNotFound.
func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := f.keyPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, organizer.ErrKeyNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Set stores value under key, replacing any prior value.
func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	path, err := f.keyPath(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.root, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// keyPath maps a key to its document path. Keys are simple names; anything
// resembling a path is rejected.
func (f *FileStore) keyPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key: %q", key)
	}
	return filepath.Join(f.root, key+".json"), nil
}

// Compile-time check that FileStore implements the KeyValue interface
var _ organizer.KeyValue = (*FileStore)(nil)
