package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps a vault document on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (store *FileStore) Path() string {
	return store.path
}

// Write replaces the file atomically through a temp file in the same directory.
func (store *FileStore) Write(document Document) error {
	payload, err := Encode(document)
	if err != nil {
		return fmt.Errorf("encode vault: %w", err)
	}

	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".vault-*.json")
	if err != nil {
		return fmt.Errorf("create temp vault: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp vault: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp vault: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp vault: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod temp vault: %w", err)
	}
	if err := os.Rename(tmpName, store.path); err != nil {
		return fmt.Errorf("replace vault: %w", err)
	}
	return nil
}

// Read returns the stored document. found is false when no file exists yet.
func (store *FileStore) Read() (document Document, found bool, err error) {
	payload, err := os.ReadFile(store.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("read vault: %w", err)
	}

	document, _, err = Decode(payload)
	if err != nil {
		return Document{}, true, err
	}
	return document, true, nil
}
