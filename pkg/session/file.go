package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// FileStore persists a token as JSON in a single file.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vab", "session.json"), nil
}

// Load reads the token. A missing file is not an error.
func (f *FileStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", f.Path, err)
	}
	return &tok, nil
}

// Save writes the token, creating parent directories.
func (f *FileStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

// Clear removes the file. A missing file is not an error.
func (f *FileStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
