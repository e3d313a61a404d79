package cliauth

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists credentials as a file under the user's config directory
// (~/.config/stockctl/session.json by default). It exists for environments
// without a usable keychain: headless machines, containers, CI.
//
// The file is created with mode 0600. A missing or unreadable file is
// reported as ErrNotFound so callers fall open to the logged-out state
// instead of crashing.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore rooted at the default config directory for
// the given application name.
func NewFileStore(appName string) *FileStore {
	homeDir, _ := os.UserHomeDir()
	return &FileStore{
		path: filepath.Join(homeDir, ".config", appName, "session.json"),
	}
}

// NewFileStoreAt creates a FileStore at an explicit path. Used by tests and
// by the STOCKCTL_SESSION_FILE override.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the session file.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes the session token to the session file, creating the parent
// directory if needed.
func (s *FileStore) Save(_ context.Context, token []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, token, 0o600)
}

// Load reads the stored session token. Any failure to read the file,
// including permission errors, is reported as ErrNotFound.
func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, ErrNotFound
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}

// Delete removes the session file. Returns ErrNotFound if there is none.
func (s *FileStore) Delete(_ context.Context) error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
