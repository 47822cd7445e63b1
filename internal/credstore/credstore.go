// Package credstore persists the single admin bearer credential. Nothing
// else in the process touches the file.
package credstore

import (
	"os"
	"path/filepath"
	"strings"

	"feedboard/internal/structures"
)

type Store struct {
	path string
	mode os.FileMode
}

func NewStore(conf *structures.Config) *Store {
	mode := os.FileMode(conf.Credential.Mode)
	if mode == 0 {
		mode = 0600
	}
	return &Store{path: conf.Credential.FilePath, mode: mode}
}

// Load reads the persisted credential. The second return is false when no
// credential is stored.
func (s *Store) Load() (string, bool, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", false, nil
	}
	return key, true, nil
}

// Store writes the credential atomically: tmp file, sync, rename.
func (s *Store) Store(key string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tmpFile := s.path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, s.mode)
	if err != nil {
		return err
	}

	if _, err = file.WriteString(key); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, s.path)
}

// Clear removes the stored credential. Missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
