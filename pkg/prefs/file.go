package prefs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
)

// FileStore keeps preferences in a TOML file. Writes take an exclusive
// file lock and replace the file atomically. The flock guards against other
// processes; mu serializes goroutines sharing one store.
type FileStore struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// DefaultPath returns $XDG_CONFIG_HOME/gitseeker/preferences.toml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "gitseeker", "preferences.toml"), nil
}

// NewFileStore opens the store at path. An empty path uses [DefaultPath].
// The file is created on first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create preferences dir: %w", err)
	}
	return &FileStore{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the preferences file path.
func (s *FileStore) Path() string { return s.path }

// Get reads key from the file. A missing file holds no keys.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("lock preferences: %w", err)
	}
	defer s.lock.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set writes key under the file lock.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	return s.update(func(values map[string]string) { values[key] = value })
}

// Delete removes key under the file lock. Deleting a missing key is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	return s.update(func(values map[string]string) { delete(values, key) })
}

// Close is a no-op; the file lock is held only for the duration of each call.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) update(fn func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock preferences: %w", err)
	}
	defer s.lock.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	fn(values)
	return s.write(values)
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(values); err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".preferences-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
