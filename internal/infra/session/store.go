package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"avtoelon/internal/domain/user"
)

// ErrNoSession means no user is logged in on this device.
var ErrNoSession = errors.New("session: not logged in")

// storageKey is the fixed key the serialized current user lives under,
// matching the key-value layout of the mobile client's device storage.
const storageKey = "loggedInUser"

// FileStore persists the logged-in user as a small key-value JSON file so the
// identity survives process restarts. One store instance owns the session for
// the whole process; components receive it explicitly instead of re-reading
// storage ad hoc.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Current returns the persisted user, or ErrNoSession when nobody is logged
// in on this device.
func (s *FileStore) Current() (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", s.path, err)
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", s.path, err)
	}
	entry, ok := values[storageKey]
	if !ok {
		return nil, ErrNoSession
	}
	var u user.User
	if err := json.Unmarshal(entry, &u); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", storageKey, err)
	}
	return &u, nil
}

// Save writes the user under the fixed key, replacing any previous session.
func (s *FileStore) Save(u *user.User) error {
	if u == nil {
		return fmt.Errorf("session: nil user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}
	raw, err := json.MarshalIndent(map[string]json.RawMessage{storageKey: entry}, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", s.path, err)
	}
	return nil
}

// Clear removes the persisted session.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}
