package session

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"campus-connect-api/internal/model"
)

// CredentialStore is the local cache backing a Session: one token paired with
// one profile. Save and Clear replace both values together, so the cache can
// never hold a token without its profile or the other way round.
type CredentialStore interface {
	Load() (token string, user *model.Profile, err error)
	Save(token string, user model.Profile) error
	Clear() error
}

// MemoryStore keeps the credentials in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  *model.Profile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (string, *model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return s.token, nil, nil
	}
	u := *s.user
	return s.token, &u, nil
}

func (s *MemoryStore) Save(token string, user model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = &user
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	return nil
}

// fileCredentials is the on-disk shape, mirroring the fixed browser
// localStorage keys of the web client.
type fileCredentials struct {
	Token string         `json:"token,omitempty"`
	User  *model.Profile `json:"user,omitempty"`
}

// FileStore persists the credentials as a single JSON file, written whole on
// every mutation so token and profile stay in step even across restarts.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, *model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	var creds fileCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", nil, err
	}
	return creds.Token, creds.User, nil
}

func (s *FileStore) Save(token string, user model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(fileCredentials{Token: token, User: &user}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
