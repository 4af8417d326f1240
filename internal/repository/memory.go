package repository

import (
	"context"
	"strings"
	"sync"

	"campus-connect-api/internal/model"
)

// MemoryUserStore is an in-memory credential store used by tests and local
// tooling. It enforces the same case-insensitive email uniqueness as the
// postgres repository.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    map[string]model.User{},
		byEmail: map[string]string{},
	}
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *MemoryUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byEmail[emailKey(email)]
	return ok, nil
}

func (s *MemoryUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(u.Email)
	if _, exists := s.byEmail[key]; exists {
		return model.ErrEmailTaken
	}

	s.byID[u.ID] = u
	s.byEmail[key] = u.ID
	return nil
}

func (s *MemoryUserStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	delete(s.byEmail, emailKey(u.Email))
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
