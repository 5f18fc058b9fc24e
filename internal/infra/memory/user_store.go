package memory

import (
	"context"
	"sync"

	"mathrush/internal/domain"
)

// UserStore is an in-memory implementation of app.UserStore.
type UserStore struct {
	mu     sync.RWMutex
	nextID int
	byName map[string]*userRecord
	oauth  map[int64]int // github id -> user id
}

type userRecord struct {
	user domain.User
	hash string
}

func NewUserStore() *UserStore {
	return &UserStore{
		nextID: 1,
		byName: make(map[string]*userRecord),
		oauth:  make(map[int64]int),
	}
}

func (s *UserStore) Create(_ context.Context, username, passwordHash, avatar string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[username]; ok {
		return domain.User{}, domain.ErrUserExists
	}
	user := domain.User{ID: s.nextID, Username: username, Avatar: avatar}
	s.nextID++
	s.byName[username] = &userRecord{user: user, hash: passwordHash}
	return user, nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (domain.User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byName[username]
	if !ok {
		return domain.User{}, "", domain.ErrUserNotFound
	}
	return record.user, record.hash, nil
}

// GetOrCreateGithubUser links a GitHub identity to a local account, creating
// one on first login.
func (s *UserStore) GetOrCreateGithubUser(_ context.Context, githubID int64, username string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.oauth[githubID]; ok {
		for _, record := range s.byName {
			if record.user.ID == id {
				return record.user, nil
			}
		}
	}
	// A local account already owns this name; refuse rather than replace it.
	if _, ok := s.byName[username]; ok {
		return domain.User{}, domain.ErrUserExists
	}
	user := domain.User{ID: s.nextID, Username: username}
	s.nextID++
	s.byName[username] = &userRecord{user: user}
	s.oauth[githubID] = user.ID
	return user, nil
}
