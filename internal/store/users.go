// Package store provides flat-file persistence for users and
// conversation logs. Writes within a store are serialized by a single
// mutex; reads are unsynchronized and may observe a slightly stale
// state. Callers tolerate eventual consistency on the read path.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"linguachat/internal/model"
	"linguachat/pkg/errors"
	"linguachat/pkg/logger"
)

// UserStore persists user records in a single JSON document keyed by id
type UserStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewUserStore creates the data directory if needed and returns a store
func NewUserStore(dataDir string) (*UserStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.NewStoreWriteFailed(dataDir, err)
	}
	return &UserStore{
		path:   filepath.Join(dataDir, "users.json"),
		logger: logger.Get().Named("store"),
	}, nil
}

// load reads the full user document. A missing or corrupt file is
// treated as an empty store.
func (s *UserStore) load() map[string]*model.User {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]*model.User{}
	}
	var users map[string]*model.User
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn("users file corrupt, treating as empty", zap.Error(err))
		return map[string]*model.User{}
	}
	return users
}

func (s *UserStore) save(users map[string]*model.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return errors.NewStoreWriteFailed(s.path, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("failed to save users", zap.Error(err))
		return errors.NewStoreWriteFailed(s.path, err)
	}
	return nil
}

// Create persists a new user. Email must be unique across the store.
func (s *UserStore) Create(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	for _, existing := range users {
		if existing.Email == u.Email {
			return errors.ErrEmailTaken
		}
	}
	users[u.ID] = u
	return s.save(users)
}

// Get returns a user by identifier
func (s *UserStore) Get(id string) (*model.User, error) {
	u, ok := s.load()[id]
	if !ok {
		return nil, errors.NewUserNotFound(id)
	}
	return u, nil
}

// FindByEmail returns the user with the given email address
func (s *UserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range s.load() {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.NewUserNotFound(email)
}

// Update overwrites an existing user record
func (s *UserStore) Update(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	if _, ok := users[u.ID]; !ok {
		return errors.NewUserNotFound(u.ID)
	}
	users[u.ID] = u
	return s.save(users)
}

// Delete removes a user record. Unused by the main pipeline but kept
// for account cleanup tooling.
func (s *UserStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	if _, ok := users[id]; !ok {
		return errors.NewUserNotFound(id)
	}
	delete(users, id)
	return s.save(users)
}
