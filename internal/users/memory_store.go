package users

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore implements UserStore with in-memory storage. Email
// uniqueness is enforced under the store lock, like the unique index in
// PostgresStore.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
	order []uuid.UUID
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users: make(map[uuid.UUID]*User),
	}
}

func (s *InMemoryStore) ListUsers(ctx context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*User, 0, len(s.order))
	for _, id := range s.order {
		user := *s.users[id]
		users = append(users, &user)
	}
	return users, nil
}

func (s *InMemoryStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user := s.findByEmailLocked(email); user != nil {
		found := *user
		return &found, nil
	}
	return nil, NewUserNotFoundError(email)
}

func (s *InMemoryStore) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, NewUserNotFoundError(id.String())
	}
	found := *user
	return &found, nil
}

func (s *InMemoryStore) InsertUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmailLocked(user.Email) != nil {
		return NewUserAlreadyExistsError(user.Email, nil)
	}

	user.ID = uuid.New()
	stored := *user
	s.users[user.ID] = &stored
	s.order = append(s.order, user.ID)
	return nil
}

func (s *InMemoryStore) UpdateUser(ctx context.Context, user *User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.users[user.ID]
	if !exists {
		return 0, nil
	}
	if other := s.findByEmailLocked(user.Email); other != nil && other.ID != user.ID {
		return 0, NewUserAlreadyExistsError(user.Email, nil)
	}
	if existing.Email == user.Email && existing.Name == user.Name && existing.Password == user.Password {
		return 0, nil
	}

	existing.Email = user.Email
	existing.Name = user.Name
	existing.Password = user.Password
	return 1, nil
}

func (s *InMemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; !exists {
		return 0, nil
	}

	delete(s.users, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *InMemoryStore) findByEmailLocked(email string) *User {
	for _, id := range s.order {
		if user := s.users[id]; user.Email == email {
			return user
		}
	}
	return nil
}
