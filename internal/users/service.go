package users

import (
	"context"

	"github.com/google/uuid"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	store  UserStore
	hasher Hasher
}

// NewUserService creates a new user service instance
func NewUserService(store UserStore, hasher Hasher) *UserServiceImpl {
	return &UserServiceImpl{
		store:  store,
		hasher: hasher,
	}
}

// ListUsers returns every user in store order
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*User, error) {
	return s.store.ListUsers(ctx)
}

// FindUserByEmail looks a user up by exact email match
func (s *UserServiceImpl) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.FindUserByEmail(ctx, email)
}

// CreateUser registers a new user unless the email is already taken.
// The store's unique constraint backs up the pre-check under concurrency.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailAvailable(ctx, req.Email, nil); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash([]byte(req.Password))
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:    req.Email,
		Name:     req.Name,
		Password: digest,
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces email, name and password of the user with the given id
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (bool, error) {
	userID, err := ParseUserID(id)
	if err != nil {
		return false, err
	}
	if err := req.Validate(); err != nil {
		return false, err
	}

	// the record's own email is not a collision
	if err := s.ensureEmailAvailable(ctx, req.Email, &userID); err != nil {
		return false, err
	}

	existing, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return false, err
	}

	if existing.Email == req.Email && existing.Name == req.Name && s.hasher.Verify(existing.Password, []byte(req.Password)) {
		return false, nil
	}

	digest, err := s.hasher.Hash([]byte(req.Password))
	if err != nil {
		return false, err
	}

	modified, err := s.store.UpdateUser(ctx, &User{
		ID:       userID,
		Email:    req.Email,
		Name:     req.Name,
		Password: digest,
	})
	if err != nil {
		return false, err
	}
	return modified > 0, nil
}

// DeleteUser removes the user with the given id
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	userID, err := ParseUserID(id)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return NewUserNotFoundError(id)
	}
	return nil
}

// Authenticate reports whether the password matches the stored digest
func (s *UserServiceImpl) Authenticate(ctx context.Context, req *LoginRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}

	user, err := s.store.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return false, err
	}

	return s.hasher.Verify(user.Password, []byte(req.Password)), nil
}

// ensureEmailAvailable fails with an already_exists error when a user other
// than exclude owns email
func (s *UserServiceImpl) ensureEmailAvailable(ctx context.Context, email string, exclude *uuid.UUID) error {
	existing, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}

	if exclude != nil && existing.ID == *exclude {
		return nil
	}
	return NewUserAlreadyExistsError(email, nil)
}
