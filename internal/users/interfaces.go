package users

import (
	"context"

	"github.com/google/uuid"
)

// UserStore defines the interface for user storage operations.
// Lookups return a not_found UserError when no record matches; inserts
// return an already_exists UserError when the email is taken.
type UserStore interface {
	ListUsers(ctx context.Context) ([]*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	// InsertUser assigns user.ID
	InsertUser(ctx context.Context, user *User) error
	// UpdateUser overwrites email, name and password and returns the number
	// of records whose values actually changed
	UpdateUser(ctx context.Context, user *User) (int64, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (int64, error)
	Ping(ctx context.Context) error
}

// UserService defines the interface for user service operations
type UserService interface {
	ListUsers(ctx context.Context) ([]*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error)
	// UpdateUser reports false when the record was left unchanged
	UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (bool, error)
	DeleteUser(ctx context.Context, id string) error
	Authenticate(ctx context.Context, req *LoginRequest) (bool, error)
}
