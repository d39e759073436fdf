package users

import (
	"github.com/google/uuid"
)

// User is a registered account. Password always holds a digest produced by
// a Hasher, never the plaintext.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Password string    `json:"password"`
}

// CreateUserRequest represents the request to create a user
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate checks that every field is present
func (r *CreateUserRequest) Validate() error {
	return requireFields(map[string]string{
		"email":    r.Email,
		"name":     r.Name,
		"password": r.Password,
	}, "email", "name", "password")
}

// UpdateUserRequest replaces all mutable fields of a user
type UpdateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate checks that every field is present
func (r *UpdateUserRequest) Validate() error {
	return requireFields(map[string]string{
		"email":    r.Email,
		"name":     r.Name,
		"password": r.Password,
	}, "email", "name", "password")
}

// LoginRequest carries the credentials to verify
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that every field is present
func (r *LoginRequest) Validate() error {
	return requireFields(map[string]string{
		"email":    r.Email,
		"password": r.Password,
	}, "email", "password")
}

// UserResponse is the wire form of a user in list responses
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func UserToResponse(user *User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Name:     user.Name,
		Password: user.Password,
	}
}

// ParseUserID parses the path form of a user id
func ParseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewValidationErrorWithCause("id", raw, "malformed user id", err)
	}
	return id, nil
}

// requireFields checks fields in the given order so the reported field is stable.
// An empty string counts as absent.
func requireFields(values map[string]string, order ...string) error {
	for _, field := range order {
		if values[field] == "" {
			return NewValidationError(field, values[field], "is required")
		}
	}
	return nil
}
