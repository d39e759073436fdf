package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// UserSchema represents the users table schema in PostgreSQL
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Name      string    `bun:"name,notnull" json:"name"`
	Password  string    `bun:"password,notnull" json:"password"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// PostgresStore implements UserStore on PostgreSQL
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new PostgreSQL user store
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]*User, error) {
	var schemas []UserSchema
	err := s.db.NewSelect().
		Model(&schemas).
		OrderExpr("u.created_at ASC, u.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, NewStorageQueryError("list users", err)
	}

	users := make([]*User, 0, len(schemas))
	for _, schema := range schemas {
		users = append(users, UserSchemaToUser(schema))
	}
	return users, nil
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var schema UserSchema
	err := s.db.NewSelect().
		Model(&schema).
		Where("u.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(email)
		}
		return nil, NewStorageQueryError("find user by email", err)
	}

	return UserSchemaToUser(schema), nil
}

func (s *PostgresStore) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var schema UserSchema
	err := s.db.NewSelect().
		Model(&schema).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(id.String())
		}
		return nil, NewStorageQueryError("find user by id", err)
	}

	return UserSchemaToUser(schema), nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, user *User) error {
	user.ID = uuid.New()
	schema := UserToUserSchema(user)
	schema.CreatedAt = time.Now()

	_, err := s.db.NewInsert().
		Model(&schema).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return NewUserAlreadyExistsError(user.Email, NewStorageConstraintError("insert user", err))
		}
		return NewStorageQueryError("insert user", err)
	}

	return nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *User) (int64, error) {
	result, err := s.db.NewUpdate().
		Model((*UserSchema)(nil)).
		Set("email = ?", user.Email).
		Set("name = ?", user.Name).
		Set("password = ?", user.Password).
		Where("id = ?", user.ID).
		Where("(email, name, password) IS DISTINCT FROM (?, ?, ?)", user.Email, user.Name, user.Password).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, NewUserAlreadyExistsError(user.Email, NewStorageConstraintError("update user", err))
		}
		return 0, NewStorageQueryError("update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageQueryError("update user", fmt.Errorf("failed to get rows affected: %w", err))
	}
	return rowsAffected, nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := s.db.NewDelete().
		Model((*UserSchema)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, NewStorageQueryError("delete user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageQueryError("delete user", fmt.Errorf("failed to get rows affected: %w", err))
	}
	return rowsAffected, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStorageConnectionError("ping", err)
	}
	return nil
}

const pgUniqueViolation = "23505"

// pgFieldError is the part of pgdriver.Error the store inspects
type pgFieldError interface {
	error
	Field(k byte) string
}

var _ pgFieldError = pgdriver.Error{}

// isUniqueViolation reports whether err carries SQLSTATE 23505
func isUniqueViolation(err error) bool {
	var pgErr pgFieldError
	return errors.As(err, &pgErr) && pgErr.Field('C') == pgUniqueViolation
}

// Helper conversion functions
func UserSchemaToUser(schema UserSchema) *User {
	return &User{
		ID:       schema.ID,
		Email:    schema.Email,
		Name:     schema.Name,
		Password: schema.Password,
	}
}

func UserToUserSchema(user *User) UserSchema {
	return UserSchema{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Password: user.Password,
	}
}
