package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/zaloga/internal/metrics"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/store"
	"github.com/erazemk/zaloga/internal/validate"
)

// CreateUserInput is the payload for creating a user. Every field is required.
type CreateUserInput struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

// UserService implements the user operations on top of the store.
type UserService struct {
	db         *sql.DB
	bcryptCost int
}

// NewUserService creates a UserService. bcryptCost of 0 selects bcrypt.DefaultCost.
func NewUserService(db *sql.DB, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// CreateUser validates in, hashes the password and stores the user.
func (s *UserService) CreateUser(ctx context.Context, in *CreateUserInput) (*model.User, error) {
	if in == nil {
		return nil, model.ErrEmptyPayload
	}

	err := validate.RequiredFields(
		validate.String("username", in.Username),
		validate.String("first_name", in.FirstName),
		validate.String("last_name", in.LastName),
		validate.String("email", in.Email),
		validate.String("password", in.Password),
	)
	if err != nil {
		return nil, err
	}

	username := validate.Trim(*in.Username)
	email := validate.Trim(*in.Email)

	exists, err := store.UserExists(ctx, s.db, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(validate.Trim(*in.Password)), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, model.ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := store.CreateUser(ctx, s.db, username,
		validate.Trim(*in.FirstName), validate.Trim(*in.LastName), email, string(hash))
	if err != nil {
		return nil, err
	}

	metrics.ObserveMutation("user", "create")
	slog.InfoContext(ctx, "user created", "id", user.ID, "username", user.Username)
	return user, nil
}

// ListUsers returns every user, or model.ErrNoUsers if there are none.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := store.ListUsers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, model.ErrNoUsers
	}
	return users, nil
}
