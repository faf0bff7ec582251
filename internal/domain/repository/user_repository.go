package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrDuplicate      = errors.New("duplicate record")
)

// UserRepository is the credential store. It exclusively owns password hashes and reset tokens.
type UserRepository interface {
	// Create inserts u and fills ID and timestamps. Fails with ErrDuplicateEmail.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateResetToken sets or (with nil) clears the pending reset token.
	UpdateResetToken(ctx context.Context, email string, token *string) error
	// UpdatePassword stores hash and clears the reset token in one statement.
	UpdatePassword(ctx context.Context, email, hash string) error
	// ConsumeResetToken behaves like UpdatePassword but only when token is the stored one.
	// It reports false when no row matched.
	ConsumeResetToken(ctx context.Context, email, token, hash string) (bool, error)
	UpdateResumeURL(ctx context.Context, id, url string) error
}
