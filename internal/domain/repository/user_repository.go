package repository

import (
	"context"
	"errors"

	"github.com/mwikya/authd/internal/domain/entity"
)

// ErrNotFound is returned by lookups when no record matches. Absence of a
// record is a routine condition for most callers, so it is a sentinel the
// caller can branch on with errors.Is rather than an opaque failure.
var ErrNotFound = errors.New("user not found")

// UserRepository is the persistence contract the authenticator consumes.
// Multi-field writes (ReplacePassword) must be applied as one atomic update.
type UserRepository interface {
	Create(ctx context.Context, email, hashedPassword string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetBySessionToken(ctx context.Context, token string) (*entity.User, error)
	GetByResetToken(ctx context.Context, token string) (*entity.User, error)

	// SetSessionToken overwrites the user's session token; nil clears it.
	SetSessionToken(ctx context.Context, id string, token *string) error
	// SetResetToken overwrites the user's reset token; nil clears it.
	SetResetToken(ctx context.Context, id string, token *string) error
	// ReplacePassword stores a new password digest and clears the reset
	// token in the same write, so no intermediate state is observable.
	ReplacePassword(ctx context.Context, id, hashedPassword string) error
}
