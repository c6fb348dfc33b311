// Package application contains the credential and session business logic.
package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mwikya/authd/internal/domain/entity"
	"github.com/mwikya/authd/internal/domain/repository"
	"github.com/mwikya/authd/pkg/hashing"
)

var (
	// ErrEmailTaken is returned by Register when the email already has a record.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnknownEmail is returned by RequestPasswordReset for unregistered emails.
	ErrUnknownEmail = errors.New("unknown email")
	// ErrInvalidResetToken is returned by UpdatePassword when no record holds the token.
	ErrInvalidResetToken = errors.New("invalid reset token")
)

// Authenticator is a façade over the user record store. It owns the session
// and credential state transitions; persistence and password hashing are
// injected collaborators.
type Authenticator struct {
	repo   repository.UserRepository
	hasher hashing.PasswordHasher
	logger *logrus.Logger
}

func NewAuthenticator(repo repository.UserRepository, hasher hashing.PasswordHasher, logger *logrus.Logger) *Authenticator {
	return &Authenticator{repo: repo, hasher: hasher, logger: logger}
}

// newToken returns a fresh opaque bearer token: 32 bytes from a CSPRNG,
// base64 raw-URL encoded. Session and reset tokens use the same shape.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Register creates a new user record for email. The email must not already
// be registered; duplicates fail with ErrEmailTaken, never overwrite.
func (a *Authenticator) Register(ctx context.Context, email, password string) (*entity.User, error) {
	_, err := a.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	digest, err := a.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u, err := a.repo.Create(ctx, email, digest)
	if err != nil {
		return nil, err
	}
	if a.logger != nil {
		a.logger.WithField("user_id", u.ID).Info("user registered")
	}
	return u, nil
}

// VerifyLogin reports whether email/password are valid credentials. An
// unregistered email yields false, indistinguishable from a wrong password,
// so callers cannot probe for account existence.
func (a *Authenticator) VerifyLogin(ctx context.Context, email, password string) (bool, error) {
	u, err := a.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return a.hasher.Check(password, u.HashedPassword), nil
}

// CreateSession issues a fresh session token for email and persists it,
// silently invalidating any prior session. An unregistered email yields
// an empty token and no error.
func (a *Authenticator) CreateSession(ctx context.Context, email string) (string, error) {
	u, err := a.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := a.repo.SetSessionToken(ctx, u.ID, &token); err != nil {
		return "", err
	}
	return token, nil
}

// ResolveSession returns the user holding the given session token, or nil
// when the token is empty or matches no record. This is the hot path for
// request authentication: read-only, and empty tokens never hit the store.
func (a *Authenticator) ResolveSession(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, nil
	}
	u, err := a.repo.GetBySessionToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// DestroySession clears the user's session token. It is idempotent and does
// not check that the user exists; revoking is best-effort and never fails
// for an unknown id.
func (a *Authenticator) DestroySession(ctx context.Context, userID string) error {
	err := a.repo.SetSessionToken(ctx, userID, nil)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// RequestPasswordReset issues a reset token for email, replacing any
// outstanding one. Unlike login, the caller is told when the target does
// not exist: issuing a reset for an unknown account is caller misuse.
func (a *Authenticator) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := a.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrUnknownEmail, email)
	}
	if err != nil {
		return "", err
	}
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := a.repo.SetResetToken(ctx, u.ID, &token); err != nil {
		return "", err
	}
	return token, nil
}

// UpdatePassword consumes resetToken and stores a new password digest. The
// digest swap and the token clear happen in one repository write, so the
// token is single-use and no state exists where only one of them applied.
func (a *Authenticator) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	u, err := a.repo.GetByResetToken(ctx, resetToken)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}
	digest, err := a.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := a.repo.ReplacePassword(ctx, u.ID, digest); err != nil {
		return err
	}
	if a.logger != nil {
		a.logger.WithField("user_id", u.ID).Info("password updated")
	}
	return nil
}
