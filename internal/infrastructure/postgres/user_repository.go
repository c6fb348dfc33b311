package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mwikya/authd/internal/domain/entity"
	"github.com/mwikya/authd/internal/domain/repository"
)

// DB is the slice of pgxpool.Pool the repositories need. Narrowed to an
// interface so tests can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements repository.UserRepository on PostgreSQL.
type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, hashed_password, session_token, reset_token, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, email, hashedPassword string) (*entity.User, error) {
	u := &entity.User{Email: email, HashedPassword: hashedPassword}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, hashed_password)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, email, hashedPassword)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) GetBySessionToken(ctx context.Context, token string) (*entity.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE session_token = $1`, token)
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token)
}

func (r *UserRepository) getBy(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.SessionToken,
		&u.ResetToken, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) SetSessionToken(ctx context.Context, id string, token *string) error {
	return r.update(ctx, `
		UPDATE users
		SET session_token = $1, updated_at = now()
		WHERE id = $2
	`, token, id)
}

func (r *UserRepository) SetResetToken(ctx context.Context, id string, token *string) error {
	return r.update(ctx, `
		UPDATE users
		SET reset_token = $1, updated_at = now()
		WHERE id = $2
	`, token, id)
}

// ReplacePassword swaps the digest and clears the reset token in a single
// statement; row-level atomicity comes from Postgres itself.
func (r *UserRepository) ReplacePassword(ctx context.Context, id, hashedPassword string) error {
	return r.update(ctx, `
		UPDATE users
		SET hashed_password = $1, reset_token = NULL, updated_at = now()
		WHERE id = $2
	`, hashedPassword, id)
}

func (r *UserRepository) update(ctx context.Context, query string, args ...any) error {
	res, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
