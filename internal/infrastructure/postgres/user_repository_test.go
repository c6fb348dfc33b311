package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwikya/authd/internal/domain/repository"
)

const testUserID = "9f4b9c6a-8a1b-4b5e-9a6e-0c2f4d8e1a3b"

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock pool")
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestUserRepository_Create(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("a@x.com", "digest").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(testUserID, now, now))

	u, err := repo.Create(context.Background(), "a@x.com", "digest")
	require.NoError(t, err)
	assert.Equal(t, testUserID, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "digest", u.HashedPassword)
	assert.Nil(t, u.SessionToken)
	assert.Nil(t, u.ResetToken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	now := time.Now()
	session := "session-token"

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		wantToken *string
	}{
		{
			name: "found with active session",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "email", "hashed_password", "session_token", "reset_token", "created_at", "updated_at"}).
					AddRow(testUserID, "a@x.com", "digest", &session, nil, now, now)
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE email =`).
					WithArgs("a@x.com").
					WillReturnRows(rows)
			},
			wantToken: &session,
		},
		{
			name: "no match maps to ErrNotFound",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE email =`).
					WithArgs("a@x.com").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: repository.ErrNotFound,
		},
		{
			name: "other failures pass through",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE email =`).
					WithArgs("a@x.com").
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepo(t)
			tt.setupMock(mock)

			u, err := repo.GetByEmail(context.Background(), "a@x.com")
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, repository.ErrNotFound) {
					assert.ErrorIs(t, err, repository.ErrNotFound)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, testUserID, u.ID)
				require.NotNil(t, u.SessionToken)
				assert.Equal(t, *tt.wantToken, *u.SessionToken)
				assert.Nil(t, u.ResetToken)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_GetBySessionToken(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()
	session := "session-token"

	rows := pgxmock.NewRows([]string{"id", "email", "hashed_password", "session_token", "reset_token", "created_at", "updated_at"}).
		AddRow(testUserID, "a@x.com", "digest", &session, nil, now, now)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE session_token =`).
		WithArgs("session-token").
		WillReturnRows(rows)

	u, err := repo.GetBySessionToken(context.Background(), "session-token")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetSessionToken(t *testing.T) {
	token := "fresh-token"

	tests := []struct {
		name      string
		token     *string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name:  "set token",
			token: &token,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs(&token, testUserID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name:  "clear token",
			token: nil,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs((*string)(nil), testUserID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name:  "unknown id",
			token: &token,
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs(&token, testUserID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMockRepo(t)
			tt.setupMock(mock)

			err := repo.SetSessionToken(context.Background(), testUserID, tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_ReplacePassword(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("new-digest", testUserID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.ReplacePassword(context.Background(), testUserID, "new-digest"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
