package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worldcup-api/apiserver/types"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var userColumns = []string{"id", "name", "email", "password_hash", "refresh_token", "created_at", "updated_at"}

func TestUserRepository_GetByEmail_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .* FROM users\s+WHERE email = \$1`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "A", "a@b.com", "hash", "rt", now, now))

	user, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "rt", user.RefreshToken)
	assert.Equal(t, "hash", user.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NullRefreshToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT .* FROM users\s+WHERE id = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "C", "c@d.com", "hash", nil, now, now))

	user, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, user.RefreshToken)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)SELECT .* FROM users`).
		WithArgs("ghost@b.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)INSERT INTO users \(name, email, password_hash, created_at, updated_at\).*RETURNING id`).
		WithArgs("A", "a@b.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	user, err := repo.Create(context.Background(), types.User{Name: "A", Email: "a@b.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, 11, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), types.User{Name: "A", Email: "a@b.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_UpdateRefreshToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`(?s)UPDATE users\s+SET refresh_token = \$1`).
		WithArgs("token", sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateRefreshToken(context.Background(), 5, "token"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRefreshToken_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("token", sqlmock.AnyArg(), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRefreshToken(context.Background(), 99, "token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_UpdateRefreshToken_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users`).WillReturnError(errors.New("db down"))

	err := repo.UpdateRefreshToken(context.Background(), 1, "token")
	assert.EqualError(t, err, "db down")
}
