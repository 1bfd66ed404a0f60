package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"projeto_nfc/internal/common"
	"projeto_nfc/internal/domain/model"
	"projeto_nfc/internal/platform/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPgRepoWithMock(t *testing.T) (AccountRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLAccountRepository(db, "pgx"), mock
}

func newSQLiteRepo(t *testing.T) AccountRepository {
	t.Helper()
	db, err := database.Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, EnsureAccountsTable(context.Background(), db, "sqlite"))
	return NewSQLAccountRepository(db, "sqlite")
}

func TestRebind(t *testing.T) {
	pg := &sqlAccountRepository{postgres: true}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &sqlAccountRepository{}
	assert.Equal(t, "SELECT a FROM t WHERE x = ?", lite.rebind("SELECT a FROM t WHERE x = ?"))
}

func TestPgCreate_Success(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+accounts\s*\(username,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id$`
	mock.ExpectQuery(q).
		WithArgs("alice", "alice@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	account := &model.Account{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	id, err := repo.Create(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, int64(7), account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgCreate_UniqueViolation(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	_, err := repo.Create(context.Background(), &model.Account{Username: "a", Email: "e", PasswordHash: "h"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestPgCreate_DBError(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &model.Account{Username: "a", Email: "e", PasswordHash: "h"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrConflict)
	assert.Contains(t, err.Error(), "db down")
}

func TestPgFindByEmail(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	q := `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1$`
	mock.ExpectQuery(q).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(int64(1), "alice", "alice@example.com", "hash"))
	mock.ExpectQuery(q).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, &model.Account{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}, got)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgFindByID_DBError(t *testing.T) {
	repo, mock := newPgRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM accounts WHERE id = $1`)).
		WithArgs(int64(9)).
		WillReturnError(errors.New("boom"))

	_, err := repo.FindByID(context.Background(), 9)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_CreateAndFind(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &model.Account{Username: "alice", Email: "alice@example.com", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.Positive(t, id)

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "alice", byEmail.Username)

	byID, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, byEmail, byID)

	_, err = repo.FindByID(ctx, id+100)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_EmailIsCaseSensitive(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.Account{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.FindByEmail(ctx, "Alice@Example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLite_DuplicatesConflict(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	firstID, err := repo.Create(ctx, &model.Account{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.Account{Username: "alice2", Email: "alice@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrConflict, "duplicate email")

	_, err = repo.Create(ctx, &model.Account{Username: "alice", Email: "other@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrConflict, "duplicate username")

	first, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, firstID, first.ID)
	assert.Equal(t, "alice", first.Username)
}
