package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"projeto_nfc/internal/common"
	"projeto_nfc/internal/domain/model"
)

// AccountRepository is the relational accounts table. username and email are
// unique; the store enforces it.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) (int64, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByID(ctx context.Context, id int64) (*model.Account, error)
}

// sqlAccountRepository runs on both pgx (Postgres) and modernc (SQLite).
// Queries are written with "?" placeholders and rebound for Postgres.
type sqlAccountRepository struct {
	db       *sql.DB
	postgres bool
}

func NewSQLAccountRepository(db *sql.DB, driver string) AccountRepository {
	return &sqlAccountRepository{db: db, postgres: driver == "pgx"}
}

func (r *sqlAccountRepository) rebind(query string) string {
	if !r.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *sqlAccountRepository) Create(ctx context.Context, account *model.Account) (int64, error) {
	query := r.rebind(`INSERT INTO accounts (username, email, password_hash)
	          VALUES (?, ?, ?) RETURNING id`)
	var id int64
	err := r.db.QueryRowContext(ctx, query, account.Username, account.Email, account.PasswordHash).Scan(&id)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return 0, fmt.Errorf("account with given username or email already exists: %w", common.ErrConflict)
		}
		return 0, fmt.Errorf("sqlAccountRepository.Create: %w", err)
	}
	account.ID = id
	return id, nil
}

// FindByEmail matches the email byte for byte; no case folding is applied.
func (r *sqlAccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := r.rebind(`SELECT id, username, email, password_hash
	          FROM accounts WHERE email = ?`)
	account := &model.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlAccountRepository.FindByEmail: %w", err)
	}
	return account, nil
}

func (r *sqlAccountRepository) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	query := r.rebind(`SELECT id, username, email, password_hash
	          FROM accounts WHERE id = ?`)
	account := &model.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("sqlAccountRepository.FindByID: %w", err)
	}
	return account, nil
}
