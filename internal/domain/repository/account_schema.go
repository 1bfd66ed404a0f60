package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	accountsTablePostgres = `CREATE TABLE IF NOT EXISTS accounts (
	id            BIGSERIAL PRIMARY KEY,
	username      VARCHAR(80)  NOT NULL UNIQUE,
	email         VARCHAR(120) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL
)`
	accountsTableSQLite = `CREATE TABLE IF NOT EXISTS accounts (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      VARCHAR(80)  NOT NULL UNIQUE,
	email         VARCHAR(120) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL
)`
)

// EnsureAccountsTable creates the accounts table when it does not exist yet.
// It does not alter an existing table.
func EnsureAccountsTable(ctx context.Context, db *sql.DB, driver string) error {
	ddl := accountsTableSQLite
	if driver == "pgx" {
		ddl = accountsTablePostgres
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create accounts table: %w", err)
	}
	return nil
}
