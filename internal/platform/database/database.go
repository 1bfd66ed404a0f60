package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver, registered as "pgx"
	_ "modernc.org/sqlite"             // SQLite driver, registered as "sqlite"
)

// Open opens and pings the relational store. driver is "pgx" or "sqlite".
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	pool := poolFor(driver)
	db.SetMaxOpenConns(pool.maxOpen)
	db.SetMaxIdleConns(pool.maxIdle)
	db.SetConnMaxLifetime(pool.maxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", driver, err)
	}
	return db, nil
}

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
}

// poolFor returns the pool limits for driver. SQLite serialises writers and a
// ":memory:" database lives only as long as its connection, so SQLite gets one
// connection that is never recycled.
func poolFor(driver string) poolSettings {
	if driver == "sqlite" {
		return poolSettings{maxOpen: 1, maxIdle: 1}
	}
	return poolSettings{maxOpen: 25, maxIdle: 25, maxLifetime: 5 * time.Minute}
}
