package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict") // e.g., username or email already exists
	ErrInternalServer = errors.New("internal server error")
	ErrTooManyRequest = errors.New("too many requests")

	// Unlock-specific kinds. Each wraps one of the base kinds above so that
	// HTTPStatusFromError keeps working on them.
	ErrMissingFields       = fmt.Errorf("missing userId or pin: %w", ErrBadRequest)
	ErrInvalidPin          = fmt.Errorf("invalid pin: %w", ErrUnauthorized)
	ErrMisconfiguredRecord = fmt.Errorf("record has no pin hash: %w", ErrInternalServer)
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) || IsUniqueViolation(err) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrTooManyRequest) {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// IsUniqueViolation reports whether err is a unique-constraint violation from
// either relational driver the account store runs on.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}
