// Package session ties a browser to an account id. The account service only
// sees a Session value in the request context; where it is kept is up to the
// Store.
package session

import (
	"context"
	"net/http"
	"time"
)

// Session is the per-request view of the login state. AccountID is nil for
// anonymous visitors.
type Session struct {
	AccountID *int64
}

func ForAccount(id int64) Session {
	return Session{AccountID: &id}
}

func (s Session) Authenticated() bool {
	return s.AccountID != nil
}

// Store loads, saves and destroys sessions. Load treats a missing, expired or
// forged session as anonymous and only fails on backend faults. Destroy is
// idempotent.
type Store interface {
	Load(r *http.Request) (Session, error)
	Save(w http.ResponseWriter, r *http.Request, s Session) error
	Destroy(w http.ResponseWriter, r *http.Request) error
}

// CookieOptions is shared by both store implementations.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func (o CookieOptions) set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     o.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(o.TTL.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (o CookieOptions) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     o.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (o CookieOptions) read(r *http.Request) (string, bool) {
	c, err := r.Cookie(o.Name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

type contextKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request's session, anonymous when none was loaded.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(contextKey{}).(Session)
	return s
}
