package middleware

import (
	"net/http"

	"projeto_nfc/internal/platform/logging"
	"projeto_nfc/internal/platform/session"
)

// LoadSession puts the caller's session into the request context. A session
// backend fault is logged and the request continues as anonymous.
func LoadSession(store session.Store, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Load(r)
			if err != nil {
				log.Error(r.Context(), "load session failed", "error", err)
				sess = session.Session{}
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}
