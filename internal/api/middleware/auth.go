package middleware

import (
	"context"
	"net/http"

	"projeto_nfc/internal/common"
	"projeto_nfc/internal/domain/model"
)

type contextKey string

const AdminIdentityCtxKey contextKey = "adminIdentity"

// AuthChecker turns an Authorization header value into an admin identity.
type AuthChecker interface {
	CheckAuth(header string) (*model.AdminIdentity, bool)
}

// RequireAdmin rejects requests without a valid admin bearer token before the
// wrapped handler runs. Every failure gets the same 401 body.
func RequireAdmin(checker AuthChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var header string
			// More than one Authorization header is as bad as none.
			if values := r.Header.Values("Authorization"); len(values) == 1 {
				header = values[0]
			}

			identity, ok := checker.CheckAuth(header)
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), AdminIdentityCtxKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper to get the admin identity from context
func GetAdminIdentityFromContext(ctx context.Context) (*model.AdminIdentity, bool) {
	identity, ok := ctx.Value(AdminIdentityCtxKey).(*model.AdminIdentity)
	return identity, ok
}
