package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"projeto_nfc/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	valid  string
	called []string
}

func (s *stubChecker) CheckAuth(header string) (*model.AdminIdentity, bool) {
	s.called = append(s.called, header)
	if header != "" && header == s.valid {
		return &model.AdminIdentity{Subject: "admin-1", Role: model.RoleAdmin}, true
	}
	return nil, false
}

func TestRequireAdmin(t *testing.T) {
	checker := &stubChecker{valid: "Bearer good"}

	var reached bool
	var identity *model.AdminIdentity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		identity, _ = GetAdminIdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := RequireAdmin(checker)(next)

	tests := []struct {
		name    string
		headers []string
		want    int
	}{
		{"valid token", []string{"Bearer good"}, http.StatusOK},
		{"no header", nil, http.StatusUnauthorized},
		{"bad token", []string{"Bearer bad"}, http.StatusUnauthorized},
		{"duplicate headers", []string{"Bearer good", "Bearer good"}, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached, identity = false, nil
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			for _, v := range tc.headers {
				req.Header.Add("Authorization", v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusOK {
				assert.True(t, reached)
				require.NotNil(t, identity)
				assert.Equal(t, "admin-1", identity.Subject)
				return
			}
			assert.False(t, reached)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, map[string]string{"error": "Unauthorized"}, body)
		})
	}
}

func TestGetAdminIdentityFromContext_Empty(t *testing.T) {
	_, ok := GetAdminIdentityFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
