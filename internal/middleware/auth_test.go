package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelechi-obi/flyzone-backend/internal/auth"
	"github.com/kelechi-obi/flyzone-backend/internal/domain"
)

const testSecret = "test-secret"

func protectedEcho(t *testing.T) (http.Handler, *auth.Identity) {
	t.Helper()
	var captured auth.Identity
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		require.True(t, ok)
		captured = id
		w.WriteHeader(http.StatusNoContent)
	})
	return h, &captured
}

func TestAuth_ValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.GenerateToken(userID, "user@test.com", domain.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)

	next, captured := protectedEcho(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(testSecret)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, userID, captured.UserID)
	assert.Equal(t, domain.RoleUser, captured.Role)
}

func TestAuth_Rejections(t *testing.T) {
	expired, err := auth.GenerateToken(uuid.New(), "user@test.com", domain.RoleUser, testSecret, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, want: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
			Auth(testSecret)(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	adminToken, err := auth.GenerateToken(uuid.New(), "admin@test.com", domain.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	userToken, err := auth.GenerateToken(uuid.New(), "user@test.com", domain.RoleUser, testSecret, time.Hour)
	require.NoError(t, err)

	chain := Auth(testSecret)(RequireAdmin(next))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
