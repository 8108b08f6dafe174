package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) *Service {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewService([]string{"analyst@meridianlake.com", "Partner@MeridianLake.com"}, "test-secret", time.Hour, log)
}

func TestLogin_AllowListed(t *testing.T) {
	svc := newTestAuth(t)

	token, err := svc.Login("analyst@meridianlake.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "analyst@meridianlake.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestLogin_CaseInsensitive(t *testing.T) {
	svc := newTestAuth(t)

	token, err := svc.Login("  PARTNER@meridianlake.com ")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "partner@meridianlake.com", claims.Email)
}

func TestLogin_UnauthorizedEmail(t *testing.T) {
	svc := newTestAuth(t)

	_, err := svc.Login("intruder@example.com")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestAuth(t)
	token, err := svc.Login("analyst@meridianlake.com")
	require.NoError(t, err)

	log := zerolog.New(nil).Level(zerolog.Disabled)
	other := NewService([]string{"analyst@meridianlake.com"}, "different-secret", time.Hour, log)

	_, err = other.ValidateToken(token)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidateToken_Expired(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	svc := NewService([]string{"analyst@meridianlake.com"}, "test-secret", -time.Minute, log)

	token, err := svc.Login("analyst@meridianlake.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestMiddleware(t *testing.T) {
	svc := newTestAuth(t)
	token, err := svc.Login("analyst@meridianlake.com")
	require.NoError(t, err)

	var seenEmail string
	protected := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenEmail = EmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/benchmark/options", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "analyst@meridianlake.com", seenEmail)
	})

	t.Run("query token fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events/ws?_token="+token, nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/benchmark/options", nil)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/benchmark/options", nil)
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/benchmark/options", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		protected.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
