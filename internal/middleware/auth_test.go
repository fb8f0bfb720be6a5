package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radiusdt/affiliate-hub/internal/config"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAuthHandler(cfg config.AuthConfig) (http.Handler, *string) {
	var seenTenant string
	mw := NewAuthMiddleware(cfg, zap.NewNop())
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTenant = TenantFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seenTenant
}

func enabledConfig() config.AuthConfig {
	return config.AuthConfig{
		Enabled:   true,
		JWTSecret: testSecret,
		SkipPaths: []string{"/health"},
	}
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	handler, seenTenant := newAuthHandler(enabledConfig())
	token := signToken(t, jwt.MapClaims{"tenant_id": "tenant-1", "sub": "user-1"})

	req := httptest.NewRequest(http.MethodGet, "/api/affiliate/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tenant-1", *seenTenant)
}

func TestAuthAcceptsQueryParamFallback(t *testing.T) {
	handler, seenTenant := newAuthHandler(enabledConfig())
	token := signToken(t, jwt.MapClaims{"tenant_id": "tenant-2"})

	req := httptest.NewRequest(http.MethodGet, "/api/affiliate/events?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tenant-2", *seenTenant)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler, _ := newAuthHandler(enabledConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/affiliate/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	handler, _ := newAuthHandler(enabledConfig())
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{"tenant_id": "tenant-1"}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/affiliate/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSkipsConfiguredPaths(t *testing.T) {
	handler, _ := newAuthHandler(enabledConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	handler, _ := newAuthHandler(config.AuthConfig{Enabled: false})

	req := httptest.NewRequest(http.MethodGet, "/api/affiliate/events", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestParseTokenRequiresTenantClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "user-1"})

	_, _, err := ParseToken(token, testSecret)
	assert.ErrorContains(t, err, "tenant_id")
}

func TestParseTokenExtractsClaims(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"tenant_id": "tenant-9", "sub": "user-9"})

	tenantID, userID, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "tenant-9", tenantID)
	assert.Equal(t, "user-9", userID)
}
