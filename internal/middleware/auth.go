package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/radiusdt/affiliate-hub/internal/config"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// TenantIDContextKey is the context key for the authenticated tenant.
	TenantIDContextKey contextKey = "tenant_id"

	// UserIDContextKey is the context key for the authenticated user.
	UserIDContextKey contextKey = "user_id"

	// AuthQueryParam is the query parameter name for the token (fallback,
	// used by clients that cannot set headers).
	AuthQueryParam = "token"
)

// TenantFromContext returns the tenant ID set by the auth middleware.
func TenantFromContext(ctx context.Context) string {
	tenantID, _ := ctx.Value(TenantIDContextKey).(string)
	return tenantID
}

// UserFromContext returns the user ID set by the auth middleware.
func UserFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDContextKey).(string)
	return userID
}

// AuthMiddleware validates JWT bearer tokens and resolves the tenant.
type AuthMiddleware struct {
	cfg    config.AuthConfig
	logger *zap.Logger
}

func NewAuthMiddleware(cfg config.AuthConfig, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg, logger: logger}
}

func (a *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		if a.shouldSkip(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			token = r.URL.Query().Get(AuthQueryParam)
		}

		if token == "" {
			a.unauthorized(w, "missing bearer token")
			return
		}

		tenantID, userID, err := ParseToken(token, a.cfg.JWTSecret)
		if err != nil {
			a.logger.Warn("invalid token",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			a.unauthorized(w, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), TenantIDContextKey, tenantID)
		ctx = context.WithValue(ctx, UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseToken validates an HS256 JWT and extracts the tenant and user claims.
func ParseToken(tokenString, secret string) (tenantID, userID string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token claims")
	}

	tenantID, _ = claims["tenant_id"].(string)
	if tenantID == "" {
		return "", "", fmt.Errorf("token missing tenant_id claim")
	}
	userID, _ = claims["sub"].(string)

	return tenantID, userID, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (a *AuthMiddleware) shouldSkip(path string) bool {
	for _, skip := range a.cfg.SkipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}

func (a *AuthMiddleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
