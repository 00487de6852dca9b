package http

import (
	"context"
	"net/http"
	"strings"

	"driveshare-backend/internal/security"
)

type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyClaims contextKey = "claims"

	roleAdmin = "admin"
)

// AuthMiddleware validates the bearer token and injects the caller's
// identity into the request context. Token issuance lives outside this
// service; we only consume already-issued access tokens.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "authorization token is not provided", http.StatusUnauthorized)
			return
		}

		token := authHeader
		if len(token) > 7 && strings.EqualFold(token[0:7], "Bearer ") {
			token = token[7:]
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, contextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin guards the voucher administration endpoints.
func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(contextKeyClaims).(*security.UserClaims)
		if !ok || !claims.HasRole(roleAdmin) {
			http.Error(w, "admin role required", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

func userIDFromContext(ctx context.Context) int32 {
	if id, ok := ctx.Value(contextKeyUserID).(int32); ok {
		return id
	}
	return 0
}
