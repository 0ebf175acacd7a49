package middleware

import (
	"context"
	"net/http"

	"github.com/SteffanA/devconnector/internal/config"
	"github.com/SteffanA/devconnector/internal/security"
	"github.com/SteffanA/devconnector/internal/utils"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenHeader is the request header carrying the bearer token.
const TokenHeader = "x-auth-token"

// AuthMiddleware gates protected routes. It verifies the x-auth-token
// header and attaches the resolved user id to the request context;
// every protected handler relies on that identity being present.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := r.Header.Get(TokenHeader)
		if tokenStr == "" {
			utils.Message(w, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		claims, err := security.ParseToken(config.Envs.JWTSecret, tokenStr)
		if err != nil {
			utils.Message(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.User.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the identity attached by AuthMiddleware, or "" on an
// unauthenticated request.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(UserIDKey).(string)
	return id
}
