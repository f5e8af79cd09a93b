package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/DonMunyoki/CHEKI-EVENTS/internal/auth"
)

// TokenVerifier is the minimal interface needed to authenticate requests.
type TokenVerifier interface {
	VerifyToken(token string) (auth.Claims, error)
}

type userIDKey struct{}

// RequireAuth rejects requests without a valid Bearer token and injects the
// authenticated user id into the request context. Downstream handlers only
// ever see the opaque id.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "access denied: no token provided")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id set by RequireAuth.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}
