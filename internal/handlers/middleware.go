package handlers

import (
	"net/http"
	"strings"

	"github.com/worldcup-api/apiserver/internal/auth"
)

const (
	msgNoToken      = "Unauthorized: No token provided"
	msgInvalidToken = "Unauthorized: Invalid token"
)

// AccessVerifier checks access tokens.
type AccessVerifier interface {
	VerifyAccess(token string) (auth.TokenPayload, error)
}

// RequireAuth rejects requests without a valid "Bearer" access token and
// binds the caller identity onto the request context.
func RequireAuth(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, msgNoToken)
				return
			}

			payload, err := verifier.VerifyAccess(token)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			ctx := auth.WithIdentity(r.Context(), auth.Identity{
				UserID: payload.UserID,
				Email:  payload.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity bound by RequireAuth.
func IdentityFromContext(r *http.Request) (auth.Identity, bool) {
	return auth.IdentityFromContext(r.Context())
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	return token, true
}
