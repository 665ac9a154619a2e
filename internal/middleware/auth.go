package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"paasd/internal/domain"
	"paasd/internal/token"
)

// Authenticator returns an HTTP middleware that verifies the bearer token
// on every request and stores the resulting Caller in the context.
// Verification failures are 401 with a reason that never echoes the
// token; absence of a token is indistinguishable from a bad one.
func Authenticator(verifier token.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				writeUnauthorized(w, unauthorizedReason(err))
				return
			}

			ctx := domain.WithCaller(r.Context(), tok.Caller())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorizedReason maps a verification error to a response message.
// Expired tokens are called out so clients refresh instead of retrying;
// everything else is a generic rejection.
func unauthorizedReason(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "token expired"
	case errors.Is(err, token.ErrSignatureInvalid), errors.Is(err, token.ErrMalformed):
		return "invalid token"
	default:
		return "invalid token"
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    401,
		"message": message,
	})
}
