package rest

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
)

type contextKey string

const userEmailKey = contextKey("userEmail")

// UserEmailMiddleware reads the caller identity the API gateway puts into
// X-User-Email.
func UserEmailMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("X-User-Email"))
		if raw == "" {
			WriteJSONError(w, http.StatusUnauthorized, "X-User-Email header is missing")
			return
		}
		addr, err := mail.ParseAddress(raw)
		if err != nil || addr.Address != raw {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid X-User-Email header format")
			return
		}

		ctx := context.WithValue(r.Context(), userEmailKey, strings.ToLower(addr.Address))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKey).(string)
	return email, ok && email != ""
}
