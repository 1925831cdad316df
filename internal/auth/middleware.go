package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// Middleware validates the Bearer token and puts the user id into the
// request context. Requests without a valid token get 401.
func (i *TokenIssuer) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			unauthorized(w, "Access denied. No token provided.")
			return
		}

		userID, err := i.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			unauthorized(w, "Invalid or expired token.")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"success":false,"message":%q}`, message)
}

// UserIDFromContext returns the authenticated user id placed by
// Middleware.
func UserIDFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0, errors.New("user not authenticated")
	}
	return id, nil
}
