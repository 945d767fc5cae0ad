package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	jwtutil "jkwi-ims/backend/app/jwt"
)

type ctxKey int

const ClaimsKey ctxKey = 1

type Auth struct{ Signer *jwtutil.Signer }

// RequireAuth rejects requests without a valid bearer token with a JSON 401.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			unauthorized(w, "missing bearer token")
			return
		}
		token := strings.TrimPrefix(authz, "Bearer ")
		claims, err := a.Signer.Parse(token)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional returns RequireAuth(next) when enabled and next otherwise.
func (a *Auth) Optional(enabled bool, next http.Handler) http.Handler {
	if !enabled {
		return next
	}
	return a.RequireAuth(next)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": msg})
}

// ClaimsFrom returns the claims RequireAuth stored on ctx, if any.
func ClaimsFrom(ctx context.Context) (*jwtutil.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtutil.Claims)
	return c, ok
}
