package http

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	ctxKeyUserID ctxKey = "userID"
	ctxKeyRole   ctxKey = "role"
)

const RoleAdmin = "admin"

// Auth reads the caller identity that the edge proxy injects via headers
// and makes it available to handlers. Requests without an identity get 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user identity")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUserID, userID)
		ctx = context.WithValue(ctx, ctxKeyRole, r.Header.Get("X-User-Role"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin guards mutating catalog and order-management routes.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if roleFrom(r.Context()) != RoleAdmin {
			respondError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyUserID).(string)
	return id
}

func roleFrom(ctx context.Context) string {
	role, _ := ctx.Value(ctxKeyRole).(string)
	return role
}
