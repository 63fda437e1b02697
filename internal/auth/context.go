package auth

import (
	"context"
	"net/http"
)

type ctxKey int

const (
	tenantIDKey ctxKey = iota
	userIDKey
)

func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetTenantID returns the tenant discriminator the middleware resolved, or ""
// when the request carried none.
func GetTenantID(ctx context.Context) string {
	if val, ok := ctx.Value(tenantIDKey).(string); ok {
		return val
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	return ""
}

// Middleware copies the tenant and user headers into the request context.
// Tenant resolution itself (sessions, impersonation) lives outside this
// service; requests without a tenant are rejected here so every downstream
// query is tenant-scoped.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get("X-Tenant-Id")
		if tenantID == "" {
			http.Error(w, "missing X-Tenant-Id header", http.StatusBadRequest)
			return
		}

		ctx := WithTenantID(r.Context(), tenantID)
		if userID := r.Header.Get("X-User-Id"); userID != "" {
			ctx = WithUserID(ctx, userID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
