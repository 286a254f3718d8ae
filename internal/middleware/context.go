// AngelaMos | 2026
// context.go

package middleware

import (
	"context"

	"github.com/carterperez-dev/delivery-admin/internal/rbac"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	PrincipalKey contextKey = "principal"
)

func WithPrincipal(ctx context.Context, p *rbac.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipal returns the caller resolved from the session, or nil for an
// anonymous request.
func GetPrincipal(ctx context.Context) *rbac.Principal {
	if p, ok := ctx.Value(PrincipalKey).(*rbac.Principal); ok {
		return p
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.ID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
