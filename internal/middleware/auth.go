// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/carterperez-dev/delivery-admin/internal/core"
	"github.com/carterperez-dev/delivery-admin/internal/rbac"
)

// SessionResolver turns the raw session cookie value into the live caller.
// It returns core.ErrUnauthorized when the reference no longer maps to a
// usable identity.
type SessionResolver interface {
	Resolve(ctx context.Context, cookieValue string) (*rbac.Principal, error)
}

// Session attaches the caller to the request context when the session cookie
// resolves. It never rejects a request; Authorize decides that per operation.
func Session(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, core.ErrUnauthorized) &&
					!errors.Is(err, core.ErrAccountBlocked) {
					slog.ErrorContext(r.Context(), "session resolution failed",
						"error", err,
						"request_id", GetRequestID(r.Context()),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// Authorize enforces the policy entry for op before the handler runs.
func Authorize(policy rbac.Policy, op rbac.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())

			err := policy.Authorize(op, principal)
			switch {
			case err == nil:
				core.AuthzDecisions.WithLabelValues(string(op), "allow").Inc()
				next.ServeHTTP(w, r)
			case errors.Is(err, core.ErrUnauthorized):
				core.AuthzDecisions.WithLabelValues(string(op), "unauthenticated").Inc()
				core.JSONError(w, core.UnauthorizedError(""))
			default:
				core.AuthzDecisions.WithLabelValues(string(op), "deny").Inc()
				slog.InfoContext(r.Context(), "authorization denied",
					"operation", op,
					"user_id", principal.ID,
					"role", principal.Role,
				)
				core.JSONError(w, core.ForbiddenError(""))
			}
		})
	}
}

// Guard binds a policy once so routers can ask for per operation middleware.
func Guard(policy rbac.Policy) func(rbac.Operation) func(http.Handler) http.Handler {
	return func(op rbac.Operation) func(http.Handler) http.Handler {
		return Authorize(policy, op)
	}
}
