package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/authz"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
)

// Permissions builds per-route permission checks backed by one authorizer.
type Permissions struct {
	authorizer *authz.Authorizer
}

func NewPermissions(authorizer *authz.Authorizer) *Permissions {
	return &Permissions{authorizer: authorizer}
}

// Require rejects the request unless the caller's role may perform action on
// resource. In shadow mode denials are only logged.
func (p *Permissions) Require(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, "Not authenticated")
				return
			}

			allowed, enforced, err := p.authorizer.Authorize(claims.Role, resource, action)
			if err != nil {
				slog.ErrorContext(r.Context(), "authorization check failed",
					"error", err, "role", claims.Role, "resource", resource, "action", action)
				if enforced {
					response.InternalServerError(w, "An unexpected error occurred")
					return
				}
			}

			if !allowed {
				if !enforced {
					slog.WarnContext(r.Context(), "authorization denied (shadow)",
						"role", claims.Role, "resource", resource, "action", action, "path", r.URL.Path)
					next.ServeHTTP(w, r)
					return
				}
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s:%s', but user role is '%s'", resource, action, claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
