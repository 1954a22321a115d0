package auth

import (
	"log/slog"
	"net/http"

	"github.com/dchesque/app-loja/internal"
	coreuser "github.com/dchesque/app-loja/internal/core/user"
	"github.com/dchesque/app-loja/internal/transport"
)

// RBACAuthorization gates routes on the caller's role.
type RBACAuthorization struct {
	base   *transport.BaseHandler
	logger *slog.Logger
}

func NewRBACAuthorization(base *transport.BaseHandler) *RBACAuthorization {
	return &RBACAuthorization{
		base:   base,
		logger: base.Logger,
	}
}

// Authorize lets the request through only when the caller's role is one of
// roles. It must run after AuthMiddleware.
func (ra *RBACAuthorization) Authorize(roles ...coreuser.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				ra.logger.WarnContext(r.Context(), "authorization check failed: identity not found in context")
				ra.base.HandleError(w, r, internal.ErrUnauthenticated)
				return
			}

			if !id.Role.In(roles...) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", id.ID,
					"role", id.Role,
					"allowed", roles)
				ra.base.HandleError(w, r, internal.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is Authorize(ADMIN, MASTER_ADMIN).
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Authorize(coreuser.AdminRoles...)
}
