package middleware

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"glowbook/pkg/auth"
	apperrors "glowbook/pkg/errors"
	httputil "glowbook/pkg/http"
	"glowbook/pkg/logger"
)

const RoleKey contextKey = "role"

const APIKeyHeader = "X-Api-Key"

// Authenticate resolves the caller's API key into a role and stores it
// in the request context. Requests without a recognizable key proceed
// as RoleUnknown; capability checks happen per-route.
func Authenticate(ring *auth.Keyring) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := ring.Resolve(r.Header.Get(APIKeyHeader))
			ctx := context.WithValue(r.Context(), RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RoleFrom returns the authenticated role, RoleUnknown when absent.
func RoleFrom(r *http.Request) auth.Role {
	if v := r.Context().Value(RoleKey); v != nil {
		if role, ok := v.(auth.Role); ok {
			return role
		}
	}
	return auth.RoleUnknown
}

// RequireCapability wraps a route handler with a per-route capability
// check. Routes are registered with the capability they guard.
func RequireCapability(cap auth.Capability, log *logger.Logger, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		role := RoleFrom(r)
		if !role.Can(cap) {
			log.Warn("Capability check failed",
				"request_id", requestIDFrom(r),
				"role", role.String(),
				"capability", string(cap),
				"path", r.URL.Path,
			)

			if err := httputil.WriteError(w, apperrors.Forbidden("Forbidden")); err != nil {
				log.Error("failed to write error response", "middleware", "RequireCapability", "error", err)
			}
			return
		}

		next(w, r, ps)
	}
}
