package httpx

import (
	"net/http"
	"strings"
)

// RequireRole lets the request through when the authenticated role is one of
// the listed roles. An empty list means any authenticated caller. Role
// precedence (a system-wide role superseding the listed ones) is the caller's
// concern: include it in the list when registering the route.
func RequireRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(want) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := want[RoleFromCtx(r.Context())]; ok {
				next.ServeHTTP(w, r)
				return
			}

			writeBearerRoleError(w, allowed...)
		})
	}
}

// RFC 6750-style error response for callers lacking a required role.
func writeBearerRoleError(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	ErrForbidden.WriteError(w)
}
