package middleware

import (
	"net/http"

	"github.com/jokio/jokauth"
	"github.com/jokio/jokauth/permission"
)

// RequireRoles demands a valid token whose roles satisfy roles under the
// Verifier's bind predicate. A missing or rejected token gets 401, a role
// mismatch 403.
//
// RequireRoles panics when a role name is empty; that is a wiring error.
func RequireRoles(v *jokauth.Verifier, roles ...string) func(http.Handler) http.Handler {
	req := mustRequirement(v, roles)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				unauthorized(w)
				return
			}

			r, ok := authenticate(v, r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, _ := ClaimsFromContext(r.Context())
			if !req.Satisfied(v.Roles(claims)) {
				forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRolesOrSubject admits callers that satisfy roles, or whose subject
// equals the identifier owner extracts from the request. It models rules such
// as "admins, or the user reading their own record".
func RequireRolesOrSubject(v *jokauth.Verifier, owner func(*http.Request) string, roles ...string) func(http.Handler) http.Handler {
	req := mustRequirement(v, roles)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				unauthorized(w)
				return
			}

			r, ok := authenticate(v, r)
			if !ok {
				unauthorized(w)
				return
			}

			claims, _ := ClaimsFromContext(r.Context())
			if req.Satisfied(v.Roles(claims)) {
				next.ServeHTTP(w, r)
				return
			}

			if owner != nil {
				if subject := v.Subject(claims); subject != "" && subject == owner(r) {
					next.ServeHTTP(w, r)
					return
				}
			}

			forbidden(w)
		})
	}
}

func mustRequirement(v *jokauth.Verifier, roles []string) permission.Requirement {
	req, err := permission.NewRequirement(v.BindPredicate(), roles...)
	if err != nil {
		panic("middleware: " + err.Error())
	}
	return req
}
