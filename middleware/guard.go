package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/jokio/jokauth"
)

type claimsContextKey struct{}

// authenticated ties decoded claims to the Verifier that accepted them.
type authenticated struct {
	verifier *jokauth.Verifier
	claims   jokauth.Claims
}

// ClaimsFromContext returns the claims stored by Guard, RequireAuth or RequireRoles.
// With guards on different Verifiers, the innermost successful decode wins.
func ClaimsFromContext(ctx context.Context) (jokauth.Claims, bool) {
	auth, ok := ctx.Value(claimsContextKey{}).(authenticated)
	return auth.claims, ok && auth.claims != nil
}

// Guard decodes the bearer token of every request and stores its claims in the
// request context.
//
// When the Verifier has GlobalAuthentication enabled a missing or rejected
// token ends the request with 401. Otherwise the request continues without
// claims and downstream handlers decide.
func Guard(v *jokauth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				unauthorized(w)
				return
			}

			r, ok := authenticate(v, r)
			if !ok && v.GlobalAuthentication() {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth demands a valid bearer token regardless of GlobalAuthentication.
func RequireAuth(v *jokauth.Verifier) func(http.Handler) http.Handler {
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

			next.ServeHTTP(w, r)
		})
	}
}

// authenticate reuses claims placed in the context by an outer guard on the
// same Verifier, so a token is decoded at most once per Verifier per request.
func authenticate(v *jokauth.Verifier, r *http.Request) (*http.Request, bool) {
	if auth, ok := r.Context().Value(claimsContextKey{}).(authenticated); ok && auth.verifier == v && auth.claims != nil {
		return r, true
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return r, false
	}

	ctx := jokauth.WithClientIP(r.Context(), clientIP(r))
	ctx = jokauth.WithUserAgent(ctx, r.UserAgent())

	claims, ok := v.Decode(ctx, token)
	if !ok {
		return r, false
	}

	auth := authenticated{verifier: v, claims: claims}
	return r.WithContext(context.WithValue(r.Context(), claimsContextKey{}, auth)), true
}

func bearerToken(value string) (string, bool) {
	const bearer = "bearer "
	if len(value) <= len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func forbidden(w http.ResponseWriter) {
	http.Error(w, "forbidden", http.StatusForbidden)
}
