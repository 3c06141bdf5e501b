package auth

import (
	"errors"
	"net/http"

	"github.com/finwise/finwise/internal/rest"
	"github.com/finwise/finwise/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type endpoint struct {
	method string
	path   string
}

var publicEndpoints = map[endpoint]bool{
	{http.MethodPost, "/api/auth/register"}: true,
	{http.MethodPost, "/api/auth/login"}:    true,
	{http.MethodPost, "/api/auth/logout"}:   true,
	{http.MethodGet, "/api/auth/user"}:      true,
}

// IsPublic reports whether the request may pass the gate without a session. Paths outside /api belong to
// the frontend (/, /login, /register, /error, /favicon.ico, /static/**) and are always public.
func IsPublic(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	if !rest.IsAPIPath(r.URL.Path) {
		return true
	}
	return publicEndpoints[endpoint{r.Method, r.URL.Path}]
}

// Gate resolves the session cookie of every request and puts its user into the request context.
// Requests to protected paths without a valid session are answered with 401 before reaching any handler.
func Gate(service Service, cookieName string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authenticated := false

			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				u, err := service.Authenticate(ctx, cookie.Value)
				switch {
				case err == nil:
					ctx = user.WithUser(ctx, u)
					authenticated = true
				case errors.Is(err, ErrSessionNotFound):
					log.Trace("session cookie does not resolve")
				default:
					log.Errorf("failed to resolve session: %v", err)
				}
			}

			if !authenticated && !IsPublic(r) {
				log.Debugf("rejecting unauthenticated %s %s", r.Method, r.URL.Path)
				rest.WriteError(w, http.StatusUnauthorized, "Authentication required", "")
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
