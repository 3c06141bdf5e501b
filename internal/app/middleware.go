package app

import (
	"net/http"

	"github.com/finwise/finwise/internal/auth"
	"github.com/finwise/finwise/internal/config"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application and returns the handler to serve.
// The gate and CORS wrap the whole router, so they also see requests no route matches.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) http.Handler {
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			log.Tracef("%s %s", req.Method, req.URL.Path)
			next.ServeHTTP(w, req)
		})
	})
	gated := auth.Gate(deps.AuthService, cfg.Session.CookieName)(r)
	return auth.NewCors(cfg.Cors).Handler(gated)
}
