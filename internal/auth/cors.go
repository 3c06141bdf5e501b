package auth

import (
	"net/http"

	"github.com/finwise/finwise/internal/config"
	"github.com/rs/cors"
)

func NewCors(cfg config.Cors) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.Origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodPatch,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Set-Cookie", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int(cfg.MaxAge.Seconds()),
	})
}
