package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, limiter *middleware.RateLimiter) {
	// Public, rate limited per client address
	r.Route("/auth", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Post("/signup", authHandler.Signup)
		r.Post("/token", authHandler.Token)
	})
}
