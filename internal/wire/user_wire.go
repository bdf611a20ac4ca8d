package wire

import (
	"yamdb/internal/access"
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures identity routes. Listing is open to every
// authenticated user but narrowed to the caller unless they manage users.
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, log *zap.Logger) {
	r.Route("/users", func(r chi.Router) {
		r.With(allow(access.OpRead, access.ClassIdentity, log)).Get("/", userHandler.GetAllUsers)
		r.With(allow(access.OpCreate, access.ClassIdentity, log)).Post("/", userHandler.CreateUser)

		// the static /me route wins over /{username}
		r.With(allow(access.OpRead, access.ClassIdentity, log)).Get("/me", userHandler.GetProfile)
		r.With(allow(access.OpUpdate, access.ClassIdentity, log)).Patch("/me", userHandler.UpdateProfile)

		r.With(allow(access.OpRead, access.ClassIdentity, log)).Get("/{username}", userHandler.GetUser)
		r.With(allow(access.OpUpdate, access.ClassIdentity, log)).Patch("/{username}", userHandler.UpdateUser)
		r.With(allow(access.OpDelete, access.ClassIdentity, log)).Delete("/{username}", userHandler.DeleteUser)
	})
}
