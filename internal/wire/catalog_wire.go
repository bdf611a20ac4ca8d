package wire

import (
	"yamdb/internal/access"
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(r chi.Router, catalogHandler *adaptor.CatalogHandler, log *zap.Logger) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", catalogHandler.GetCategories)
		r.With(allow(access.OpCreate, access.ClassCategory, log)).Post("/", catalogHandler.CreateCategory)
		r.With(allow(access.OpDelete, access.ClassCategory, log)).Delete("/{slug}", catalogHandler.DeleteCategory)
	})

	r.Route("/genres", func(r chi.Router) {
		r.Get("/", catalogHandler.GetGenres)
		r.With(allow(access.OpCreate, access.ClassGenre, log)).Post("/", catalogHandler.CreateGenre)
		r.With(allow(access.OpDelete, access.ClassGenre, log)).Delete("/{slug}", catalogHandler.DeleteGenre)
	})
}
