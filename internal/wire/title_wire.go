package wire

import (
	"yamdb/internal/access"
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTitle(r chi.Router, handler *adaptor.Handler, log *zap.Logger) {
	titleHandler := handler.Title
	r.Route("/titles", func(r chi.Router) {
		r.Get("/", titleHandler.GetTitles)
		r.With(allow(access.OpCreate, access.ClassTitle, log)).Post("/", titleHandler.CreateTitle)

		r.Get("/{title_id}", titleHandler.GetTitle)
		r.With(allow(access.OpUpdate, access.ClassTitle, log)).Patch("/{title_id}", titleHandler.UpdateTitle)
		r.With(allow(access.OpDelete, access.ClassTitle, log)).Delete("/{title_id}", titleHandler.DeleteTitle)

		wireReview(r, handler.Review, handler.Comment, log)
	})
}
