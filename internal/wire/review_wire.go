package wire

import (
	"yamdb/internal/access"
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireReview mounts reviews and their comments under a title. Ownership
// of a review or comment is checked by the services after loading it.
func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	commentHandler *adaptor.CommentHandler,
	log *zap.Logger,
) {
	r.Route("/{title_id}/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.GetTitleReviews)
		r.With(allow(access.OpCreate, access.ClassReview, log)).Post("/", reviewHandler.CreateReview)

		r.Route("/{review_id}", func(r chi.Router) {
			r.Get("/", reviewHandler.GetReview)
			r.With(allow(access.OpUpdate, access.ClassReview, log)).Patch("/", reviewHandler.UpdateReview)
			r.With(allow(access.OpDelete, access.ClassReview, log)).Delete("/", reviewHandler.DeleteReview)

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", commentHandler.GetReviewComments)
				r.With(allow(access.OpCreate, access.ClassComment, log)).Post("/", commentHandler.CreateComment)

				r.Get("/{comment_id}", commentHandler.GetComment)
				r.With(allow(access.OpUpdate, access.ClassComment, log)).Patch("/{comment_id}", commentHandler.UpdateComment)
				r.With(allow(access.OpDelete, access.ClassComment, log)).Delete("/{comment_id}", commentHandler.DeleteComment)
			})
		})
	})
}
