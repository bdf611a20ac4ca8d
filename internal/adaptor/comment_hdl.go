package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// GetReviewComments handles GET .../reviews/{review_id}/comments
func (h *CommentHandler) GetReviewComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.GetReviewComments(r.Context(),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), parsePagination(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get review comments")
		return
	}

	utils.ResponseSuccess(w, "Comments retrieved successfully", comments)
}

// GetComment handles GET .../reviews/{review_id}/comments/{comment_id}
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.GetComment(r.Context(),
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "Comment retrieved successfully", comment)
}

// CreateComment handles POST .../reviews/{review_id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req request.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := utils.GetPrincipalFromContext(r.Context())

	comment, err := h.service.CreateComment(r.Context(), p,
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "Comment created successfully", comment)
}

// UpdateComment handles PATCH .../reviews/{review_id}/comments/{comment_id}
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := utils.GetPrincipalFromContext(r.Context())

	comment, err := h.service.UpdateComment(r.Context(), p,
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "Comment updated successfully", comment)
}

// DeleteComment handles DELETE .../reviews/{review_id}/comments/{comment_id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())

	err := h.service.DeleteComment(r.Context(), p,
		chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		handleServiceError(h.log, w, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}
