package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// GetTitleReviews handles GET /api/v1/titles/{title_id}/reviews
func (h *ReviewHandler) GetTitleReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetTitleReviews(r.Context(), chi.URLParam(r, "title_id"), parsePagination(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get title reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}

// GetReview handles GET /api/v1/titles/{title_id}/reviews/{review_id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.GetReview(r.Context(), chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "Review retrieved successfully", review)
}

// CreateReview handles POST /api/v1/titles/{title_id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := utils.GetPrincipalFromContext(r.Context())

	review, err := h.service.CreateReview(r.Context(), p, chi.URLParam(r, "title_id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created successfully", review)
}

// UpdateReview handles PATCH /api/v1/titles/{title_id}/reviews/{review_id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := utils.GetPrincipalFromContext(r.Context())

	review, err := h.service.UpdateReview(r.Context(), p, chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// DeleteReview handles DELETE /api/v1/titles/{title_id}/reviews/{review_id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())

	if err := h.service.DeleteReview(r.Context(), p, chi.URLParam(r, "title_id"), chi.URLParam(r, "review_id")); err != nil {
		handleServiceError(h.log, w, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}
