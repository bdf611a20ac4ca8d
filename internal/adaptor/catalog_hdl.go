package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves categories and genres.
type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// GetCategories handles GET /api/v1/categories
func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context(), parsePagination(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get categories")
		return
	}

	utils.ResponseSuccess(w, "Categories retrieved successfully", categories)
}

// CreateCategory handles POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), utils.GetPrincipalFromContext(r.Context()), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create category")
		return
	}

	utils.ResponseCreated(w, "Category created successfully", category)
}

// DeleteCategory handles DELETE /api/v1/categories/{slug}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())

	if err := h.service.DeleteCategory(r.Context(), p, chi.URLParam(r, "slug")); err != nil {
		handleServiceError(h.log, w, err, "delete category")
		return
	}

	utils.ResponseNoContent(w)
}

// GetGenres handles GET /api/v1/genres
func (h *CatalogHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.GetGenres(r.Context(), parsePagination(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get genres")
		return
	}

	utils.ResponseSuccess(w, "Genres retrieved successfully", genres)
}

// CreateGenre handles POST /api/v1/genres
func (h *CatalogHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req request.GenreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	genre, err := h.service.CreateGenre(r.Context(), utils.GetPrincipalFromContext(r.Context()), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create genre")
		return
	}

	utils.ResponseCreated(w, "Genre created successfully", genre)
}

// DeleteGenre handles DELETE /api/v1/genres/{slug}
func (h *CatalogHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())

	if err := h.service.DeleteGenre(r.Context(), p, chi.URLParam(r, "slug")); err != nil {
		handleServiceError(h.log, w, err, "delete genre")
		return
	}

	utils.ResponseNoContent(w)
}
