package adaptor

import (
	"net/http"
	"strconv"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TitleHandler struct {
	service usecase.TitleService
	log     *zap.Logger
}

func NewTitleHandler(service usecase.TitleService, log *zap.Logger) *TitleHandler {
	return &TitleHandler{
		service: service,
		log:     log.With(zap.String("handler", "title")),
	}
}

// GetTitles handles GET /api/v1/titles?category=&genre=&name=&year=
func (h *TitleHandler) GetTitles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &request.TitleFilterRequest{
		Category: query.Get("category"),
		Genre:    query.Get("genre"),
		Name:     query.Get("name"),
	}
	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "validation failed", map[string]string{"year": "Must be a number"})
			return
		}
		filter.Year = &year
	}

	titles, err := h.service.GetTitles(r.Context(), filter, parsePagination(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get titles")
		return
	}

	utils.ResponseSuccess(w, "Titles retrieved successfully", titles)
}

// GetTitle handles GET /api/v1/titles/{title_id}
func (h *TitleHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	title, err := h.service.GetTitle(r.Context(), chi.URLParam(r, "title_id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get title")
		return
	}

	utils.ResponseSuccess(w, "Title retrieved successfully", title)
}

// CreateTitle handles POST /api/v1/titles
func (h *TitleHandler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	title, err := h.service.CreateTitle(r.Context(), utils.GetPrincipalFromContext(r.Context()), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create title")
		return
	}

	utils.ResponseCreated(w, "Title created successfully", title)
}

// UpdateTitle handles PATCH /api/v1/titles/{title_id}
func (h *TitleHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var req request.TitleUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := utils.GetPrincipalFromContext(r.Context())

	title, err := h.service.UpdateTitle(r.Context(), p, chi.URLParam(r, "title_id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update title")
		return
	}

	utils.ResponseSuccess(w, "Title updated successfully", title)
}

// DeleteTitle handles DELETE /api/v1/titles/{title_id}
func (h *TitleHandler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())

	if err := h.service.DeleteTitle(r.Context(), p, chi.URLParam(r, "title_id")); err != nil {
		handleServiceError(h.log, w, err, "delete title")
		return
	}

	utils.ResponseNoContent(w)
}
