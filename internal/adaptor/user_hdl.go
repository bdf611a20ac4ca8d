package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/v1/users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())

	profile, err := h.service.GetProfile(r.Context(), p)
	if err != nil {
		handleServiceError(h.log, w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PATCH /api/v1/users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := utils.GetPrincipalFromContext(r.Context())

	profile, err := h.service.UpdateProfile(r.Context(), p, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// GetAllUsers handles GET /api/v1/users
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())

	users, err := h.service.GetAllUsers(r.Context(), p, parsePagination(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := utils.GetPrincipalFromContext(r.Context())

	user, err := h.service.CreateUser(r.Context(), p, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create user")
		return
	}

	utils.ResponseCreated(w, "User created successfully", user)
}

// GetUser handles GET /api/v1/users/{username}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())

	user, err := h.service.GetUser(r.Context(), p, chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(h.log, w, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", user)
}

// UpdateUser handles PATCH /api/v1/users/{username}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := utils.GetPrincipalFromContext(r.Context())

	user, err := h.service.UpdateUser(r.Context(), p, chi.URLParam(r, "username"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update user")
		return
	}

	utils.ResponseSuccess(w, "User updated successfully", user)
}

// DeleteUser handles DELETE /api/v1/users/{username}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	p := utils.GetPrincipalFromContext(r.Context())

	if err := h.service.DeleteUser(r.Context(), p, chi.URLParam(r, "username")); err != nil {
		handleServiceError(h.log, w, err, "delete user")
		return
	}

	utils.ResponseNoContent(w)
}
