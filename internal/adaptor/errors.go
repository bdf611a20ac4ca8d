package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/pkg/errs"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps an error kind to its status code. Internal errors
// are logged and reported without detail.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var e *errs.Error
	if !errors.As(err, &e) || e.Kind == errs.KindInternal {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch e.Kind {
	case errs.KindValidation:
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, e.Message, e.Fields)

	case errs.KindConflict:
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, e.Message, e.Fields)

	case errs.KindUnauthorized:
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, e.Message)

	case errs.KindForbidden:
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, e.Message)

	case errs.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, e.Message)
	}
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func parsePagination(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Limit:  utils.ParseInt(query.Get("limit"), request.DefaultLimit),
		Offset: utils.ParseInt(query.Get("offset"), 0),
		Search: query.Get("search"),
	}
}
