package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-review/internal/dto/request"
	"media-review/pkg/apperror"
	"media-review/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError renders a service error with the status its Kind maps to.
// Anything that is not an *apperror.Error is treated as internal.
func handleServiceError(log *zap.Logger, msgs utils.Messages, w http.ResponseWriter, err error, operation string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(operation, err)
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		log.Warn(operation+" validation failed", zap.Any("fields", appErr.Fields))
		utils.ResponseBadRequest(w, appErr.Message, appErr.Fields)

	case apperror.KindAuthentication:
		log.Warn(operation+" failed - unauthenticated", zap.String("reason", appErr.Message))
		utils.ResponseUnauthorized(w, appErr.Message)

	case apperror.KindAuthorization:
		log.Warn(operation+" failed - forbidden", zap.String("reason", appErr.Message))
		utils.ResponseForbidden(w, appErr.Message)

	case apperror.KindNotFound:
		log.Debug(operation+" failed - not found")
		utils.ResponseNotFound(w, appErr.Message)

	case apperror.KindMethodNotAllowed:
		log.Warn(operation+" failed - not allowed", zap.String("reason", appErr.Message))
		utils.ResponseMethodNotAllowed(w, appErr.Message)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, msgs.InternalError)
	}
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(msgs utils.Messages, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, msgs.InvalidBody, nil)
		return false
	}
	return true
}

// paginationFrom reads page and per_page from the query string.
func paginationFrom(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
	}
}
