package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/DannyJSullivan/card-inventory-api/pkg/errors"
	"github.com/DannyJSullivan/card-inventory-api/pkg/logger"
	"github.com/DannyJSullivan/card-inventory-api/pkg/validator"
)

// ErrorResponse is the JSON body written for every failed request. Detail is
// the human-readable message clients display.
type ErrorResponse struct {
	Detail    string            `json:"detail"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// MessageResponse is a bare acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err as an ErrorResponse. AppErrors are written as-is;
// bare sentinels map to generic codes and anything else becomes a logged 500.
// Every 401 carries a Bearer challenge.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	resp := ErrorResponse{RequestID: requestID}
	var status int

	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError:
		status, resp.Code, resp.Detail = appErr.Status, appErr.Code, appErr.Message
	case errors.Is(err, apperrors.ErrNotFound):
		status, resp.Code, resp.Detail = http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		status, resp.Code, resp.Detail = http.StatusConflict, "ALREADY_EXISTS", "resource already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		status, resp.Code, resp.Detail = http.StatusBadRequest, "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, resp.Code, resp.Detail = http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated"
	default:
		status, resp.Code, resp.Detail = http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, resp)
}

// WriteValidationError writes a 400 with per-field messages when err comes
// from the validator package, or the raw decode error otherwise.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Detail: valErr.Error(),
			Code:   "VALIDATION_ERROR",
			Fields: valErr.Fields(),
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error(), Code: "INVALID_INPUT"})
}
