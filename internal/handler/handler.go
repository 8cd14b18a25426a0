// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/usersubs/usersubs/internal/handler/dto"
	"github.com/usersubs/usersubs/internal/service"
	"github.com/usersubs/usersubs/internal/validation"
)

// Message prefixes of the error body, one per failure kind.
const (
	prefixValidation      = "Validation failed: "
	prefixNotFound        = "Object was not found: "
	prefixConflict        = "Was not create: "
	prefixInvalidArgument = "Invalid request argument: "
	messageInternal       = "Internal server error"
	messageBodyTooLarge   = "Request body too large"
)

// errBodyTooLarge marks a body cut off by the request size limit.
var errBodyTooLarge = errors.New("request body too large")

// Handler serves the router-level fallbacks.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, prefixNotFound+"no route for "+r.Method+" "+r.URL.Path)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed: "+r.Method)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Warn("response_encode_failed", "error", err)
	}
}

// writeError writes the error body shape used by every endpoint.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// writeServiceError maps validation and service failures to HTTP responses.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, prefixValidation+verr.Error())
		return
	}

	switch {
	case errors.Is(err, errBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, messageBodyTooLarge)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, prefixNotFound+err.Error())
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusBadRequest, prefixConflict+err.Error())
	case errors.Is(err, service.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, prefixInvalidArgument+err.Error())
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, messageInternal)
	}
}

func invalidArgument(format string, args ...any) error {
	return &service.Error{Kind: service.ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// pathID parses a numeric path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidArgument("%s must be a number, got %q", name, raw)
	}
	return id, nil
}

// decodeAndValidate reads a JSON body into dst and runs the validation pass.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", errBodyTooLarge, tooLarge.Limit)
		}
		return invalidArgument("malformed request body: %v", err)
	}
	return validation.Struct(dst)
}
