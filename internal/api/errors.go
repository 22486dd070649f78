// ABOUTME: Error kinds returned by handlers and their translation to HTTP responses
// ABOUTME: Every handler error is mapped to a status and {type, message} body in one place

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cs156/campus-api/internal/store"
)

// NotFoundError reports that no record of Entity carries ID.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// ValidationError reports a missing or unparseable parameter or body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a create whose Idempotency-Key is still being processed.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// writeError translates err into a response. Storage failures are logged
// here and never retried.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		notFound   *NotFoundError
		validation *ValidationError
		conflict   *ConflictError
		persist    *store.PersistenceError
	)

	switch {
	case errors.As(err, &notFound):
		sendJSON(w, http.StatusNotFound, errorBody{Type: "EntityNotFoundException", Message: notFound.Error()})
	case errors.As(err, &validation):
		sendJSON(w, http.StatusBadRequest, errorBody{Type: "ValidationException", Message: validation.Message})
	case errors.As(err, &conflict):
		sendJSON(w, http.StatusConflict, errorBody{Type: "ConflictException", Message: conflict.Message})
	case errors.As(err, &persist):
		logger.Error("storage failure", "op", persist.Op, "entity", persist.Entity, "error", persist.Err)
		sendJSON(w, http.StatusInternalServerError, errorBody{
			Type:    "RuntimeException",
			Message: fmt.Sprintf("Failed to %s %s", persist.Op, persist.Entity),
		})
	default:
		logger.Error("unhandled error", "error", err)
		sendJSON(w, http.StatusInternalServerError, errorBody{Type: "RuntimeException", Message: "Internal Server Error"})
	}
}

// sendJSON writes body as JSON with the given status.
func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteErrorResponse writes a {type, message} error body. Middleware outside
// the resource handlers uses it so every error response has the same shape.
func WriteErrorResponse(w http.ResponseWriter, status int, errType, message string) {
	sendJSON(w, status, errorBody{Type: errType, Message: message})
}
