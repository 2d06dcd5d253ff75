package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Status  int               `json:"status"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	writeJSON(w, status, ErrorResponse{
		Status:  status,
		Error:   http.StatusText(status),
		Message: message,
		Errors:  fields,
	})
}

// writeServiceError maps domain errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	var validationErr *entity.ValidationError

	switch {
	case errors.Is(err, entity.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation failed", validationErr.Fields)
	case errors.Is(err, entity.ErrInvalidStatus), errors.Is(err, entity.ErrInvalidPriority), errors.Is(err, entity.ErrInvalidTaskData):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
