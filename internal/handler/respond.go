package handler

import (
	"encoding/json"
	"net/http"

	"user-api/pkg/errors"
	"user-api/pkg/logger"
)

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError renders an error using its own serialization contract.
// AppErrors and validation errors carry their status and body shape;
// anything else collapses to a generic 500 in the same envelope.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch e := err.(type) {
	case *errors.AppError:
		writeJSON(w, log, e.StatusCode, e.Response())
	case *errors.ValidationError:
		writeJSON(w, log, http.StatusBadRequest, e.Response())
	default:
		log.WithError(err).Error("Unhandled error")
		writeJSON(w, log, http.StatusInternalServerError, errors.ErrorResponse{
			Errors: errors.ErrorBody{
				DeveloperMessage: "Internal server error.",
				Message:          "Something went wrong. Please try again.",
				Code:             "ERR_APP_INTERNAL_ERROR",
			},
		})
	}
}
