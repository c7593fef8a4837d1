package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/johnlatif16/Story-stories/internal/auth"
	"github.com/johnlatif16/Story-stories/internal/services/stories"
	"github.com/johnlatif16/Story-stories/internal/services/upload"
)

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARNING: encode response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError emits a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service-layer failures onto the API's status codes.
// Validation and upload failures are client errors; anything unrecognized is
// an upstream failure.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidBody):
		writeError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, stories.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "title is required")
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, upload.ErrUnsupportedMediaType):
		writeError(w, http.StatusBadRequest, "unsupported media type")
	case errors.Is(err, upload.ErrEmptyUpload):
		writeError(w, http.StatusBadRequest, "no file uploaded")
	case errors.Is(err, upload.ErrTooLarge):
		writeError(w, http.StatusBadRequest, "file exceeds the upload size limit")
	case errors.Is(err, upload.ErrMalformedUpload):
		writeError(w, http.StatusBadRequest, "malformed upload")
	default:
		log.Printf("ERROR: request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
