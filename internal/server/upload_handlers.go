package server

import (
	"net/http"

	"github.com/johnlatif16/Story-stories/internal/services/upload"
)

// UploadResponse carries the stored asset's public URL.
type UploadResponse struct {
	URL string `json:"url"`
}

// HandleUpload accepts a multipart body with an "image" file field, runs it
// through the pipeline, and returns the resulting URL.
func HandleUpload(pipeline *upload.Pipeline, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+multipartOverheadBytes)

		mr, err := r.MultipartReader()
		if err != nil {
			writeServiceError(w, upload.ErrMalformedUpload)
			return
		}

		url, err := pipeline.Process(r.Context(), mr)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, UploadResponse{URL: url})
	}
}
