package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/johnlatif16/Story-stories/internal/db/models"
	"github.com/johnlatif16/Story-stories/internal/services/stories"
	"github.com/johnlatif16/Story-stories/internal/services/upload"
)

// multipartOverheadBytes is slack on top of the file cap for boundaries and
// text fields when bounding a whole multipart request body.
const multipartOverheadBytes = 2 << 20

// StoryHandlers wires the public story endpoints.
type StoryHandlers struct {
	service  *stories.Service
	pipeline *upload.Pipeline
	maxBody  int64
}

// NewStoryHandlers creates the handler set for story operations.
func NewStoryHandlers(service *stories.Service, pipeline *upload.Pipeline, maxUploadBytes int64) *StoryHandlers {
	return &StoryHandlers{
		service:  service,
		pipeline: pipeline,
		maxBody:  maxUploadBytes + multipartOverheadBytes,
	}
}

// CreateStoryRequest is the JSON body of POST /stories.
type CreateStoryRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Source   string `json:"source"`
	ImageURL string `json:"imageUrl"`
}

// ListStoriesResponse wraps the public listing.
type ListStoriesResponse struct {
	Items []models.Story `json:"items"`
}

// DeleteStoryResponse reports how many stories were removed.
type DeleteStoryResponse struct {
	Deleted int `json:"deleted"`
}

// List handles GET /stories - the public, newest-first, capped listing.
func (h *StoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ListStoriesResponse{Items: items})
}

// Create handles POST /stories. The body is either JSON or a multipart form
// whose optional "image" file runs through the upload pipeline.
func (h *StoryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.readCreateInput(w, r)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	story, state, err := h.service.Create(r.Context(), *input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Surface the durability outcome to operators; clients only see 201.
	log.Printf("story %s created (%s)", story.ID, state)
	writeJSON(w, http.StatusCreated, story)
}

// Delete handles DELETE /stories/{id}.
func (h *StoryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteStoryResponse{Deleted: deleted})
}

// readCreateInput decodes either body flavor into service input.
func (h *StoryHandlers) readCreateInput(w http.ResponseWriter, r *http.Request) (*stories.CreateInput, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
		mr, err := r.MultipartReader()
		if err != nil {
			return nil, upload.ErrMalformedUpload
		}

		form, err := h.pipeline.Collect(r.Context(), mr)
		if err != nil {
			return nil, err
		}

		imageURL := form.ImageURL
		if imageURL == "" {
			// A previously uploaded asset may be referenced as a plain field.
			imageURL = form.Field("imageUrl")
		}
		return &stories.CreateInput{
			Title:    form.Field("title"),
			Body:     form.Field("body"),
			Source:   form.Field("source"),
			ImageURL: imageURL,
		}, nil
	}

	var req CreateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, ErrInvalidBody
	}
	return &stories.CreateInput{
		Title:    req.Title,
		Body:     req.Body,
		Source:   req.Source,
		ImageURL: req.ImageURL,
	}, nil
}
