package sdk

import "time"

// Story is a published story as returned by the API.
type Story struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Source    string    `json:"source,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateStoryInput carries the fields for publishing a story.
type CreateStoryInput struct {
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	Source   string `json:"source,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Identity describes the authenticated administrator.
type Identity struct {
	Username string `json:"username"`
}
