package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MaxTitleLength bounds the required title field.
const MaxTitleLength = 512

// Story represents a single published story/news item.
type Story struct {
	bun.BaseModel `bun:"table:stories,alias:st" json:"-"`

	ID        string    `bun:"id,pk" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Body      string    `bun:"body" json:"body"`
	Source    string    `bun:"source" json:"source"`
	ImageURL  string    `bun:"image_url" json:"imageUrl"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// ValidateForCreate verifies the record is well formed before insertion.
func (s *Story) ValidateForCreate() error {
	if _, err := uuid.Parse(s.ID); err != nil {
		return errors.New("id must be a valid UUID")
	}

	if strings.TrimSpace(s.Title) == "" {
		return errors.New("title is required")
	}
	if len(s.Title) > MaxTitleLength {
		return errors.New("title exceeds maximum length")
	}

	return nil
}
