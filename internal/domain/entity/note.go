package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domainerrors "github.com/altuslabsxyz/tx-bridge/internal/domain/errors"
)

const maxTitleLength = 200

// Note is a user-authored text snippet. It is the demo service's only
// entity; its inserts are what the request transaction makes atomic.
type Note struct {
	// ID is the unique identifier, assigned at creation.
	ID string `json:"id"`

	// Title is the short human-readable name. Required.
	Title string `json:"title"`

	// Body is the free-form content.
	Body string `json:"body"`

	// CreatedAt is the creation timestamp in UTC.
	CreatedAt time.Time `json:"created_at"`
}

// NewNote creates a Note with a fresh ID and timestamp.
func NewNote(title, body string) *Note {
	return &Note{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the note's invariants.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return domainerrors.NewValidationError("note title is required")
	}
	if len(n.Title) > maxTitleLength {
		return domainerrors.NewValidationError("note title exceeds 200 characters")
	}
	return nil
}
