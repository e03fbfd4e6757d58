package model

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// DocumentStatus is the review status of a supporting document.
type DocumentStatus string

const (
	DocumentDraft     DocumentStatus = "draft"
	DocumentSubmitted DocumentStatus = "submitted"
	DocumentApproved  DocumentStatus = "approved"
)

// Valid reports whether s is a known status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentDraft, DocumentSubmitted, DocumentApproved:
		return true
	}
	return false
}

// Document is a supporting document's metadata row. FileURL points at the blob
// owned by the storage collaborator.
type Document struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Title               string
	Description         *string
	FileURL             *string
	FileType            *string
	FileSize            *int64
	Category            string
	Status              DocumentStatus
	RelatedSkillID      *int
	RelatedExperienceID *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewDocument holds the caller-provided fields of a document to add.
type NewDocument struct {
	Title               string
	Description         *string
	Category            string
	Status              DocumentStatus
	RelatedSkillID      *int
	RelatedExperienceID *uuid.UUID
}

// DocumentUpdate is a partial metadata update. Nil fields are left untouched.
type DocumentUpdate struct {
	Title               *string
	Description         *string
	Category            *string
	Status              *DocumentStatus
	RelatedSkillID      *int
	RelatedExperienceID *uuid.UUID
}

// Empty reports whether the update changes nothing.
func (u DocumentUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil &&
		u.Status == nil && u.RelatedSkillID == nil && u.RelatedExperienceID == nil
}

// Upload is a binary payload attached to a new document.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// DocumentStore defines persistence operations for document metadata.
type DocumentStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Document, error)
	Create(ctx context.Context, doc Document) (Document, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, update DocumentUpdate) (Document, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}
