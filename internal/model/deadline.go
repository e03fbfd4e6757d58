package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DeadlinePriority ranks a deadline's urgency.
type DeadlinePriority string

const (
	PriorityHigh   DeadlinePriority = "high"
	PriorityMedium DeadlinePriority = "medium"
	PriorityLow    DeadlinePriority = "low"
)

// Valid reports whether p is a known priority.
func (p DeadlinePriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// DeadlineType says what a deadline relates to.
type DeadlineType string

const (
	DeadlineSkill      DeadlineType = "skill"
	DeadlineExperience DeadlineType = "experience"
	DeadlineApproval   DeadlineType = "approval"
	DeadlineDocument   DeadlineType = "document"
	DeadlineOther      DeadlineType = "other"
)

// Valid reports whether t is a known deadline type.
func (t DeadlineType) Valid() bool {
	switch t {
	case DeadlineSkill, DeadlineExperience, DeadlineApproval, DeadlineDocument, DeadlineOther:
		return true
	}
	return false
}

type Deadline struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Date      time.Time
	Priority  DeadlinePriority
	Type      DeadlineType
	RelatedID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewDeadline struct {
	Title     string
	Date      time.Time
	Priority  DeadlinePriority
	Type      DeadlineType
	RelatedID *string
}

// DeadlineUpdate is a partial update. Nil fields are left untouched.
type DeadlineUpdate struct {
	Title     *string
	Date      *time.Time
	Priority  *DeadlinePriority
	Type      *DeadlineType
	RelatedID *string
}

// DeadlineStore defines persistence operations for deadlines.
type DeadlineStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Deadline, error)
	Create(ctx context.Context, deadline Deadline) error
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, update DeadlineUpdate) error
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}
