package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SkillStatus is the progress status of a single competency.
type SkillStatus string

const (
	SkillCompleted  SkillStatus = "completed"
	SkillInProgress SkillStatus = "in-progress" // kept for compatibility, never produced
	SkillNotStarted SkillStatus = "not-started"
)

// Skill is one catalog competency as seen by the current user.
// Status is SkillCompleted exactly when Rank is set.
type Skill struct {
	ID           int
	Name         string
	Status       SkillStatus
	Rank         *int
	CategoryName string
}

// Category groups skills in display order.
type Category struct {
	Name   string
	Skills []Skill
}

// RankValue converts a user-entered rank into its stored form. Zero clears the rank.
func RankValue(rank int) *int {
	if rank == 0 {
		return nil
	}
	return &rank
}

// StatusForRank derives the status from the presence of a rank.
func StatusForRank(rank *int) SkillStatus {
	if rank != nil {
		return SkillCompleted
	}
	return SkillNotStarted
}

// UserSkillRecord is the remote per-user row for one catalog skill. Category and
// skill names are copied from the catalog at write time.
type UserSkillRecord struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	SkillID      int
	CategoryName string
	SkillName    string
	Rank         *int
	Status       SkillStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSkillStore defines persistence operations for per-user skill records.
type UserSkillStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]UserSkillRecord, error)
	InsertMany(ctx context.Context, records []UserSkillRecord) error
	Upsert(ctx context.Context, record UserSkillRecord) error
	SearchByName(ctx context.Context, userID uuid.UUID, query string) ([]UserSkillRecord, error)
}
