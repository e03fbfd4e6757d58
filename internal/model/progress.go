package model

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

// Program targets used as fixed denominators of the overall progress.
const (
	TotalSkills      = 22
	TotalExperiences = 24
	TotalApprovals   = 24
)

// ProgressSnapshot is the derived dashboard metric. Nil counts mean it has never
// been computed for the current user.
type ProgressSnapshot struct {
	OverallProgress       *int
	CompletedSkills       *int
	DocumentedExperiences *int
	SupervisorApprovals   *int
	LastUpdated           time.Time
}

// OverallProgress returns the rounded mean completion percentage of the three tracks.
func OverallProgress(completedSkills, documentedExperiences, supervisorApprovals int) int {
	skills := float64(completedSkills) / TotalSkills
	experiences := float64(documentedExperiences) / TotalExperiences
	approvals := float64(supervisorApprovals) / TotalApprovals
	return int(math.Round((skills + experiences + approvals) / 3 * 100))
}

// ExperienceCounter counts the user's recorded experiences.
type ExperienceCounter interface {
	CountDocumented(ctx context.Context, userID uuid.UUID) (int, error)
	CountApproved(ctx context.Context, userID uuid.UUID) (int, error)
}
