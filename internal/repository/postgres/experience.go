package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/certdash/internal/model"
)

var _ model.ExperienceCounter = (*ExperienceRepository)(nil)

// ExperienceRepository reads experience counts. Experiences are written by the
// web dashboard; this module only aggregates them.
type ExperienceRepository struct {
	db *Connection
}

func NewExperienceRepository(db *Connection) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

func (r *ExperienceRepository) CountDocumented(ctx context.Context, userID uuid.UUID) (int, error) {
	const query = `SELECT COUNT(*) FROM experiences WHERE user_id = $1 AND is_documented`

	var n int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documented experiences: %w", err)
	}
	return n, nil
}

func (r *ExperienceRepository) CountApproved(ctx context.Context, userID uuid.UUID) (int, error) {
	const query = `SELECT COUNT(*) FROM experiences WHERE user_id = $1 AND supervisor_approved`

	var n int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count approved experiences: %w", err)
	}
	return n, nil
}
