package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/certdash/internal/model"
)

var _ model.DeadlineStore = (*DeadlineRepository)(nil)

type DeadlineRepository struct {
	db *Connection
}

func NewDeadlineRepository(db *Connection) *DeadlineRepository {
	return &DeadlineRepository{db: db}
}

// ListByUser returns the user's deadlines, soonest first.
func (r *DeadlineRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Deadline, error) {
	const query = `
		SELECT id, user_id, title, date, priority, type, related_id, created_at, updated_at
		FROM deadlines
		WHERE user_id = $1
		ORDER BY date ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deadlines: %w", err)
	}
	defer rows.Close()

	var deadlines []model.Deadline
	for rows.Next() {
		var d model.Deadline
		var priority, typ string
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Date, &priority, &typ, &d.RelatedID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deadline: %w", err)
		}
		d.Priority = model.DeadlinePriority(priority)
		d.Type = model.DeadlineType(typ)
		deadlines = append(deadlines, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list deadlines: %w", err)
	}

	return deadlines, nil
}

func (r *DeadlineRepository) Create(ctx context.Context, d model.Deadline) error {
	const query = `
		INSERT INTO deadlines (id, user_id, title, date, priority, type, related_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}

	if _, err := r.db.Exec(ctx, query, d.ID, d.UserID, d.Title, d.Date, string(d.Priority), string(d.Type), d.RelatedID); err != nil {
		return fmt.Errorf("failed to create deadline: %w", err)
	}
	return nil
}

func (r *DeadlineRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, update model.DeadlineUpdate) error {
	var b updateBuilder
	if update.Title != nil {
		b.set("title", *update.Title)
	}
	if update.Date != nil {
		b.set("date", *update.Date)
	}
	if update.Priority != nil {
		b.set("priority", string(*update.Priority))
	}
	if update.Type != nil {
		b.set("type", string(*update.Type))
	}
	if update.RelatedID != nil {
		b.set("related_id", *update.RelatedID)
	}
	if b.empty() {
		return model.NewValidationError("update", "no fields to change")
	}

	query, args := b.build("deadlines", id, userID, "")

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update deadline: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *DeadlineRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	const query = `DELETE FROM deadlines WHERE id = $1 AND user_id = $2`

	cmd, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete deadline: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
