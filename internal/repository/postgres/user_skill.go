package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/certdash/internal/model"
)

var _ model.UserSkillStore = (*UserSkillRepository)(nil)

type UserSkillRepository struct {
	db *Connection
}

func NewUserSkillRepository(db *Connection) *UserSkillRepository {
	return &UserSkillRepository{db: db}
}

const userSkillColumns = `id, user_id, skill_id, category_name, skill_name, rank, status, created_at, updated_at`

func (r *UserSkillRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSkillRecord, error) {
	query := `SELECT ` + userSkillColumns + ` FROM user_skills WHERE user_id = $1 ORDER BY skill_id`

	records, err := r.query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user skills: %w", err)
	}
	return records, nil
}

// InsertMany inserts all records in one batch. Rows for skills the user already
// has are left as they are.
func (r *UserSkillRepository) InsertMany(ctx context.Context, records []model.UserSkillRecord) error {
	const query = `
		INSERT INTO user_skills (user_id, skill_id, category_name, skill_name, rank, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, skill_id) DO NOTHING`

	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.UserID, rec.SkillID, rec.CategoryName, rec.SkillName, rec.Rank, string(rec.Status))
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert user skills: %w", err)
	}
	return nil
}

// Upsert writes the record keyed on (user_id, skill_id).
func (r *UserSkillRepository) Upsert(ctx context.Context, rec model.UserSkillRecord) error {
	const query = `
		INSERT INTO user_skills (user_id, skill_id, category_name, skill_name, rank, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, skill_id) DO UPDATE SET
			category_name = EXCLUDED.category_name,
			skill_name = EXCLUDED.skill_name,
			rank = EXCLUDED.rank,
			status = EXCLUDED.status,
			updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query,
		rec.UserID, rec.SkillID, rec.CategoryName, rec.SkillName, rec.Rank, string(rec.Status),
	); err != nil {
		return fmt.Errorf("failed to upsert user skill: %w", err)
	}
	return nil
}

// SearchByName returns the user's skill records whose name contains query, case-insensitively.
func (r *UserSkillRepository) SearchByName(ctx context.Context, userID uuid.UUID, query string) ([]model.UserSkillRecord, error) {
	sql := `SELECT ` + userSkillColumns + ` FROM user_skills
		WHERE user_id = $1 AND skill_name ILIKE $2
		ORDER BY skill_id`

	records, err := r.query(ctx, sql, userID, containsPattern(query))
	if err != nil {
		return nil, fmt.Errorf("failed to search user skills: %w", err)
	}
	return records, nil
}

func (r *UserSkillRepository) query(ctx context.Context, sql string, args ...any) ([]model.UserSkillRecord, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.UserSkillRecord
	for rows.Next() {
		var rec model.UserSkillRecord
		var status string
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.SkillID, &rec.CategoryName, &rec.SkillName,
			&rec.Rank, &status, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rec.Status = model.SkillStatus(status)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
