package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/certdash/internal/model"
)

var _ model.SAOStore = (*SAORepository)(nil)

type SAORepository struct {
	db *Connection
}

func NewSAORepository(db *Connection) *SAORepository {
	return &SAORepository{db: db}
}

const saoJoinQuery = `
	SELECT s.id, s.user_id, s.title, s.content, s.created_at, s.updated_at,
	       l.skill_id, l.category_name, l.skill_name
	FROM saos s
	LEFT JOIN sao_skills l ON l.sao_id = s.id
	WHERE s.user_id = $1`

const saoJoinOrder = ` ORDER BY s.created_at DESC, s.id, l.skill_id`

// saoJoinRow is one row of the SAO/link outer join. Link columns are nil for SAOs without links.
type saoJoinRow struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	Content      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SkillID      *int
	CategoryName *string
	SkillName    *string
}

// groupSAORows folds joined rows into one SAORow per SAO, keeping first-seen order.
func groupSAORows(rows []saoJoinRow) []model.SAORow {
	var out []model.SAORow
	index := make(map[uuid.UUID]int)

	for _, jr := range rows {
		i, ok := index[jr.ID]
		if !ok {
			out = append(out, model.SAORow{
				ID:        jr.ID,
				UserID:    jr.UserID,
				Title:     jr.Title,
				Content:   jr.Content,
				CreatedAt: jr.CreatedAt,
				UpdatedAt: jr.UpdatedAt,
				Links:     []model.SAOSkillLink{},
			})
			i = len(out) - 1
			index[jr.ID] = i
		}

		if jr.SkillID == nil {
			continue
		}
		link := model.SAOSkillLink{SAOID: jr.ID, SkillID: *jr.SkillID}
		if jr.CategoryName != nil {
			link.CategoryName = *jr.CategoryName
		}
		if jr.SkillName != nil {
			link.SkillName = *jr.SkillName
		}
		out[i].Links = append(out[i].Links, link)
	}

	return out
}

func (r *SAORepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SAORow, error) {
	rows, err := r.queryJoined(ctx, saoJoinQuery+saoJoinOrder, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saos: %w", err)
	}
	return rows, nil
}

// Search returns the user's SAOs whose title or content contains query, case-insensitively.
func (r *SAORepository) Search(ctx context.Context, userID uuid.UUID, query string) ([]model.SAORow, error) {
	sql := saoJoinQuery + ` AND (s.title ILIKE $2 OR s.content ILIKE $2)` + saoJoinOrder

	rows, err := r.queryJoined(ctx, sql, userID, containsPattern(query))
	if err != nil {
		return nil, fmt.Errorf("failed to search saos: %w", err)
	}
	return rows, nil
}

// Create inserts the SAO and its links in one transaction.
func (r *SAORepository) Create(ctx context.Context, row model.SAORow) (model.SAORow, error) {
	const insertSAO = `
		INSERT INTO saos (id, user_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertSAO, row.ID, row.UserID, row.Title, row.Content).
			Scan(&row.CreatedAt, &row.UpdatedAt); err != nil {
			return fmt.Errorf("insert sao: %w", err)
		}
		return insertLinks(ctx, tx, row.ID, row.Links)
	})
	if err != nil {
		return model.SAORow{}, fmt.Errorf("failed to create sao: %w", err)
	}

	return row, nil
}

// Update rewrites the SAO row and replaces its whole link set in one transaction.
func (r *SAORepository) Update(ctx context.Context, row model.SAORow) error {
	const updateSAO = `UPDATE saos SET title = $3, content = $4, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	const deleteLinks = `DELETE FROM sao_skills WHERE sao_id = $1`

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, updateSAO, row.ID, row.UserID, row.Title, row.Content)
		if err != nil {
			return fmt.Errorf("update sao: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return model.ErrNotFound
		}
		if _, err := tx.Exec(ctx, deleteLinks, row.ID); err != nil {
			return fmt.Errorf("delete sao skills: %w", err)
		}
		return insertLinks(ctx, tx, row.ID, row.Links)
	})
	if err != nil {
		return fmt.Errorf("failed to update sao: %w", err)
	}
	return nil
}

// Delete removes the SAO; its links go with it through the foreign key cascade.
func (r *SAORepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	const query = `DELETE FROM saos WHERE id = $1 AND user_id = $2`

	cmd, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete sao: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func insertLinks(ctx context.Context, tx pgx.Tx, saoID uuid.UUID, links []model.SAOSkillLink) error {
	const query = `INSERT INTO sao_skills (sao_id, skill_id, category_name, skill_name) VALUES ($1, $2, $3, $4)`

	if len(links) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range links {
		batch.Queue(query, saoID, l.SkillID, l.CategoryName, l.SkillName)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert sao skills: %w", err)
	}
	return nil
}

func (r *SAORepository) queryJoined(ctx context.Context, sql string, args ...any) ([]model.SAORow, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var joined []saoJoinRow
	for rows.Next() {
		var jr saoJoinRow
		if err := rows.Scan(
			&jr.ID, &jr.UserID, &jr.Title, &jr.Content, &jr.CreatedAt, &jr.UpdatedAt,
			&jr.SkillID, &jr.CategoryName, &jr.SkillName,
		); err != nil {
			return nil, err
		}
		joined = append(joined, jr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groupSAORows(joined), nil
}
