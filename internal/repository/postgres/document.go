package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/certdash/internal/model"
)

var _ model.DocumentStore = (*DocumentRepository)(nil)

type DocumentRepository struct {
	db *Connection
}

func NewDocumentRepository(db *Connection) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, user_id, title, description, file_url, file_type, file_size, category,
	status, related_skill_id, related_experience_id, created_at, updated_at`

func scanDocument(row pgx.Row) (model.Document, error) {
	var doc model.Document
	var status string
	err := row.Scan(
		&doc.ID, &doc.UserID, &doc.Title, &doc.Description, &doc.FileURL, &doc.FileType, &doc.FileSize,
		&doc.Category, &status, &doc.RelatedSkillID, &doc.RelatedExperienceID, &doc.CreatedAt, &doc.UpdatedAt,
	)
	doc.Status = model.DocumentStatus(status)
	return doc, err
}

func (r *DocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	query := `INSERT INTO documents (id, user_id, title, description, file_url, file_type, file_size,
			  category, status, related_skill_id, related_experience_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + documentColumns

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}

	saved, err := scanDocument(r.db.QueryRow(ctx, query,
		doc.ID, doc.UserID, doc.Title, doc.Description, doc.FileURL, doc.FileType, doc.FileSize,
		doc.Category, string(doc.Status), doc.RelatedSkillID, doc.RelatedExperienceID,
	))
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return saved, nil
}

// Update applies the non-nil fields of update and returns the stored row.
func (r *DocumentRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, update model.DocumentUpdate) (model.Document, error) {
	var b updateBuilder
	if update.Title != nil {
		b.set("title", *update.Title)
	}
	if update.Description != nil {
		b.set("description", *update.Description)
	}
	if update.Category != nil {
		b.set("category", *update.Category)
	}
	if update.Status != nil {
		b.set("status", string(*update.Status))
	}
	if update.RelatedSkillID != nil {
		b.set("related_skill_id", *update.RelatedSkillID)
	}
	if update.RelatedExperienceID != nil {
		b.set("related_experience_id", *update.RelatedExperienceID)
	}
	if b.empty() {
		return model.Document{}, model.NewValidationError("update", "no fields to change")
	}

	query, args := b.build("documents", id, userID, documentColumns)

	saved, err := scanDocument(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Document{}, model.ErrNotFound
		}
		return model.Document{}, fmt.Errorf("failed to update document: %w", err)
	}

	return saved, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	const query = `DELETE FROM documents WHERE id = $1 AND user_id = $2`

	cmd, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
