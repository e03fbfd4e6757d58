package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SAO is a Situation-Action-Outcome write-up with the skills it evidences.
type SAO struct {
	ID        uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Skills    []Skill
}

// SAOSkillLink is one row of the SAO to skill join table. Names are a snapshot
// taken when the link was written and are never refreshed from the catalog.
type SAOSkillLink struct {
	SAOID        uuid.UUID
	SkillID      int
	CategoryName string
	SkillName    string
}

// Skill converts the link into the skill view model. A linked skill counts as evidenced.
func (l SAOSkillLink) Skill() Skill {
	return Skill{
		ID:           l.SkillID,
		Name:         l.SkillName,
		CategoryName: l.CategoryName,
		Status:       SkillCompleted,
	}
}

// SAORow is an SAO row together with its join rows as read from the store.
type SAORow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Links     []SAOSkillLink
}

// ToSAO reconstructs the nested view model, rejecting malformed join rows.
func (r SAORow) ToSAO() (SAO, error) {
	sao := SAO{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Skills:    make([]Skill, 0, len(r.Links)),
	}

	seen := make(map[int]struct{}, len(r.Links))
	for _, l := range r.Links {
		if l.SAOID != r.ID {
			return SAO{}, fmt.Errorf("link for sao %s attached to sao %s", l.SAOID, r.ID)
		}
		if l.SkillID <= 0 {
			return SAO{}, fmt.Errorf("sao %s has link with invalid skill id %d", r.ID, l.SkillID)
		}
		if _, ok := seen[l.SkillID]; ok {
			return SAO{}, fmt.Errorf("sao %s links skill %d twice", r.ID, l.SkillID)
		}
		seen[l.SkillID] = struct{}{}
		sao.Skills = append(sao.Skills, l.Skill())
	}

	return sao, nil
}

// LinksFor builds the join rows for an SAO from the chosen skills, keeping the
// first occurrence of each skill id.
func LinksFor(saoID uuid.UUID, skills []Skill) []SAOSkillLink {
	links := make([]SAOSkillLink, 0, len(skills))
	seen := make(map[int]struct{}, len(skills))
	for _, s := range skills {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		links = append(links, SAOSkillLink{
			SAOID:        saoID,
			SkillID:      s.ID,
			CategoryName: s.CategoryName,
			SkillName:    s.Name,
		})
	}
	return links
}

// SAOStore defines persistence operations for SAOs and their skill links.
// Create and Update write the row and fully replace its links atomically.
type SAOStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]SAORow, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]SAORow, error)
	Create(ctx context.Context, row SAORow) (SAORow, error)
	Update(ctx context.Context, row SAORow) error
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}
