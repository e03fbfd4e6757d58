// Package catalog holds the fixed competency taxonomy of the certification program.
package catalog

import (
	"github.com/google/uuid"

	"github.com/dtroode/certdash/internal/model"
)

type entry struct {
	id   int
	name string
}

type category struct {
	name   string
	skills []entry
}

var categories = []category{
	{
		name: "Category 1 – Technical Competence",
		skills: []entry{
			{1, "1.1 Regulations, Codes & Standards"},
			{2, "1.2 Technical & Design Constraints"},
			{3, "1.3 Risk Management for Technical Work"},
			{4, "1.4 Application of Theory"},
			{5, "1.5 Solution Techniques – Results Verification"},
			{6, "1.6 Safety in Design & Technical Work"},
			{7, "1.7 Systems & Their Components"},
			{8, "1.8 Project or Asset Life-Cycle Awareness"},
			{9, "1.9 Quality Assurance"},
			{10, "1.10 Engineering Documentation"},
		},
	},
	{
		name: "Category 2 – Communication",
		skills: []entry{
			{11, "2.1 Oral Communication (English)"},
			{12, "2.2 Written Communication (English)"},
			{13, "2.3 Reading & Comprehension (English)"},
		},
	},
	{
		name: "Category 3 – Project & Financial Management",
		skills: []entry{
			{14, "3.1 Project Management Principles"},
			{15, "3.2 Finances & Budget"},
		},
	},
	{
		name: "Category 4 – Team Effectiveness",
		skills: []entry{
			{16, "4.1 Promote Team Effectiveness & Resolve Conflict"},
		},
	},
	{
		name: "Category 5 – Professional Accountability",
		skills: []entry{
			{17, "5.1 Professional Accountability (Ethics, Liability, Limits)"},
		},
	},
	{
		name: "Category 6 – Social, Economic, Environmental & Sustainability",
		skills: []entry{
			{18, "6.1 Protection of the Public Interest"},
			{19, "6.2 Benefits of Engineering to the Public"},
			{20, "6.3 Role of Regulatory Bodies"},
			{21, "6.4 Application of Sustainability Principles"},
			{22, "6.5 Promotion of Sustainability"},
		},
	},
}

// Categories returns a fresh copy of the catalog with every skill not started.
func Categories() []model.Category {
	out := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		skills := make([]model.Skill, 0, len(c.skills))
		for _, s := range c.skills {
			skills = append(skills, model.Skill{
				ID:           s.id,
				Name:         s.name,
				Status:       model.SkillNotStarted,
				CategoryName: c.name,
			})
		}
		out = append(out, model.Category{Name: c.name, Skills: skills})
	}
	return out
}

// Lookup finds a catalog skill by id.
func Lookup(skillID int) (model.Skill, bool) {
	for _, c := range categories {
		for _, s := range c.skills {
			if s.id == skillID {
				return model.Skill{
					ID:           s.id,
					Name:         s.name,
					Status:       model.SkillNotStarted,
					CategoryName: c.name,
				}, true
			}
		}
	}
	return model.Skill{}, false
}

// Size returns the number of skills in the catalog.
func Size() int {
	n := 0
	for _, c := range categories {
		n += len(c.skills)
	}
	return n
}

// InitialRecords builds the not-started records inserted for a user without any.
func InitialRecords(userID uuid.UUID) []model.UserSkillRecord {
	records := make([]model.UserSkillRecord, 0, Size())
	for _, c := range categories {
		for _, s := range c.skills {
			records = append(records, model.UserSkillRecord{
				UserID:       userID,
				SkillID:      s.id,
				CategoryName: c.name,
				SkillName:    s.name,
				Status:       model.SkillNotStarted,
			})
		}
	}
	return records
}
