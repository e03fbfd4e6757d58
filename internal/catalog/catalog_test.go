package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/certdash/internal/model"
)

func TestCategories_Shape(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 6)
	assert.Equal(t, 22, Size())

	seen := map[int]bool{}
	total := 0
	for _, c := range cats {
		for _, s := range c.Skills {
			assert.False(t, seen[s.ID], "duplicate skill id %d", s.ID)
			seen[s.ID] = true
			assert.Equal(t, c.Name, s.CategoryName)
			assert.Equal(t, model.SkillNotStarted, s.Status)
			assert.Nil(t, s.Rank)
			total++
		}
	}
	assert.Equal(t, model.TotalSkills, total)
}

func TestCategories_ReturnsCopy(t *testing.T) {
	a := Categories()
	a[0].Skills[0].Name = "changed"
	b := Categories()
	assert.Equal(t, "1.1 Regulations, Codes & Standards", b[0].Skills[0].Name)
}

func TestLookup(t *testing.T) {
	s, ok := Lookup(16)
	require.True(t, ok)
	assert.Equal(t, "4.1 Promote Team Effectiveness & Resolve Conflict", s.Name)
	assert.Equal(t, "Category 4 – Team Effectiveness", s.CategoryName)

	_, ok = Lookup(99)
	assert.False(t, ok)
}

func TestInitialRecords(t *testing.T) {
	userID := uuid.New()
	records := InitialRecords(userID)
	require.Len(t, records, 22)
	for _, r := range records {
		assert.Equal(t, userID, r.UserID)
		assert.Nil(t, r.Rank)
		assert.Equal(t, model.SkillNotStarted, r.Status)
	}
}
