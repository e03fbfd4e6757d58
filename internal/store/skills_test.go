package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/certdash/internal/catalog"
	servermocks "github.com/dtroode/certdash/internal/mocks"
	"github.com/dtroode/certdash/internal/model"
)

const technical = "Category 1 – Technical Competence"

// records returns the catalog's initial records with the given ranks applied.
func records(ranks map[int]int) []model.UserSkillRecord {
	recs := catalog.InitialRecords(testUser.ID)
	for i := range recs {
		if r, ok := ranks[recs[i].SkillID]; ok {
			recs[i].Rank = ptr(r)
			recs[i].Status = model.SkillCompleted
		}
	}
	return recs
}

func findSkill(t *testing.T, st SkillsState, id int) model.Skill {
	t.Helper()
	for _, c := range st.Categories {
		for _, sk := range c.Skills {
			if sk.ID == id {
				return sk
			}
		}
	}
	t.Fatalf("skill %d not in state", id)
	return model.Skill{}
}

func assertStatusFollowsRank(t *testing.T, st SkillsState) {
	t.Helper()
	for _, c := range st.Categories {
		for _, sk := range c.Skills {
			assert.Equal(t, sk.Rank != nil, sk.Status == model.SkillCompleted, "skill %d", sk.ID)
		}
	}
}

func TestSkills_InitialState(t *testing.T) {
	s := NewSkills(newEnv(t), servermocks.NewUserSkillStore(t))

	st := s.State()
	require.Len(t, st.Categories, 6)
	assert.Equal(t, 0, s.CompletedCount())
	assertStatusFollowsRank(t, st)
}

func TestSkills_LoadUserSkills(t *testing.T) {
	repo := servermocks.NewUserSkillStore(t)
	recs := records(map[int]int{1: 3, 12: 2})
	recs = append(recs, model.UserSkillRecord{SkillID: 99, CategoryName: "Gone", Rank: ptr(5)})
	repo.On("ListByUser", mock.Anything, testUser.ID).Return(recs, nil).Once()

	s := NewSkills(newEnv(t), repo)
	s.LoadUserSkills(t.Context())

	st := s.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, 2, s.CompletedCount())

	sk := findSkill(t, st, 1)
	require.NotNil(t, sk.Rank)
	assert.Equal(t, 3, *sk.Rank)
	assert.Equal(t, model.SkillCompleted, sk.Status)
	assert.Equal(t, "1.1 Regulations, Codes & Standards", sk.Name)
	assertStatusFollowsRank(t, st)
}

func TestSkills_LoadUserSkills_InitializesNewUser(t *testing.T) {
	repo := servermocks.NewUserSkillStore(t)
	repo.On("ListByUser", mock.Anything, testUser.ID).Return([]model.UserSkillRecord{}, nil).Once()
	repo.On("InsertMany", mock.Anything, mock.MatchedBy(func(recs []model.UserSkillRecord) bool {
		if len(recs) != catalog.Size() {
			return false
		}
		for _, r := range recs {
			if r.UserID != testUser.ID || r.Rank != nil || r.Status != model.SkillNotStarted {
				return false
			}
		}
		return true
	})).Return(nil).Once()
	repo.On("ListByUser", mock.Anything, testUser.ID).Return(records(nil), nil).Once()

	s := NewSkills(newEnv(t), repo)
	s.LoadUserSkills(t.Context())

	st := s.State()
	assert.Empty(t, st.Error)
	assert.Equal(t, 0, s.CompletedCount())
}

func TestSkills_LoadUserSkills_Failures(t *testing.T) {
	t.Run("remote error", func(t *testing.T) {
		repo := servermocks.NewUserSkillStore(t)
		repo.On("ListByUser", mock.Anything, testUser.ID).Return(nil, errors.New("boom")).Once()

		s := NewSkills(newEnv(t), repo)
		s.LoadUserSkills(t.Context())

		st := s.State()
		assert.False(t, st.Loading)
		assert.Equal(t, "Failed to load skills: list user skills: boom", st.Error)
	})

	t.Run("signed out", func(t *testing.T) {
		s := NewSkills(signedOutEnv(t), servermocks.NewUserSkillStore(t))
		s.LoadUserSkills(t.Context())

		assert.Equal(t, "Failed to load skills: no authenticated user found", s.State().Error)
	})
}

func TestSkills_UpdateSkillRank_Optimistic(t *testing.T) {
	repo := servermocks.NewUserSkillStore(t)
	release := make(chan struct{})
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r model.UserSkillRecord) bool {
		return r.UserID == testUser.ID && r.SkillID == 1 && r.CategoryName == technical &&
			r.Rank != nil && *r.Rank == 4 && r.Status == model.SkillCompleted
	})).Run(func(mock.Arguments) { <-release }).Return(nil).Once()

	s := NewSkills(newEnv(t), repo)
	done := s.UpdateSkillRank(t.Context(), 0, 1, 4)

	sk := findSkill(t, s.State(), 1)
	require.NotNil(t, sk.Rank)
	assert.Equal(t, 4, *sk.Rank)
	assert.Equal(t, model.SkillCompleted, sk.Status)

	close(release)
	require.NoError(t, <-done)
	s.Wait()

	st := s.State()
	assert.Empty(t, st.Error)
	assert.Equal(t, 4, *findSkill(t, st, 1).Rank)
}

func TestSkills_UpdateSkillRank_ZeroClears(t *testing.T) {
	repo := servermocks.NewUserSkillStore(t)
	repo.On("ListByUser", mock.Anything, testUser.ID).Return(records(map[int]int{2: 3}), nil).Once()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r model.UserSkillRecord) bool {
		return r.SkillID == 2 && r.Rank == nil && r.Status == model.SkillNotStarted
	})).Return(nil).Once()

	s := NewSkills(newEnv(t), repo)
	s.LoadUserSkills(t.Context())
	require.NoError(t, <-s.UpdateSkillRank(t.Context(), 0, 2, 0))

	sk := findSkill(t, s.State(), 2)
	assert.Nil(t, sk.Rank)
	assert.Equal(t, model.SkillNotStarted, sk.Status)
}

func TestSkills_UpdateSkillRank_FailureReloads(t *testing.T) {
	repo := servermocks.NewUserSkillStore(t)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("write refused")).Once()
	repo.On("ListByUser", mock.Anything, testUser.ID).Return(records(map[int]int{5: 1}), nil).Once()

	s := NewSkills(newEnv(t), repo)
	err := <-s.UpdateSkillRank(t.Context(), 0, 3, 4)
	require.Error(t, err)

	var rerr *model.RemoteError
	assert.ErrorAs(t, err, &rerr)

	st := s.State()
	assert.Nil(t, findSkill(t, st, 3).Rank)
	assert.Equal(t, model.SkillNotStarted, findSkill(t, st, 3).Status)
	assert.Equal(t, 1, *findSkill(t, st, 5).Rank)
	assert.True(t, strings.HasPrefix(st.Error, "Failed to update skill rank: "), st.Error)
	assertStatusFollowsRank(t, st)
}

func TestSkills_UpdateSkillRank_FailureRevertsWhenReloadFails(t *testing.T) {
	repo := servermocks.NewUserSkillStore(t)
	repo.On("ListByUser", mock.Anything, testUser.ID).Return(records(map[int]int{3: 2}), nil).Once()
	repo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("write refused")).Once()
	repo.On("ListByUser", mock.Anything, testUser.ID).Return(nil, errors.New("offline")).Once()

	s := NewSkills(newEnv(t), repo)
	s.LoadUserSkills(t.Context())

	require.Error(t, <-s.UpdateSkillRank(t.Context(), 0, 3, 5))

	st := s.State()
	sk := findSkill(t, st, 3)
	require.NotNil(t, sk.Rank)
	assert.Equal(t, 2, *sk.Rank)
	assert.Equal(t, "Failed to update skill rank: upsert user skill: write refused", st.Error)
	assertStatusFollowsRank(t, st)
}

func TestSkills_UpdateSkillRank_SupersededWriteIsDiscarded(t *testing.T) {
	repo := servermocks.NewUserSkillStore(t)
	started := make(chan struct{})
	release := make(chan struct{})
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r model.UserSkillRecord) bool {
		return r.SkillID == 1 && *r.Rank == 2
	})).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(errors.New("stale write failed")).Once()
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r model.UserSkillRecord) bool {
		return r.SkillID == 1 && *r.Rank == 5
	})).Return(nil).Once()

	s := NewSkills(newEnv(t), repo)
	first := s.UpdateSkillRank(t.Context(), 0, 1, 2)
	<-started
	second := s.UpdateSkillRank(t.Context(), 0, 1, 5)
	close(release)

	assert.NoError(t, <-first)
	assert.NoError(t, <-second)
	s.Wait()

	st := s.State()
	assert.Empty(t, st.Error)
	assert.Equal(t, 5, *findSkill(t, st, 1).Rank)
}

func TestSkills_UpdateSkillRank_Validation(t *testing.T) {
	s := NewSkills(newEnv(t), servermocks.NewUserSkillStore(t))

	var verr *model.ValidationError
	assert.ErrorAs(t, <-s.UpdateSkillRank(t.Context(), 9, 1, 3), &verr)
	assert.ErrorAs(t, <-s.UpdateSkillRank(t.Context(), 1, 1, 3), &verr)
	assert.Equal(t, 0, s.CompletedCount())
}

func TestSkills_Reset(t *testing.T) {
	repo := servermocks.NewUserSkillStore(t)
	repo.On("ListByUser", mock.Anything, testUser.ID).Return(records(map[int]int{1: 1}), nil).Twice()

	s := NewSkills(newEnv(t), repo)
	s.LoadUserSkills(t.Context())

	var published []SkillsState
	s.Subscribe(func(st SkillsState) { published = append(published, st) })
	s.Reset()

	require.Len(t, published, 1)
	assert.Empty(t, s.State().Categories)
	assert.Equal(t, 0, s.CompletedCount())

	s.LoadUserSkills(t.Context())
	assert.Len(t, s.State().Categories, 6)
}

func TestSkills_ResetDuringLoadDropsResponse(t *testing.T) {
	g := newGate()
	repo := servermocks.NewUserSkillStore(t)
	repo.On("ListByUser", mock.Anything, testUser.ID).Run(g.hold).Return(records(map[int]int{1: 3}), nil).Once()

	s := NewSkills(newEnv(t), repo)
	resetMidCall(t, g, func() { s.LoadUserSkills(t.Context()) }, s.Reset)

	st := s.State()
	assert.Nil(t, st.Categories)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Zero(t, s.CompletedCount())
}
