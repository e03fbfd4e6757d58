package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/certdash/internal/model"
)

type UserSkillStore struct {
	mock.Mock
}

func NewUserSkillStore(t testingT) *UserSkillStore { return expect(t, &UserSkillStore{}) }

func (m *UserSkillStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserSkillRecord, error) {
	args := m.Called(ctx, userID)
	records, _ := args.Get(0).([]model.UserSkillRecord)
	return records, args.Error(1)
}

func (m *UserSkillStore) InsertMany(ctx context.Context, records []model.UserSkillRecord) error {
	return m.Called(ctx, records).Error(0)
}

func (m *UserSkillStore) Upsert(ctx context.Context, record model.UserSkillRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *UserSkillStore) SearchByName(ctx context.Context, userID uuid.UUID, query string) ([]model.UserSkillRecord, error) {
	args := m.Called(ctx, userID, query)
	records, _ := args.Get(0).([]model.UserSkillRecord)
	return records, args.Error(1)
}
