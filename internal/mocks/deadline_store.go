package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/certdash/internal/model"
)

type DeadlineStore struct {
	mock.Mock
}

func NewDeadlineStore(t testingT) *DeadlineStore { return expect(t, &DeadlineStore{}) }

func (m *DeadlineStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Deadline, error) {
	args := m.Called(ctx, userID)
	deadlines, _ := args.Get(0).([]model.Deadline)
	return deadlines, args.Error(1)
}

func (m *DeadlineStore) Create(ctx context.Context, deadline model.Deadline) error {
	return m.Called(ctx, deadline).Error(0)
}

func (m *DeadlineStore) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, update model.DeadlineUpdate) error {
	return m.Called(ctx, userID, id, update).Error(0)
}

func (m *DeadlineStore) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}
