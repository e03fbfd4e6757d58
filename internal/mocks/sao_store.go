package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/certdash/internal/model"
)

type SAOStore struct {
	mock.Mock
}

func NewSAOStore(t testingT) *SAOStore { return expect(t, &SAOStore{}) }

func (m *SAOStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.SAORow, error) {
	args := m.Called(ctx, userID)
	rows, _ := args.Get(0).([]model.SAORow)
	return rows, args.Error(1)
}

func (m *SAOStore) Search(ctx context.Context, userID uuid.UUID, query string) ([]model.SAORow, error) {
	args := m.Called(ctx, userID, query)
	rows, _ := args.Get(0).([]model.SAORow)
	return rows, args.Error(1)
}

func (m *SAOStore) Create(ctx context.Context, row model.SAORow) (model.SAORow, error) {
	args := m.Called(ctx, row)
	if fn, ok := args.Get(0).(func(context.Context, model.SAORow) model.SAORow); ok {
		return fn(ctx, row), args.Error(1)
	}
	saved, _ := args.Get(0).(model.SAORow)
	return saved, args.Error(1)
}

func (m *SAOStore) Update(ctx context.Context, row model.SAORow) error {
	return m.Called(ctx, row).Error(0)
}

func (m *SAOStore) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}
