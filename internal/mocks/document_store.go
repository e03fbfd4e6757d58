package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/certdash/internal/model"
)

type DocumentStore struct {
	mock.Mock
}

func NewDocumentStore(t testingT) *DocumentStore { return expect(t, &DocumentStore{}) }

func (m *DocumentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Document, error) {
	args := m.Called(ctx, userID)
	docs, _ := args.Get(0).([]model.Document)
	return docs, args.Error(1)
}

func (m *DocumentStore) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	args := m.Called(ctx, doc)
	if fn, ok := args.Get(0).(func(context.Context, model.Document) model.Document); ok {
		return fn(ctx, doc), args.Error(1)
	}
	saved, _ := args.Get(0).(model.Document)
	return saved, args.Error(1)
}

func (m *DocumentStore) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, update model.DocumentUpdate) (model.Document, error) {
	args := m.Called(ctx, userID, id, update)
	saved, _ := args.Get(0).(model.Document)
	return saved, args.Error(1)
}

func (m *DocumentStore) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}
