package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ExperienceCounter struct {
	mock.Mock
}

func NewExperienceCounter(t testingT) *ExperienceCounter { return expect(t, &ExperienceCounter{}) }

func (m *ExperienceCounter) CountDocumented(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *ExperienceCounter) CountApproved(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
