package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/certdash/internal/model"
)

type SessionProvider struct {
	mock.Mock
}

func NewSessionProvider(t testingT) *SessionProvider { return expect(t, &SessionProvider{}) }

func (m *SessionProvider) CurrentUser(ctx context.Context) (model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.User), args.Error(1)
}
