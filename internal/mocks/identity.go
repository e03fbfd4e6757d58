package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/certdash/internal/model"
)

type Identity struct {
	mock.Mock
}

func NewIdentity(t testingT) *Identity { return expect(t, &Identity{}) }

func (m *Identity) CurrentUser(ctx context.Context) (model.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(model.User)
	return user, args.Error(1)
}

func (m *Identity) GetSession() *model.Session {
	args := m.Called()
	session, _ := args.Get(0).(*model.Session)
	return session
}

func (m *Identity) GetUser(ctx context.Context) (model.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(model.User)
	return user, args.Error(1)
}

func (m *Identity) OnSessionChange(fn func(model.SessionChange)) func() {
	args := m.Called(fn)
	if unsubscribe, ok := args.Get(0).(func()); ok {
		return unsubscribe
	}
	return func() {}
}

func (m *Identity) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(model.Session)
	return session, args.Error(1)
}

func (m *Identity) SignUp(ctx context.Context, email, password, fullName string) (model.Session, error) {
	args := m.Called(ctx, email, password, fullName)
	session, _ := args.Get(0).(model.Session)
	return session, args.Error(1)
}

func (m *Identity) SignOut(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *Identity) UpdateUser(ctx context.Context, update model.UserUpdate) (model.User, error) {
	args := m.Called(ctx, update)
	user, _ := args.Get(0).(model.User)
	return user, args.Error(1)
}
