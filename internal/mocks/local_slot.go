package mocks

import (
	"github.com/stretchr/testify/mock"
)

type LocalSlot struct {
	mock.Mock
}

func NewLocalSlot(t testingT) *LocalSlot { return expect(t, &LocalSlot{}) }

func (m *LocalSlot) Read() ([]byte, error) {
	args := m.Called()
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *LocalSlot) Write(data []byte) error {
	return m.Called(data).Error(0)
}
