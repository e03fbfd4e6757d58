// Package mocks holds testify mocks of the model interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func expect[M interface{ AssertExpectations(mock.TestingT) bool }](t testingT, m M) M {
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
