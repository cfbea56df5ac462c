package mocks

import (
	"github.com/stretchr/testify/mock"

	"docgen/internal/domain"
)

// MockRenderer is a mock implementation of port.Renderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(tpl []byte, values domain.FieldValues) ([]byte, error) {
	args := m.Called(tpl, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRenderer) Check(tpl []byte) error {
	args := m.Called(tpl)
	return args.Error(0)
}
