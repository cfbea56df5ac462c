package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docgen/internal/domain"
)

// MockBatchNotifier is a mock implementation of port.BatchNotifier.
type MockBatchNotifier struct {
	mock.Mock
}

func (m *MockBatchNotifier) SendBatchProcessed(ctx context.Context, toEmail string, session *domain.BatchSession, templateName string) error {
	args := m.Called(ctx, toEmail, session, templateName)
	return args.Error(0)
}
