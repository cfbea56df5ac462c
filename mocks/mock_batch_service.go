package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docgen/internal/domain"
	"docgen/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) CreateSession(ctx context.Context, input *service.BatchUploadInput) (*domain.BatchSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchSession), args.Error(1)
}

func (m *MockBatchService) GetSession(ctx context.Context, id uuid.UUID) (*domain.BatchSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchSession), args.Error(1)
}

func (m *MockBatchService) UpdateRowStatus(ctx context.Context, id uuid.UUID, index int, status domain.BatchRowStatus) (*domain.BatchRow, error) {
	args := m.Called(ctx, id, index, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchRow), args.Error(1)
}

func (m *MockBatchService) Process(ctx context.Context, id uuid.UUID) (*service.BatchResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchResult), args.Error(1)
}

func (m *MockBatchService) ProcessSession(ctx context.Context, session *domain.BatchSession) (*service.BatchResult, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchResult), args.Error(1)
}

func (m *MockBatchService) UploadAndGenerate(ctx context.Context, input *service.BatchUploadInput) (*service.BatchResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchResult), args.Error(1)
}

func (m *MockBatchService) Queue(ctx context.Context, id uuid.UUID) (*domain.BatchSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchSession), args.Error(1)
}

func (m *MockBatchService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBatchService) WriteReport(ctx context.Context, id uuid.UUID, w io.Writer) (string, error) {
	args := m.Called(ctx, id, w)
	return args.String(0), args.Error(1)
}
