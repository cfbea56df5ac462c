package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docgen/internal/domain"
)

// MockBatchRepo is a mock implementation of port.BatchRepository.
type MockBatchRepo struct {
	mock.Mock
}

func (m *MockBatchRepo) Create(ctx context.Context, session *domain.BatchSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockBatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchSession), args.Error(1)
}

func (m *MockBatchRepo) UpdateRow(ctx context.Context, row *domain.BatchRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockBatchRepo) UpdateStatus(ctx context.Context, session *domain.BatchSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockBatchRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.BatchStatus) (*domain.BatchSession, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchSession), args.Error(1)
}

func (m *MockBatchRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.BatchSession, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BatchSession), args.Error(1)
}

func (m *MockBatchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
