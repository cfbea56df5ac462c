package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"docgen/internal/bulk"
	"docgen/internal/domain"
)

// MockBulkService is a mock implementation of service.BulkService.
type MockBulkService struct {
	mock.Mock
}

func (m *MockBulkService) PreviewDelete(ctx context.Context, filter domain.BulkFilter) (*bulk.Preview, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.Preview), args.Error(1)
}

func (m *MockBulkService) PreviewDownload(ctx context.Context, filter domain.BulkFilter) (*bulk.Preview, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.Preview), args.Error(1)
}

func (m *MockBulkService) Delete(ctx context.Context, filter domain.BulkFilter) (*bulk.DeleteResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.DeleteResult), args.Error(1)
}

func (m *MockBulkService) Download(ctx context.Context, filter domain.BulkFilter, w io.Writer) (*bulk.DownloadResult, error) {
	args := m.Called(ctx, filter, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bulk.DownloadResult), args.Error(1)
}
