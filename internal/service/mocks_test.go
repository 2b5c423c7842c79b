package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/omkarsat/lumi-agent/internal/domain"
)

// MockRecordRepository mocks the RecordRepository interface
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Create(ctx context.Context, record *domain.SupportRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Get(ctx context.Context, id string) (*domain.SupportRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupportRecord), args.Error(1)
}

func (m *MockRecordRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) UpdateStatus(ctx context.Context, id string, status domain.RecordStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRecordRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
