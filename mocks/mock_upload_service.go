package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"idpportal/internal/confidence"
	"idpportal/internal/domain"
	"idpportal/internal/service"
	"idpportal/internal/validator"
)

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Submit(ctx context.Context, input service.UploadInput) (*domain.UploadRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadRecord), args.Error(1)
}

func (m *MockUploadService) List() []*domain.UploadRecord {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*domain.UploadRecord)
}

func (m *MockUploadService) Get(id uuid.UUID) (*domain.UploadRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadRecord), args.Error(1)
}

func (m *MockUploadService) Select(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUploadService) Selected() (*domain.UploadRecord, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.UploadRecord), args.Bool(1)
}

func (m *MockUploadService) Remove(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUploadService) State() domain.UploadState {
	args := m.Called()
	return args.Get(0).(domain.UploadState)
}

func (m *MockUploadService) Alert() (*domain.Alert, bool) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Alert), args.Bool(1)
}

func (m *MockUploadService) DismissAlert() {
	m.Called()
}

func (m *MockUploadService) Session() service.Session {
	args := m.Called()
	return args.Get(0).(service.Session)
}

func (m *MockUploadService) Confidence(id uuid.UUID) (*confidence.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*confidence.Report), args.Error(1)
}

func (m *MockUploadService) Validation(id uuid.UUID) (*validator.Outcome, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validator.Outcome), args.Error(1)
}
