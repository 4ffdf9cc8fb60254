package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"idpportal/internal/port"
	"idpportal/internal/result"
)

// MockDocumentProcessor is a mock implementation of port.DocumentProcessor.
type MockDocumentProcessor struct {
	mock.Mock
}

func (m *MockDocumentProcessor) Submit(ctx context.Context, input port.SubmitInput) (*result.Node, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.Node), args.Error(1)
}
