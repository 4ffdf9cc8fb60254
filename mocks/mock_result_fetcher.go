package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"idpportal/internal/result"
)

// MockResultFetcher is a mock implementation of port.ResultFetcher.
type MockResultFetcher struct {
	mock.Mock
}

func (m *MockResultFetcher) Fetch(ctx context.Context, link string) (*result.Node, error) {
	args := m.Called(ctx, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*result.Node), args.Error(1)
}
