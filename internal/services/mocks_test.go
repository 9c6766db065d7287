package services_test

import (
	"context"

	"storefront/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of services.APIClient
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) Get(ctx context.Context, path string, out any) error {
	args := m.Called(path, out)
	return args.Error(0)
}

func (m *MockAPIClient) Post(ctx context.Context, path string, body, out any) error {
	args := m.Called(path, body, out)
	return args.Error(0)
}

func (m *MockAPIClient) Delete(ctx context.Context, path string, out any) error {
	args := m.Called(path, out)
	return args.Error(0)
}

// MockSessionWriter is a mock implementation of services.SessionWriter
type MockSessionWriter struct {
	mock.Mock
}

func (m *MockSessionWriter) SetSession(session *models.UserSession) error {
	args := m.Called(session)
	return args.Error(0)
}

// fill returns a Run function that copies value into the decode target at argument index idx.
func fill[T any](idx int, value T) func(mock.Arguments) {
	return func(args mock.Arguments) {
		*args.Get(idx).(*T) = value
	}
}
