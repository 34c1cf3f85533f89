package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dutycal/src/models"
)

// MockEventCreator implements models.EventCreator
type MockEventCreator struct {
	mock.Mock
}

func (m *MockEventCreator) CreateEvent(ctx context.Context, creds *models.Credentials, date, summary, colorID string) error {
	args := m.Called(ctx, creds, date, summary, colorID)
	return args.Error(0)
}
