package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/lingualabs/lingua-api/internal/service"
)

// MockProgressService implements service.ProgressService for testing.
type MockProgressService struct {
	GetProgressFn func(ctx context.Context, userID uuid.UUID) (*service.Progress, error)

	// Default return values used when GetProgressFn is not set
	Progress *service.Progress
	Err      error
}

var _ service.ProgressService = (*MockProgressService)(nil)

func (m *MockProgressService) GetProgress(ctx context.Context, userID uuid.UUID) (*service.Progress, error) {
	if m.GetProgressFn != nil {
		return m.GetProgressFn(ctx, userID)
	}
	return m.Progress, m.Err
}
