package contract

import (
	"context"

	"github.com/huangsam/commitmood/schema"
	"github.com/stretchr/testify/mock"
)

// MockCommitSource is a mock implementation of CommitSource for testing.
type MockCommitSource struct {
	mock.Mock
}

var _ CommitSource = &MockCommitSource{} // Compile-time check

// Fetch implements the CommitSource interface.
func (m *MockCommitSource) Fetch(ctx context.Context, repo schema.RepoRef, limit, pageSize int) ([]schema.CommitRecord, error) {
	args := m.Called(ctx, repo, limit, pageSize)
	records, _ := args.Get(0).([]schema.CommitRecord)
	return records, args.Error(1)
}
