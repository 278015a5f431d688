package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stmtview/internal/domain"
)

// MockStatementParser is a mock implementation of port.StatementParser.
type MockStatementParser struct {
	mock.Mock
}

func (m *MockStatementParser) Parse(ctx context.Context, file domain.SelectedFile) (*domain.ParseResponse, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseResponse), args.Error(1)
}
