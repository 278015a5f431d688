package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"stmtview/internal/domain"
	"stmtview/internal/service"
)

// MockUploadController is a mock implementation of service.UploadController.
type MockUploadController struct {
	mock.Mock
}

func (m *MockUploadController) SelectFile(file domain.SelectedFile) {
	m.Called(file)
}

func (m *MockUploadController) Submit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUploadController) SubmitAsync(ctx context.Context) (<-chan struct{}, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan struct{}), args.Error(1)
}

func (m *MockUploadController) Clear() {
	m.Called()
}

func (m *MockUploadController) Snapshot() domain.UploadView {
	args := m.Called()
	return args.Get(0).(domain.UploadView)
}

func (m *MockUploadController) Subscribe(listener service.TransitionListener) {
	m.Called(listener)
}
