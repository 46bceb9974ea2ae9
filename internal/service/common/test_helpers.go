package common

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCmdRunner is a testify mock of CmdRunner shared by service tests
type MockCmdRunner struct {
	mock.Mock
}

func (m *MockCmdRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	arguments := m.Called(ctx, name, args)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).([]byte), arguments.Error(1)
}
