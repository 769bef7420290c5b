// Package mocks provides a testify mock for the bridge Executor.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// Executor is a mock for bridge.Executor.
type Executor struct {
	mock.Mock
}

func (m *Executor) Execute(ctx context.Context, script string, timeout time.Duration) (string, error) {
	args := m.Called(ctx, script, timeout)
	return args.String(0), args.Error(1)
}
