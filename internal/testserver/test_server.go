// Package testserver stands up an in-process MCP server over a scripted
// fake bridge for functional tests. No desktop application or automation
// runner is involved.
package testserver

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/domain/project"
	"github.com/mhutchens/taskbridge/internal/domain/tag"
	"github.com/mhutchens/taskbridge/internal/domain/task"
	"github.com/mhutchens/taskbridge/internal/mcp"
	"github.com/mhutchens/taskbridge/internal/safety"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// FakeBridge is a scripted Executor. Tests install a Handle function that
// inspects the rendered script text and returns backend output; every call
// is recorded for call-count assertions.
type FakeBridge struct {
	mu     sync.Mutex
	calls  []string
	Handle func(script string) (string, error)
}

func (f *FakeBridge) Execute(ctx context.Context, script string, timeout time.Duration) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, script)
	f.mu.Unlock()

	if f.Handle == nil {
		return "[]", nil
	}
	return f.Handle(script)
}

// Calls returns a copy of every script executed so far.
func (f *FakeBridge) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many scripts have been executed.
func (f *FakeBridge) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// NewID returns a fresh opaque identifier in the backend's role.
func NewID() string {
	return uuid.NewString()
}

// TestServer wraps an httptest server speaking MCP over streamable HTTP.
type TestServer struct {
	Server *httptest.Server
	Bridge *FakeBridge
}

// New builds the full service stack over the fake bridge and serves it.
func New(t *testing.T, fake *FakeBridge, guardCfg safety.Config) *TestServer {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	timeouts := bridge.DefaultTimeouts()

	guard, err := safety.New(guardCfg, fake, timeouts.Mutation, logger)
	require.NoError(t, err)

	taskSvc := task.NewService(fake, guard, timeouts, time.UTC, logger)
	projectSvc := project.NewService(fake, taskSvc, guard, timeouts, time.UTC, logger)
	tagSvc := tag.NewService(fake, guard, timeouts, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Tasks:    taskSvc,
			Projects: projectSvc,
			Tags:     tagSvc,
		},
		Logger: logger,
	})

	handler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &TestServer{Server: server, Bridge: fake}
}
