package safety

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/bridge/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestNew_TestModeRequiresApprovedStore(t *testing.T) {
	exec := &mocks.Executor{}

	_, err := New(Config{Enabled: true, TestMode: true}, exec, 0, discard())
	require.ErrorContains(t, err, "requires an expected store")

	_, err = New(Config{Enabled: true, TestMode: true, ExpectedStore: "Production"}, exec, 0, discard())
	require.ErrorContains(t, err, "not on the approved test-store list")

	for _, store := range []string{"taskbridge-test", "Automation-Test.ofocus", "  taskbridge-test  "} {
		_, err = New(Config{Enabled: true, TestMode: true, ExpectedStore: store}, exec, time.Second, discard())
		require.NoError(t, err, "store %q should be approved", store)
	}
}

func TestCheck_DisabledPassesEverything(t *testing.T) {
	exec := &mocks.Executor{}
	guard, err := New(Config{Enabled: false}, exec, 0, discard())
	require.NoError(t, err)

	require.NoError(t, guard.Check(context.Background(), "delete_task"))
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheck_ReadOnlyOperationsExempt(t *testing.T) {
	exec := &mocks.Executor{}
	guard, err := New(Config{Enabled: true, TestMode: true, ExpectedStore: "taskbridge-test"}, exec, 0, discard())
	require.NoError(t, err)

	for _, op := range []string{"list_tasks", "get_task", "list_projects", "project_stats", "list_tags"} {
		require.NoError(t, guard.Check(context.Background(), op))
	}
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheck_ProductionModeSkipsProbe(t *testing.T) {
	exec := &mocks.Executor{}
	guard, err := New(Config{Enabled: true}, exec, 0, discard())
	require.NoError(t, err)

	require.NoError(t, guard.Check(context.Background(), "delete_task"))
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheck_TestModeMatch(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return("TaskBridge-Test.ofocus", nil)

	guard, err := New(Config{Enabled: true, TestMode: true, ExpectedStore: "taskbridge-test"}, exec, 0, discard())
	require.NoError(t, err)
	require.NoError(t, guard.Check(context.Background(), "create_task"))
}

func TestCheck_TestModeMismatchBlocks(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return("Production", nil)

	guard, err := New(Config{Enabled: true, TestMode: true, ExpectedStore: "taskbridge-test"}, exec, 0, discard())
	require.NoError(t, err)

	err = guard.Check(context.Background(), "delete_task")
	var guardErr *Error
	require.ErrorAs(t, err, &guardErr)
	require.Equal(t, "delete_task", guardErr.Operation)
	require.Equal(t, "taskbridge-test", guardErr.Expected)
	require.Equal(t, "Production", guardErr.Actual)
	require.ErrorContains(t, err, "refusing delete_task")
}

func TestCheck_ProbeFailureBlocks(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return("", &bridge.BackendError{Message: "app is not running"})

	guard, err := New(Config{Enabled: true, TestMode: true, ExpectedStore: "automation-test"}, exec, 0, discard())
	require.NoError(t, err)

	err = guard.Check(context.Background(), "update_task")
	var guardErr *Error
	require.ErrorAs(t, err, &guardErr)
	require.Contains(t, guardErr.Actual, "unknown")
}

func TestIsDestructive(t *testing.T) {
	require.True(t, IsDestructive("delete_task"))
	require.True(t, IsDestructive("batch_update_tasks"))
	require.True(t, IsDestructive("create_tag"))
	require.False(t, IsDestructive("list_tasks"))
	require.False(t, IsDestructive("project_stats"))
}
