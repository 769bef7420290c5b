package task

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/bridge/mocks"
	"github.com/mhutchens/taskbridge/internal/domain/validation"
	"github.com/mhutchens/taskbridge/internal/safety"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateMany_ContinuesPastFailures(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, `byId("b")`)
	}), mock.Anything).Return("", &bridge.BackendError{Message: "Error: task not found: b"})
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return("true", nil)

	svc := newTestService(t, exec)
	res, err := svc.UpdateMany(context.Background(), []string{"a", "b", "c"}, UpdateRequest{Flagged: bp(true)})
	require.NoError(t, err)

	require.Equal(t, 2, res.UpdatedCount)
	require.Equal(t, 1, res.FailedCount)
	require.Equal(t, []string{"a", "c"}, res.UpdatedIDs)
	require.Len(t, res.Failures, 1)
	require.Equal(t, "b", res.Failures[0].ID)
	require.NotEmpty(t, res.Failures[0].Error)
}

func TestUpdateMany_CountsCoverEveryInput(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return("true", nil)

	svc := newTestService(t, exec)
	ids := []string{"a", "b", "c", "d"}
	res, err := svc.UpdateMany(context.Background(), ids, UpdateRequest{Flagged: bp(false)})
	require.NoError(t, err)
	require.Equal(t, len(ids), res.UpdatedCount+res.FailedCount)
	require.Equal(t, ids, res.UpdatedIDs)
	require.Empty(t, res.Failures)
}

func TestUpdateMany_RejectsPerRecordFieldsUpFront(t *testing.T) {
	exec := &mocks.Executor{}
	svc := newTestService(t, exec)

	_, err := svc.UpdateMany(context.Background(), []string{"a", "b"}, UpdateRequest{Name: sp("same")})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "name", verr.Param)
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMany_EmptyIDs(t *testing.T) {
	svc := newTestService(t, &mocks.Executor{})
	_, err := svc.UpdateMany(context.Background(), nil, UpdateRequest{Flagged: bp(true)})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "task_ids", verr.Param)
}

func TestCompleteMany(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, "markComplete")
	}), mock.Anything).Return("true", nil)

	svc := newTestService(t, exec)
	res, err := svc.CompleteMany(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, 3, res.UpdatedCount)
	require.Zero(t, res.FailedCount)
}

func TestBatch_SafetyErrorAbortsBeforeAnyMutation(t *testing.T) {
	// The guard queries the store name once; a mismatch must abort the whole
	// batch with no mutating script ever reaching the bridge.
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, "console.log(doc.name());")
	}), mock.Anything).Return("Production", nil)

	guard, err := safety.New(safety.Config{
		Enabled:       true,
		TestMode:      true,
		ExpectedStore: "taskbridge-test",
	}, exec, 0, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	svc := NewService(exec, guard, bridge.DefaultTimeouts(), time.UTC, slog.New(slog.DiscardHandler))

	res, err := svc.DeleteMany(context.Background(), []string{"a", "b", "c"})
	var guardErr *safety.Error
	require.ErrorAs(t, err, &guardErr)
	require.Equal(t, "delete_task", guardErr.Operation)
	require.Zero(t, res.UpdatedCount)
	require.Zero(t, res.FailedCount)

	// Only the store-name probe hit the bridge.
	exec.AssertNumberOfCalls(t, "Execute", 1)
}

func TestDeleteMany_MixedOutcome(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, `byId("gone")`)
	}), mock.Anything).Return("", &bridge.BackendError{Message: "Error: task not found: gone"})
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return("true", nil)

	svc := newTestService(t, exec)
	res, err := svc.DeleteMany(context.Background(), []string{"keep-1", "gone", "keep-2"})
	require.NoError(t, err)
	require.Equal(t, []string{"keep-1", "keep-2"}, res.UpdatedIDs)
	require.Equal(t, 1, res.FailedCount)
	require.Equal(t, "gone", res.Failures[0].ID)
}
