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

func newTestService(t *testing.T, exec bridge.Executor) *Service {
	t.Helper()
	guard, err := safety.New(safety.Config{}, exec, 0, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	svc := NewService(exec, guard, bridge.DefaultTimeouts(), time.UTC, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return filterNow }
	return svc
}

func TestService_List(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return(`[{"id": "t-1", "name": "alpha"}, {"id": "t-2", "name": "beta", "flagged": true}]`, nil)

	svc := newTestService(t, exec)
	got, err := svc.List(context.Background(), Filter{FlaggedOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "t-2", got[0].ID)
	exec.AssertExpectations(t)
}

func TestService_List_InvalidFilterSkipsBridge(t *testing.T) {
	exec := &mocks.Executor{}
	svc := newTestService(t, exec)

	_, err := svc.List(context.Background(), Filter{TagFilterMode: "xor"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_List_BackendFailure(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return("", &bridge.BackendError{Message: "app is not running"})

	svc := newTestService(t, exec)
	_, err := svc.List(context.Background(), Filter{})
	require.True(t, bridge.IsBackendError(err))
}

func TestService_Get(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, `byId("t-1")`)
	}), mock.Anything).Return(`[{"id": "t-1", "name": "alpha"}]`, nil)

	svc := newTestService(t, exec)
	got, err := svc.Get(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, "alpha", got.Name)
}

func TestService_Get_EmptyID(t *testing.T) {
	svc := newTestService(t, &mocks.Executor{})
	_, err := svc.Get(context.Background(), "  ")
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "task_id", verr.Param)
}

func TestService_Get_NotFound(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return("", &bridge.BackendError{Message: "Error: task not found: t-404"})

	svc := newTestService(t, exec)
	_, err := svc.Get(context.Background(), "t-404")
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestService_Create(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, `name: "pick up laundry"`)
	}), mock.Anything).Return("new-task-id", nil)

	svc := newTestService(t, exec)
	id, err := svc.Create(context.Background(), CreateRequest{Name: "pick up laundry"})
	require.NoError(t, err)
	require.Equal(t, "new-task-id", id)
}

func TestService_Create_Validation(t *testing.T) {
	exec := &mocks.Executor{}
	svc := newTestService(t, exec)

	cases := []struct {
		name  string
		req   CreateRequest
		param string
	}{
		{"blank name", CreateRequest{Name: "   "}, "name"},
		{"project and parent", CreateRequest{Name: "x", ProjectID: "p-1", ParentTaskID: "t-1"}, "project_id"},
		{"method without recurrence", CreateRequest{Name: "x", RepetitionMethod: "fixed"}, "repetition_method"},
		{"bad method", CreateRequest{Name: "x", Recurrence: "FREQ=DAILY", RepetitionMethod: "often"}, "repetition_method"},
		{"negative estimate", CreateRequest{Name: "x", EstimatedMinutes: -1}, "estimated_minutes"},
		{"bad due date", CreateRequest{Name: "x", DueDate: "whenever"}, "due_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.param, verr.Param)
		})
	}
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Update_BackendFailureIsResultNotError(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).
		Return("", &bridge.BackendError{Message: "Error: task not found: t-9"})

	svc := newTestService(t, exec)
	res, err := svc.Update(context.Background(), "t-9", UpdateRequest{Flagged: bp(true)})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, "t-9", res.ID)
	require.Contains(t, res.Error, "not found")
}

func TestService_Update_Success(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return("true", nil)

	svc := newTestService(t, exec)
	res, err := svc.Update(context.Background(), "t-1", UpdateRequest{
		DueDate: sp("2024-04-01T17:00:00Z"),
		AddTags: []string{"urgent"},
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, []string{"due_date", "add_tags"}, res.UpdatedFields)
	exec.AssertNumberOfCalls(t, "Execute", 2)
}

func TestService_CompleteDropDelete(t *testing.T) {
	exec := &mocks.Executor{}
	exec.On("Execute", mock.Anything, mock.Anything, mock.Anything).Return("true", nil)
	svc := newTestService(t, exec)

	res, err := svc.Complete(context.Background(), "t-1")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, []string{"status"}, res.UpdatedFields)

	res, err = svc.Drop(context.Background(), "t-1")
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = svc.Delete(context.Background(), "t-1")
	require.NoError(t, err)
	require.Equal(t, []string{"deleted"}, res.UpdatedFields)
}
