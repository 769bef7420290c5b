package task

import (
	"testing"
	"time"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/stretchr/testify/require"
)

func TestDecodeTasks_Normalization(t *testing.T) {
	payload := `[{
		"id": "t-1",
		"name": "write report",
		"note": "draft first",
		"completed": false,
		"flagged": true,
		"projectId": "p-1",
		"parentId": "",
		"dueDate": "2024-03-20T17:00:00Z",
		"deferDate": "",
		"creationDate": "2024-03-01T09:00:00Z",
		"estimatedMinutes": 45,
		"tags": ["work", "urgent"],
		"repetitionRule": "FREQ=WEEKLY",
		"repetitionMethod": "due after completion"
	}]`

	tasks, err := DecodeTasks(payload)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	require.Equal(t, "t-1", got.ID)
	require.NotNil(t, got.ProjectID)
	require.Equal(t, "p-1", *got.ProjectID)
	require.Nil(t, got.ParentTaskID)
	require.False(t, got.InInbox())

	require.NotNil(t, got.DueDate)
	require.Equal(t, time.Date(2024, 3, 20, 17, 0, 0, 0, time.UTC), got.DueDate.UTC())
	require.Nil(t, got.DeferDate)

	require.NotNil(t, got.EstimatedMinutes)
	require.Equal(t, 45, *got.EstimatedMinutes)
	require.Equal(t, []string{"work", "urgent"}, got.Tags)

	require.Equal(t, "FREQ=WEEKLY", got.Recurrence)
	require.Equal(t, RepetitionDueAfterCompletion, got.RepetitionMethod)
}

func TestDecodeTasks_AbsentOptionals(t *testing.T) {
	tasks, err := DecodeTasks(`[{"id": "t-2", "name": "loose end", "estimatedMinutes": 0}]`)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	got := tasks[0]
	require.Nil(t, got.ProjectID)
	require.True(t, got.InInbox())
	require.Nil(t, got.EstimatedMinutes)
	require.NotNil(t, got.Tags)
	require.Empty(t, got.Tags)
	require.Empty(t, got.RepetitionMethod)
}

func TestDecodeTasks_MethodRequiresRule(t *testing.T) {
	// A stray method label without a rule must not mark the task repeating.
	tasks, err := DecodeTasks(`[{"id": "t-3", "name": "once", "repetitionMethod": "fixed repetition"}]`)
	require.NoError(t, err)
	require.Empty(t, tasks[0].Recurrence)
	require.Empty(t, tasks[0].RepetitionMethod)
}

func TestDecodeTasks_MalformedIsBackendError(t *testing.T) {
	_, err := DecodeTasks("execution error: something broke")
	require.Error(t, err)
	require.True(t, bridge.IsBackendError(err))
}

func TestRepetitionMethodRoundTrip(t *testing.T) {
	for _, m := range RepetitionMethods {
		label := denormalizeRepetitionMethod(RepetitionMethod(m))
		require.Equal(t, RepetitionMethod(m), normalizeRepetitionMethod(label))
	}
}
