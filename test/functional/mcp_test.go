package functional_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/safety"
	"github.com/mhutchens/taskbridge/internal/testserver"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, ts *testserver.TestServer) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "functional-test", Version: "0.0.1"}, nil)
	session, err := client.Connect(context.Background(),
		&sdkmcp.StreamableClientTransport{Endpoint: ts.Server.URL}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// callTool invokes one tool and returns the JSON payload of its text content.
func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) json.RawMessage {
	t.Helper()

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)

	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.False(t, res.IsError, "tool error: %s", text.Text)
	return json.RawMessage(text.Text)
}

// callToolExpectError invokes one tool and returns the decoded error payload.
func callToolExpectError(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) map[string]any {
	t.Helper()

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.True(t, res.IsError)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestFunctional_ToolDiscovery(t *testing.T) {
	ts := testserver.New(t, &testserver.FakeBridge{}, safety.Config{})
	session := connect(t, ts)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 19)

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
		require.NotEmpty(t, tool.Description, "tool %s should have a description", tool.Name)
		require.NotNil(t, tool.InputSchema, "tool %s should have an input schema", tool.Name)
	}
	for _, want := range []string{"list_tasks", "create_task", "batch_update_tasks", "project_stats", "list_folders", "create_tag"} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func TestFunctional_ListTasksFilters(t *testing.T) {
	fake := &testserver.FakeBridge{Handle: func(script string) (string, error) {
		return `[
			{"id": "t-1", "name": "pay rent", "flagged": true, "tags": ["home"]},
			{"id": "t-2", "name": "review PR", "flagged": true, "tags": ["work"]},
			{"id": "t-3", "name": "water plants", "tags": ["home"]}
		]`, nil
	}}
	ts := testserver.New(t, fake, safety.Config{})
	session := connect(t, ts)

	payload := callTool(t, session, "list_tasks", map[string]any{
		"flagged_only": true,
		"tag_filter":   []string{"home"},
	})

	var tasks []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload, &tasks))
	require.Len(t, tasks, 1)
	require.Equal(t, "t-1", tasks[0].ID)
}

func TestFunctional_CreateAndCompleteTask(t *testing.T) {
	newID := testserver.NewID()
	fake := &testserver.FakeBridge{Handle: func(script string) (string, error) {
		if strings.Contains(script, "markComplete") {
			return "true", nil
		}
		return newID, nil
	}}
	ts := testserver.New(t, fake, safety.Config{})
	session := connect(t, ts)

	created := callTool(t, session, "create_task", map[string]any{
		"name":     "ship the release",
		"due_date": "2026-09-15T17:00:00Z",
		"tags":     []string{"work"},
	})
	var createRes struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(created, &createRes))
	require.True(t, createRes.Success)
	require.Equal(t, newID, createRes.ID)

	completed := callTool(t, session, "complete_task", map[string]any{"task_id": createRes.ID})
	var completeRes struct {
		Success       bool     `json:"success"`
		UpdatedFields []string `json:"updated_fields"`
	}
	require.NoError(t, json.Unmarshal(completed, &completeRes))
	require.True(t, completeRes.Success)
	require.Equal(t, []string{"status"}, completeRes.UpdatedFields)
}

func TestFunctional_BatchPartialFailure(t *testing.T) {
	fake := &testserver.FakeBridge{Handle: func(script string) (string, error) {
		if strings.Contains(script, `byId("b")`) {
			return "", &bridge.BackendError{Message: "Error: task not found: b"}
		}
		return "true", nil
	}}
	ts := testserver.New(t, fake, safety.Config{})
	session := connect(t, ts)

	payload := callTool(t, session, "batch_update_tasks", map[string]any{
		"task_ids": []string{"a", "b", "c"},
		"flagged":  true,
	})

	var batch struct {
		UpdatedCount int      `json:"updated_count"`
		FailedCount  int      `json:"failed_count"`
		UpdatedIDs   []string `json:"updated_ids"`
		Failures     []struct {
			ID    string `json:"id"`
			Error string `json:"error"`
		} `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(payload, &batch))
	require.Equal(t, 2, batch.UpdatedCount)
	require.Equal(t, 1, batch.FailedCount)
	require.Equal(t, []string{"a", "c"}, batch.UpdatedIDs)
	require.Len(t, batch.Failures, 1)
	require.Equal(t, "b", batch.Failures[0].ID)
}

func TestFunctional_ValidationErrorShape(t *testing.T) {
	fake := &testserver.FakeBridge{}
	ts := testserver.New(t, fake, safety.Config{})
	session := connect(t, ts)

	payload := callToolExpectError(t, session, "list_tasks", map[string]any{
		"tag_filter_mode": "xor",
	})
	require.Equal(t, "VALIDATION_ERROR", payload["code"])
	require.Contains(t, payload["message"], "tag_filter_mode")

	// Nothing reached the bridge.
	require.Zero(t, fake.CallCount())
}

func TestFunctional_SafetyGuardBlocksWrongStore(t *testing.T) {
	fake := &testserver.FakeBridge{Handle: func(script string) (string, error) {
		if strings.Contains(script, "console.log(doc.name());") {
			return "Production", nil
		}
		return "true", nil
	}}
	ts := testserver.New(t, fake, safety.Config{
		Enabled:       true,
		TestMode:      true,
		ExpectedStore: "taskbridge-test",
	})
	session := connect(t, ts)

	payload := callToolExpectError(t, session, "batch_delete_tasks", map[string]any{
		"task_ids": []string{"a", "b"},
	})
	require.Equal(t, "SAFETY_ERROR", payload["code"])

	details, ok := payload["details"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "taskbridge-test", details["expected_store"])
	require.Equal(t, "Production", details["actual_store"])

	// Only the store-name probe hit the bridge; no delete script ever ran.
	calls := fake.Calls()
	require.Len(t, calls, 1)
	require.Contains(t, calls[0], "console.log(doc.name());")
}

func TestFunctional_SafetyGuardAllowsApprovedStore(t *testing.T) {
	fake := &testserver.FakeBridge{Handle: func(script string) (string, error) {
		if strings.Contains(script, "console.log(doc.name());") {
			return "TaskBridge-Test.ofocus", nil
		}
		return "true", nil
	}}
	ts := testserver.New(t, fake, safety.Config{
		Enabled:       true,
		TestMode:      true,
		ExpectedStore: "taskbridge-test",
	})
	session := connect(t, ts)

	payload := callTool(t, session, "delete_task", map[string]any{"task_id": "t-1"})
	var res struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(payload, &res))
	require.True(t, res.Success)
}

func TestFunctional_ProjectStats(t *testing.T) {
	fake := &testserver.FakeBridge{Handle: func(script string) (string, error) {
		if strings.Contains(script, "projectRecord") {
			return `[{"id": "p-1", "name": "alpha", "status": "active status"}]`, nil
		}
		return `[
			{"id": "t-1", "name": "one", "estimatedMinutes": 30, "dueDate": "2020-01-01T00:00:00Z"},
			{"id": "t-2", "name": "two", "estimatedMinutes": 15}
		]`, nil
	}}
	ts := testserver.New(t, fake, safety.Config{})
	session := connect(t, ts)

	payload := callTool(t, session, "project_stats", map[string]any{"project_id": "p-1"})
	var stats struct {
		TaskCount             int `json:"task_count"`
		TotalEstimatedMinutes int `json:"total_estimated_minutes"`
		OverdueCount          int `json:"overdue_count"`
		NoDueDateCount        int `json:"no_due_date_count"`
	}
	require.NoError(t, json.Unmarshal(payload, &stats))
	require.Equal(t, 2, stats.TaskCount)
	require.Equal(t, 45, stats.TotalEstimatedMinutes)
	require.Equal(t, 1, stats.OverdueCount)
	require.Equal(t, 1, stats.NoDueDateCount)
}

func TestFunctional_NotFoundErrorShape(t *testing.T) {
	fake := &testserver.FakeBridge{Handle: func(script string) (string, error) {
		return "", &bridge.BackendError{Message: "Error: task not found: t-404"}
	}}
	ts := testserver.New(t, fake, safety.Config{})
	session := connect(t, ts)

	payload := callToolExpectError(t, session, "get_task", map[string]any{"task_id": "t-404"})
	require.Equal(t, "TASK_NOT_FOUND", payload["code"])
}
