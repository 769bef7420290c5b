package mcp

import (
	"errors"
	"fmt"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/domain/project"
	"github.com/mhutchens/taskbridge/internal/domain/task"
	"github.com/mhutchens/taskbridge/internal/domain/validation"
	"github.com/mhutchens/taskbridge/internal/safety"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var valErr *validation.Error
	if errors.As(err, &valErr) {
		return &APIError{
			Code:         "VALIDATION_ERROR",
			Message:      valErr.Error(),
			Details:      map[string]any{"param": valErr.Param},
			RecoveryHint: "Fix the named parameter and retry",
		}
	}

	var guardErr *safety.Error
	if errors.As(err, &guardErr) {
		return &APIError{
			Code:    "SAFETY_ERROR",
			Message: guardErr.Error(),
			Details: map[string]any{
				"expected_store": guardErr.Expected,
				"actual_store":   guardErr.Actual,
			},
			RecoveryHint: "Point the backend at the expected test store before mutating",
		}
	}

	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found", RecoveryHint: "Check the task identifier"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the project identifier"}
	}

	var backendErr *bridge.BackendError
	if errors.As(err, &backendErr) {
		code := "BACKEND_ERROR"
		hint := "Re-query to discover actual backend state"
		if backendErr.Timeout {
			code = "BACKEND_TIMEOUT"
			hint = "The backend did not answer in time; no partial effect is assumed"
		}
		return &APIError{Code: code, Message: backendErr.Message, RecoveryHint: hint}
	}

	return &APIError{Code: "INTERNAL_ERROR", Message: err.Error()}
}
