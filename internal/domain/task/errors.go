package task

import "errors"

var (
	// ErrTaskNotFound indicates the target task does not exist in the store.
	ErrTaskNotFound = errors.New("task not found")
)
