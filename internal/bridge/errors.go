package bridge

import (
	"errors"
	"fmt"
)

// BackendError carries the diagnostic text the automation runner produced.
type BackendError struct {
	Message string
	Timeout bool
}

func (e *BackendError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("backend timeout: %s", e.Message)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// IsBackendError reports whether err is (or wraps) a BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
