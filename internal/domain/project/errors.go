package project

import "errors"

var (
	// ErrProjectNotFound indicates the target project does not exist.
	ErrProjectNotFound = errors.New("project not found")
)
