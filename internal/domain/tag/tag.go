// Package tag exposes the flat tag namespace. Tags associate many-to-many
// with tasks; any nesting the backend supports is opaque here.
package tag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/domain/validation"
	"github.com/mhutchens/taskbridge/internal/safety"
	"github.com/mhutchens/taskbridge/internal/script"
)

// Tag is a normalized tag record.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service lists and creates tags.
type Service struct {
	exec     bridge.Executor
	guard    *safety.Guard
	timeouts bridge.Timeouts
	logger   *slog.Logger
}

// NewService creates a tag service.
func NewService(exec bridge.Executor, guard *safety.Guard, timeouts bridge.Timeouts, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{exec: exec, guard: guard, timeouts: timeouts, logger: logger}
}

// List fetches every tag.
func (s *Service) List(ctx context.Context) ([]Tag, error) {
	out, err := s.exec.Execute(ctx, script.ListTags{}.Render(), s.timeouts.Query)
	if err != nil {
		return nil, err
	}
	var tags []Tag
	if err := json.Unmarshal([]byte(out), &tags); err != nil {
		return nil, &bridge.BackendError{Message: fmt.Sprintf("unparseable tag list: %v", err)}
	}
	return tags, nil
}

// Create ensures a tag with the given name exists and returns its
// identifier. Creating an existing tag is a no-op returning the existing
// id.
func (s *Service) Create(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", validation.Newf("name", "must not be empty")
	}
	if err := s.guard.Check(ctx, "create_tag"); err != nil {
		return "", err
	}
	return s.exec.Execute(ctx, script.CreateTag{Name: name}.Render(), s.timeouts.Mutation)
}
