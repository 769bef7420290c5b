package task

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/domain/validation"
	"github.com/mhutchens/taskbridge/internal/safety"
	"github.com/mhutchens/taskbridge/internal/script"
)

// Service handles task reads and mutations. Every read re-queries the
// backend; nothing is cached.
type Service struct {
	exec     bridge.Executor
	guard    *safety.Guard
	timeouts bridge.Timeouts
	loc      *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a task service.
func NewService(exec bridge.Executor, guard *safety.Guard, timeouts bridge.Timeouts, loc *time.Location, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		exec:     exec,
		guard:    guard,
		timeouts: timeouts,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// List fetches candidate tasks from the backend and runs them through the
// filter engine. Filter parameters are validated before any bridge call.
func (s *Service) List(ctx context.Context, f Filter) ([]Task, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	query := script.ListTasks{
		ProjectID:        f.ProjectID,
		InboxOnly:        f.InboxOnly,
		IncludeCompleted: f.IncludeCompleted,
		IncludeDropped:   f.DroppedOnly,
	}
	out, err := s.exec.Execute(ctx, query.Render(), s.timeouts.Query)
	if err != nil {
		return nil, mapBackendErr(err)
	}

	tasks, err := DecodeTasks(out)
	if err != nil {
		return nil, err
	}
	return f.Apply(tasks, s.now(), s.loc)
}

// ListProjectTasks returns a project's incomplete tasks in backend order.
// The aggregate query layer reduces over this.
func (s *Service) ListProjectTasks(ctx context.Context, projectID string) ([]Task, error) {
	return s.List(ctx, Filter{ProjectID: projectID})
}

// Get fetches a single task by identifier.
func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	if strings.TrimSpace(id) == "" {
		return Task{}, validation.Newf("task_id", "must not be empty")
	}
	out, err := s.exec.Execute(ctx, script.GetTask{ID: id}.Render(), s.timeouts.Query)
	if err != nil {
		return Task{}, mapBackendErr(err)
	}
	tasks, err := DecodeTasks(out)
	if err != nil {
		return Task{}, err
	}
	if len(tasks) == 0 {
		return Task{}, ErrTaskNotFound
	}
	return tasks[0], nil
}

// CreateRequest describes a new task.
type CreateRequest struct {
	Name             string
	Note             string
	ProjectID        string // mutually exclusive with ParentTaskID; both empty = inbox
	ParentTaskID     string
	DueDate          string // ISO-8601
	DeferDate        string
	Flagged          bool
	EstimatedMinutes int
	Tags             []string
	Recurrence       string
	RepetitionMethod string // defaults to fixed when a recurrence is given
}

// Create validates the request, passes the guard, and creates the task.
// It returns the backend-assigned identifier.
func (s *Service) Create(ctx context.Context, req CreateRequest) (string, error) {
	cmd, err := req.plan(s.loc)
	if err != nil {
		return "", err
	}
	if err := s.guard.Check(ctx, "create_task"); err != nil {
		return "", err
	}
	id, err := s.exec.Execute(ctx, cmd.Render(), s.timeouts.Mutation)
	if err != nil {
		return "", mapBackendErr(err)
	}
	return id, nil
}

func (r CreateRequest) plan(loc *time.Location) (script.Command, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, validation.Newf("name", "must not be empty")
	}
	if r.ProjectID != "" && r.ParentTaskID != "" {
		return nil, validation.Newf("project_id", "mutually exclusive with parent_task_id in a single call")
	}
	method := string(RepetitionFixed)
	if r.RepetitionMethod != "" {
		if !contains(RepetitionMethods, r.RepetitionMethod) {
			return nil, validation.NotInEnum("repetition_method", r.RepetitionMethod, RepetitionMethods)
		}
		if r.Recurrence == "" {
			return nil, validation.Newf("repetition_method", "requires recurrence")
		}
		method = r.RepetitionMethod
	}
	if r.EstimatedMinutes < 0 {
		return nil, validation.Newf("estimated_minutes", "must not be negative")
	}

	var props []script.Property
	if r.Note != "" {
		props = append(props, script.StringProp("note", r.Note))
	}
	if r.DueDate != "" {
		t, err := parseParamTime("due_date", r.DueDate, loc)
		if err != nil {
			return nil, err
		}
		props = append(props, script.DateProp("dueDate", t))
	}
	if r.DeferDate != "" {
		t, err := parseParamTime("defer_date", r.DeferDate, loc)
		if err != nil {
			return nil, err
		}
		props = append(props, script.DateProp("deferDate", t))
	}
	if r.Flagged {
		props = append(props, script.BoolProp("flagged", true))
	}
	if r.EstimatedMinutes > 0 {
		props = append(props, script.IntProp("estimatedMinutes", r.EstimatedMinutes))
	}

	return script.CreateTask{
		Name:       r.Name,
		ProjectID:  r.ProjectID,
		ParentID:   r.ParentTaskID,
		Props:      props,
		Tags:       r.Tags,
		Recurrence: r.Recurrence,
		Method:     denormalizeRepetitionMethod(RepetitionMethod(method)),
	}, nil
}

// Update applies a validated field-update set to one task. Caller
// validation problems return an error before any bridge call; backend
// failures return a Success=false result instead.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (UpdateResult, error) {
	fields, cmds, err := req.plan(id, s.loc)
	if err != nil {
		return UpdateResult{}, err
	}
	if err := s.guard.Check(ctx, "update_task"); err != nil {
		return UpdateResult{}, err
	}
	return s.dispatch(ctx, id, fields, cmds), nil
}

// Complete marks one task complete.
func (s *Service) Complete(ctx context.Context, id string) (UpdateResult, error) {
	if err := s.guard.Check(ctx, "complete_task"); err != nil {
		return UpdateResult{}, err
	}
	return s.dispatch(ctx, id, []string{"status"}, []script.Command{script.CompleteTask{ID: id}}), nil
}

// Drop marks one task dropped.
func (s *Service) Drop(ctx context.Context, id string) (UpdateResult, error) {
	if err := s.guard.Check(ctx, "drop_task"); err != nil {
		return UpdateResult{}, err
	}
	return s.dispatch(ctx, id, []string{"status"}, []script.Command{script.DropTask{ID: id}}), nil
}

// Delete permanently removes one task.
func (s *Service) Delete(ctx context.Context, id string) (UpdateResult, error) {
	if err := s.guard.Check(ctx, "delete_task"); err != nil {
		return UpdateResult{}, err
	}
	return s.dispatch(ctx, id, []string{"deleted"}, []script.Command{script.DeleteTask{ID: id}}), nil
}

func (s *Service) dispatch(ctx context.Context, id string, fields []string, cmds []script.Command) UpdateResult {
	for _, cmd := range cmds {
		if _, err := s.exec.Execute(ctx, cmd.Render(), s.timeouts.Mutation); err != nil {
			s.logger.Warn("task mutation failed", "task_id", id, "error", err)
			return UpdateResult{ID: id, Error: mapBackendErr(err).Error()}
		}
	}
	return UpdateResult{Success: true, ID: id, UpdatedFields: fields}
}

// mapBackendErr lifts a "not found" diagnostic into the sentinel so callers
// can distinguish a missing record from other backend failures.
func mapBackendErr(err error) error {
	var be *bridge.BackendError
	if errors.As(err, &be) && strings.Contains(be.Message, "task not found") {
		return ErrTaskNotFound
	}
	return err
}
