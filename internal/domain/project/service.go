package project

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mhutchens/taskbridge/internal/bridge"
	"github.com/mhutchens/taskbridge/internal/dates"
	"github.com/mhutchens/taskbridge/internal/domain/task"
	"github.com/mhutchens/taskbridge/internal/domain/validation"
	"github.com/mhutchens/taskbridge/internal/safety"
	"github.com/mhutchens/taskbridge/internal/script"
)

// DefaultStalledAfter is the inactivity threshold for the stalled-project
// filter.
const DefaultStalledAfter = 30 * 24 * time.Hour

// TaskLister supplies a project's incomplete tasks to the aggregate layer.
type TaskLister interface {
	ListProjectTasks(ctx context.Context, projectID string) ([]task.Task, error)
}

// Service handles project reads, child-aggregate queries, and mutations.
type Service struct {
	exec         bridge.Executor
	tasks        TaskLister
	guard        *safety.Guard
	timeouts     bridge.Timeouts
	loc          *time.Location
	logger       *slog.Logger
	now          func() time.Time
	stalledAfter time.Duration
}

// NewService creates a project service.
func NewService(exec bridge.Executor, tasks TaskLister, guard *safety.Guard, timeouts bridge.Timeouts, loc *time.Location, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		exec:         exec,
		tasks:        tasks,
		guard:        guard,
		timeouts:     timeouts,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
		stalledAfter: DefaultStalledAfter,
	}
}

// List fetches projects, applies the record-local filters, then the
// child-aggregate filters, then sorts.
func (s *Service) List(ctx context.Context, f Filter) ([]Project, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	out, err := s.exec.Execute(ctx, script.ListProjects{}.Render(), s.timeouts.Query)
	if err != nil {
		return nil, mapBackendErr(err)
	}
	projects, err := DecodeProjects(out)
	if err != nil {
		return nil, err
	}

	projects, err = f.apply(projects, s.loc)
	if err != nil {
		return nil, err
	}

	if f.MinTaskCount > 0 || f.HasOverdueTasks != nil || f.HasNoDueDates != nil || f.StalledOnly {
		projects, err = s.filterByChildAggregates(ctx, projects, f)
		if err != nil {
			return nil, err
		}
	}

	sortProjects(projects, f.SortBy, f.SortOrder)
	return projects, nil
}

// filterByChildAggregates keeps projects whose incomplete tasks satisfy
// every requested aggregate predicate. Each project costs one backend
// round trip.
func (s *Service) filterByChildAggregates(ctx context.Context, projects []Project, f Filter) ([]Project, error) {
	now := s.now()
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		tasks, err := s.tasks.ListProjectTasks(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if f.MinTaskCount > 0 && len(tasks) < f.MinTaskCount {
			continue
		}
		if f.HasOverdueTasks != nil && hasOverdue(tasks, now) != *f.HasOverdueTasks {
			continue
		}
		if f.HasNoDueDates != nil && hasNoDueDates(tasks) != *f.HasNoDueDates {
			continue
		}
		if f.StalledOnly && !s.stalled(tasks, now) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func hasOverdue(tasks []task.Task, now time.Time) bool {
	for _, t := range tasks {
		if t.DueDate != nil && t.DueDate.Before(now) {
			return true
		}
	}
	return false
}

// hasNoDueDates requires at least one task; a project with zero tasks
// never satisfies the predicate.
func hasNoDueDates(tasks []task.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if t.DueDate != nil {
			return false
		}
	}
	return true
}

// stalled: at least one incomplete task and no creation or completion
// activity within the threshold.
func (s *Service) stalled(tasks []task.Task, now time.Time) bool {
	if len(tasks) == 0 {
		return false
	}
	last := lastActivity(tasks)
	return last == nil || now.Sub(*last) > s.stalledAfter
}

// lastActivity is the max over the tasks' creation and completion
// timestamps.
func lastActivity(tasks []task.Task) *time.Time {
	var last *time.Time
	for _, t := range tasks {
		for _, ts := range []*time.Time{t.CreationDate, t.CompletionDate} {
			if ts != nil && (last == nil || ts.After(*last)) {
				last = ts
			}
		}
	}
	return last
}

// Get fetches a single project by identifier.
func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	if strings.TrimSpace(id) == "" {
		return Project{}, validation.Newf("project_id", "must not be empty")
	}
	out, err := s.exec.Execute(ctx, script.GetProject{ID: id}.Render(), s.timeouts.Query)
	if err != nil {
		return Project{}, mapBackendErr(err)
	}
	projects, err := DecodeProjects(out)
	if err != nil {
		return Project{}, err
	}
	if len(projects) == 0 {
		return Project{}, ErrProjectNotFound
	}
	return projects[0], nil
}

// ListFolders fetches every folder with its materialized path.
func (s *Service) ListFolders(ctx context.Context) ([]Folder, error) {
	out, err := s.exec.Execute(ctx, script.ListFolders{}.Render(), s.timeouts.Query)
	if err != nil {
		return nil, mapBackendErr(err)
	}
	return DecodeFolders(out)
}

// Stats is the aggregate rollup over a project's incomplete tasks.
// DueTodayCount and DueThisWeekCount are disjoint calendar-day buckets.
type Stats struct {
	TaskCount             int        `json:"task_count"`
	TotalEstimatedMinutes int        `json:"total_estimated_minutes"`
	EarliestDueDate       *time.Time `json:"earliest_due_date,omitempty"`
	LatestDueDate         *time.Time `json:"latest_due_date,omitempty"`
	OverdueCount          int        `json:"overdue_count"`
	DueTodayCount         int        `json:"due_today_count"`
	DueThisWeekCount      int        `json:"due_this_week_count"`
	NoDueDateCount        int        `json:"no_due_date_count"`
	LastActivity          *time.Time `json:"last_activity,omitempty"`
}

// Aggregate computes the rollup for one project.
func (s *Service) Aggregate(ctx context.Context, projectID string) (Stats, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return Stats{}, err
	}
	tasks, err := s.tasks.ListProjectTasks(ctx, projectID)
	if err != nil {
		return Stats{}, err
	}

	now := s.now()
	buckets := dates.Buckets(now, s.loc)
	stats := Stats{TaskCount: len(tasks), LastActivity: lastActivity(tasks)}

	for _, t := range tasks {
		if t.EstimatedMinutes != nil {
			stats.TotalEstimatedMinutes += *t.EstimatedMinutes
		}
		if t.DueDate == nil {
			stats.NoDueDateCount++
			continue
		}
		due := *t.DueDate
		if due.Before(now) {
			stats.OverdueCount++
		}
		if buckets.Today.Contains(due) {
			stats.DueTodayCount++
		} else if buckets.Week.Contains(due) {
			stats.DueThisWeekCount++
		}
		if stats.EarliestDueDate == nil || due.Before(*stats.EarliestDueDate) {
			d := due
			stats.EarliestDueDate = &d
		}
		if stats.LatestDueDate == nil || due.After(*stats.LatestDueDate) {
			d := due
			stats.LatestDueDate = &d
		}
	}
	return stats, nil
}

// CreateRequest describes a new project.
type CreateRequest struct {
	Name                string
	Note                string
	FolderPath          []string
	Sequential          bool
	ReviewIntervalWeeks int
}

// Create validates, passes the guard, and creates the project. Returns the
// backend-assigned identifier.
func (s *Service) Create(ctx context.Context, req CreateRequest) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", validation.Newf("name", "must not be empty")
	}
	if req.ReviewIntervalWeeks < 0 {
		return "", validation.Newf("review_interval_weeks", "must not be negative")
	}
	if err := s.guard.Check(ctx, "create_project"); err != nil {
		return "", err
	}

	var props []script.Property
	if req.Note != "" {
		props = append(props, script.StringProp("note", req.Note))
	}
	if req.Sequential {
		props = append(props, script.BoolProp("sequential", true))
	}
	if req.ReviewIntervalWeeks > 0 {
		props = append(props, script.ReviewIntervalProp(req.ReviewIntervalWeeks))
	}
	cmd := script.CreateProject{Name: req.Name, FolderPath: req.FolderPath, Props: props}
	id, err := s.exec.Execute(ctx, cmd.Render(), s.timeouts.Mutation)
	if err != nil {
		return "", mapBackendErr(err)
	}
	return id, nil
}

// UpdateRequest names the fields to change on one project. Nil leaves a
// field untouched.
type UpdateRequest struct {
	Name       *string
	Note       *string
	Status     *string // API enum
	Sequential *bool
}

// UpdateResult mirrors the task mutation result shape.
type UpdateResult struct {
	Success       bool     `json:"success"`
	ID            string   `json:"id"`
	UpdatedFields []string `json:"updated_fields"`
	Error         string   `json:"error,omitempty"`
}

// Update applies a validated field-update set to one project.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (UpdateResult, error) {
	var fields []string
	var props []script.Property
	if req.Name != nil {
		fields = append(fields, "name")
		props = append(props, script.StringProp("name", *req.Name))
	}
	if req.Note != nil {
		fields = append(fields, "note")
		props = append(props, script.StringProp("note", *req.Note))
	}
	if req.Status != nil {
		if !containsString(Statuses, *req.Status) {
			return UpdateResult{}, validation.NotInEnum("status", *req.Status, Statuses)
		}
		fields = append(fields, "status")
		props = append(props, script.StringProp("status", denormalizeStatus(Status(*req.Status))))
	}
	if req.Sequential != nil {
		fields = append(fields, "sequential")
		props = append(props, script.BoolProp("sequential", *req.Sequential))
	}
	if len(fields) == 0 {
		return UpdateResult{}, validation.Newf("fields", "no fields supplied")
	}

	if err := s.guard.Check(ctx, "update_project"); err != nil {
		return UpdateResult{}, err
	}

	cmd := script.SetProjectProperties{ID: id, Props: props}
	if _, err := s.exec.Execute(ctx, cmd.Render(), s.timeouts.Mutation); err != nil {
		s.logger.Warn("project mutation failed", "project_id", id, "error", err)
		return UpdateResult{ID: id, Error: mapBackendErr(err).Error()}, nil
	}
	return UpdateResult{Success: true, ID: id, UpdatedFields: fields}, nil
}

// Delete permanently removes a project. Terminal: later reads will not
// return it.
func (s *Service) Delete(ctx context.Context, id string) (UpdateResult, error) {
	if err := s.guard.Check(ctx, "delete_project"); err != nil {
		return UpdateResult{}, err
	}
	if _, err := s.exec.Execute(ctx, script.DeleteProject{ID: id}.Render(), s.timeouts.Mutation); err != nil {
		return UpdateResult{ID: id, Error: mapBackendErr(err).Error()}, nil
	}
	return UpdateResult{Success: true, ID: id, UpdatedFields: []string{"deleted"}}, nil
}

func mapBackendErr(err error) error {
	var be *bridge.BackendError
	if errors.As(err, &be) && strings.Contains(be.Message, "project not found") {
		return ErrProjectNotFound
	}
	return err
}
