package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mhutchens/taskbridge/internal/bridge"
)

// RepetitionMethod is the stable API vocabulary for how a repeating task
// schedules its next occurrence.
type RepetitionMethod string

const (
	RepetitionFixed                RepetitionMethod = "fixed"
	RepetitionStartAfterCompletion RepetitionMethod = "start_after_completion"
	RepetitionDueAfterCompletion   RepetitionMethod = "due_after_completion"
)

// RepetitionMethods lists the accepted repetition-method values.
var RepetitionMethods = []string{
	string(RepetitionFixed),
	string(RepetitionStartAfterCompletion),
	string(RepetitionDueAfterCompletion),
}

// Task is a normalized task record. Identifiers are backend-assigned opaque
// strings. Optional fields are nil when the backend reports no value; filter
// predicates fail closed on nil.
type Task struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Note             string           `json:"note,omitempty"`
	Completed        bool             `json:"completed"`
	Flagged          bool             `json:"flagged"`
	Dropped          bool             `json:"dropped"`
	Blocked          bool             `json:"blocked"`
	Next             bool             `json:"next"`
	ProjectID        *string          `json:"project_id,omitempty"`
	ParentTaskID     *string          `json:"parent_task_id,omitempty"`
	DueDate          *time.Time       `json:"due_date,omitempty"`
	DeferDate        *time.Time       `json:"defer_date,omitempty"`
	CompletionDate   *time.Time       `json:"completion_date,omitempty"`
	CreationDate     *time.Time       `json:"creation_date,omitempty"`
	ModificationDate *time.Time       `json:"modification_date,omitempty"`
	DroppedDate      *time.Time       `json:"dropped_date,omitempty"`
	EstimatedMinutes *int             `json:"estimated_minutes,omitempty"`
	Tags             []string         `json:"tags"`
	Recurrence       string           `json:"recurrence,omitempty"`
	RepetitionMethod RepetitionMethod `json:"repetition_method,omitempty"`
}

// InInbox reports whether the task has no owning project.
func (t Task) InInbox() bool {
	return t.ProjectID == nil
}

// rawTask mirrors the backend's flat record vocabulary exactly as the
// bridge emits it. Empty strings stand in for absent dates and references.
type rawTask struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Note             string   `json:"note"`
	Completed        bool     `json:"completed"`
	Flagged          bool     `json:"flagged"`
	Dropped          bool     `json:"dropped"`
	Blocked          bool     `json:"blocked"`
	Next             bool     `json:"next"`
	ProjectID        string   `json:"projectId"`
	ParentID         string   `json:"parentId"`
	DueDate          string   `json:"dueDate"`
	DeferDate        string   `json:"deferDate"`
	CompletionDate   string   `json:"completionDate"`
	CreationDate     string   `json:"creationDate"`
	ModificationDate string   `json:"modificationDate"`
	DroppedDate      string   `json:"droppedDate"`
	EstimatedMinutes int      `json:"estimatedMinutes"`
	Tags             []string `json:"tags"`
	RepetitionRule   string   `json:"repetitionRule"`
	RepetitionMethod string   `json:"repetitionMethod"`
}

// DecodeTasks parses the bridge's JSON output into normalized tasks.
// Malformed output is a backend error, not a validation error.
func DecodeTasks(text string) ([]Task, error) {
	var raws []rawTask
	if err := json.Unmarshal([]byte(text), &raws); err != nil {
		return nil, &bridge.BackendError{Message: fmt.Sprintf("unparseable task list: %v", err)}
	}
	tasks := make([]Task, 0, len(raws))
	for _, raw := range raws {
		tasks = append(tasks, normalizeTask(raw))
	}
	return tasks, nil
}

func normalizeTask(raw rawTask) Task {
	t := Task{
		ID:               raw.ID,
		Name:             raw.Name,
		Note:             raw.Note,
		Completed:        raw.Completed,
		Flagged:          raw.Flagged,
		Dropped:          raw.Dropped,
		Blocked:          raw.Blocked,
		Next:             raw.Next,
		ProjectID:        optionalString(raw.ProjectID),
		ParentTaskID:     optionalString(raw.ParentID),
		DueDate:          parseBackendDate(raw.DueDate),
		DeferDate:        parseBackendDate(raw.DeferDate),
		CompletionDate:   parseBackendDate(raw.CompletionDate),
		CreationDate:     parseBackendDate(raw.CreationDate),
		ModificationDate: parseBackendDate(raw.ModificationDate),
		DroppedDate:      parseBackendDate(raw.DroppedDate),
		Tags:             raw.Tags,
		Recurrence:       raw.RepetitionRule,
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if raw.EstimatedMinutes > 0 {
		est := raw.EstimatedMinutes
		t.EstimatedMinutes = &est
	}
	if raw.RepetitionRule != "" {
		t.RepetitionMethod = normalizeRepetitionMethod(raw.RepetitionMethod)
	}
	return t
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseBackendDate turns the backend's empty-string sentinel into nil and
// an ISO timestamp into a concrete time.
func parseBackendDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// normalizeRepetitionMethod maps the backend's long-form method labels to
// the three-element API enum. Unrecognized labels fall back to fixed, which
// is the backend's own default.
func normalizeRepetitionMethod(label string) RepetitionMethod {
	switch label {
	case "start after completion":
		return RepetitionStartAfterCompletion
	case "due after completion":
		return RepetitionDueAfterCompletion
	default:
		return RepetitionFixed
	}
}

// denormalizeRepetitionMethod maps the API enum back to the backend label.
func denormalizeRepetitionMethod(m RepetitionMethod) string {
	switch m {
	case RepetitionStartAfterCompletion:
		return "start after completion"
	case RepetitionDueAfterCompletion:
		return "due after completion"
	default:
		return "fixed repetition"
	}
}
