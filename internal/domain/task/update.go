package task

import (
	"time"

	"github.com/mhutchens/taskbridge/internal/domain/validation"
	"github.com/mhutchens/taskbridge/internal/script"
)

// Task status values accepted by update.
const (
	StatusIncomplete = "incomplete"
	StatusCompleted  = "completed"
	StatusDropped    = "dropped"
)

var taskStatuses = []string{StatusIncomplete, StatusCompleted, StatusDropped}

// UpdateRequest names the fields to change on one task. Nil means leave the
// field untouched; a pointer to an empty value clears it (dates,
// recurrence) or zeroes it (estimate). Tags is a full replacement and is
// mutually exclusive with the incremental AddTags/RemoveTags.
type UpdateRequest struct {
	Name             *string
	Note             *string
	DueDate          *string // ISO-8601; "" clears
	DeferDate        *string // ISO-8601; "" clears
	Flagged          *bool
	EstimatedMinutes *int // 0 clears
	ProjectID        *string // move into project; "" moves to inbox
	ParentTaskID     *string // make a subtask of this task; "" moves to inbox
	Tags             []string
	AddTags          []string
	RemoveTags       []string
	Recurrence       *string // iCalendar rule; "" clears
	RepetitionMethod *string
	Status           *string // incomplete | completed | dropped
}

// UpdateResult reports one dispatch. Backend failures land here as
// Success=false with Error populated; they are never returned as Go errors.
type UpdateResult struct {
	Success       bool     `json:"success"`
	ID            string   `json:"id"`
	UpdatedFields []string `json:"updated_fields"`
	Error         string   `json:"error,omitempty"`
}

// plan validates the request and builds the backend commands. Hierarchy
// moves render as their own command; all plain property changes are batched
// into a single assignment command.
func (r UpdateRequest) plan(id string, loc *time.Location) ([]string, []script.Command, error) {
	fields := r.fieldNames()
	if len(fields) == 0 {
		return nil, nil, validation.Newf("fields", "no fields supplied")
	}
	if r.ProjectID != nil && r.ParentTaskID != nil {
		return nil, nil, validation.Newf("project_id", "mutually exclusive with parent_task_id in a single call")
	}
	if r.Tags != nil && (len(r.AddTags) > 0 || len(r.RemoveTags) > 0) {
		return nil, nil, validation.Newf("tags", "full replacement is mutually exclusive with add_tags/remove_tags")
	}
	if r.Status != nil && !contains(taskStatuses, *r.Status) {
		return nil, nil, validation.NotInEnum("status", *r.Status, taskStatuses)
	}
	if r.RepetitionMethod != nil && !contains(RepetitionMethods, *r.RepetitionMethod) {
		return nil, nil, validation.NotInEnum("repetition_method", *r.RepetitionMethod, RepetitionMethods)
	}
	if r.RepetitionMethod != nil && r.Recurrence == nil {
		return nil, nil, validation.Newf("repetition_method", "requires recurrence")
	}
	if r.EstimatedMinutes != nil && *r.EstimatedMinutes < 0 {
		return nil, nil, validation.Newf("estimated_minutes", "must not be negative")
	}

	var props []script.Property
	if r.Name != nil {
		props = append(props, script.StringProp("name", *r.Name))
	}
	if r.Note != nil {
		props = append(props, script.StringProp("note", *r.Note))
	}
	if r.DueDate != nil {
		t, err := parseUpdateDate("due_date", *r.DueDate, loc)
		if err != nil {
			return nil, nil, err
		}
		props = append(props, script.DateProp("dueDate", t))
	}
	if r.DeferDate != nil {
		t, err := parseUpdateDate("defer_date", *r.DeferDate, loc)
		if err != nil {
			return nil, nil, err
		}
		props = append(props, script.DateProp("deferDate", t))
	}
	if r.Flagged != nil {
		props = append(props, script.BoolProp("flagged", *r.Flagged))
	}
	if r.EstimatedMinutes != nil {
		if *r.EstimatedMinutes == 0 {
			props = append(props, script.NullProp("estimatedMinutes"))
		} else {
			props = append(props, script.IntProp("estimatedMinutes", *r.EstimatedMinutes))
		}
	}

	var cmds []script.Command
	if len(props) > 0 {
		cmds = append(cmds, script.SetTaskProperties{ID: id, Props: props})
	}
	if r.ProjectID != nil {
		cmds = append(cmds, script.MoveTask{ID: id, ProjectID: *r.ProjectID, ToInbox: *r.ProjectID == ""})
	}
	if r.ParentTaskID != nil {
		cmds = append(cmds, script.MoveTask{ID: id, ParentID: *r.ParentTaskID, ToInbox: *r.ParentTaskID == ""})
	}
	if r.Tags != nil || len(r.AddTags) > 0 || len(r.RemoveTags) > 0 {
		cmds = append(cmds, script.SetTaskTags{ID: id, Replace: r.Tags, Add: r.AddTags, Remove: r.RemoveTags})
	}
	if r.Recurrence != nil {
		method := RepetitionFixed
		if r.RepetitionMethod != nil {
			method = RepetitionMethod(*r.RepetitionMethod)
		}
		cmds = append(cmds, script.SetTaskRecurrence{
			ID:         id,
			Recurrence: *r.Recurrence,
			Method:     denormalizeRepetitionMethod(method),
		})
	}
	if r.Status != nil {
		switch *r.Status {
		case StatusCompleted:
			cmds = append(cmds, script.CompleteTask{ID: id})
		case StatusDropped:
			cmds = append(cmds, script.DropTask{ID: id})
		case StatusIncomplete:
			cmds = append(cmds, script.ReopenTask{ID: id})
		}
	}

	return fields, cmds, nil
}

// validateForBatch rejects fields that require per-record-unique values.
func (r UpdateRequest) validateForBatch() error {
	if r.Name != nil {
		return validation.Newf("name", "cannot be applied to multiple tasks")
	}
	if r.Note != nil {
		return validation.Newf("note", "cannot be applied to multiple tasks")
	}
	return nil
}

func (r UpdateRequest) fieldNames() []string {
	var fields []string
	if r.Name != nil {
		fields = append(fields, "name")
	}
	if r.Note != nil {
		fields = append(fields, "note")
	}
	if r.DueDate != nil {
		fields = append(fields, "due_date")
	}
	if r.DeferDate != nil {
		fields = append(fields, "defer_date")
	}
	if r.Flagged != nil {
		fields = append(fields, "flagged")
	}
	if r.EstimatedMinutes != nil {
		fields = append(fields, "estimated_minutes")
	}
	if r.ProjectID != nil {
		fields = append(fields, "project_id")
	}
	if r.ParentTaskID != nil {
		fields = append(fields, "parent_task_id")
	}
	if r.Tags != nil {
		fields = append(fields, "tags")
	}
	if len(r.AddTags) > 0 {
		fields = append(fields, "add_tags")
	}
	if len(r.RemoveTags) > 0 {
		fields = append(fields, "remove_tags")
	}
	if r.Recurrence != nil {
		fields = append(fields, "recurrence")
	}
	if r.RepetitionMethod != nil {
		fields = append(fields, "repetition_method")
	}
	if r.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

// parseUpdateDate parses a date parameter; empty text means clear (nil).
func parseUpdateDate(param, value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	return parseParamTime(param, value, loc)
}
