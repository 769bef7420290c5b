package mcp

import "encoding/json"

// StringOrList accepts a single identifier or a list of identifiers, so
// batch tools can be called either way.
type StringOrList []string

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringOrList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringOrList(many)
	return nil
}

type ListTasksParams struct {
	ProjectID           string   `json:"project_id,omitempty"`
	InboxOnly           bool     `json:"inbox_only,omitempty"`
	IncludeCompleted    bool     `json:"include_completed,omitempty"`
	DroppedOnly         bool     `json:"dropped_only,omitempty"`
	FlaggedOnly         bool     `json:"flagged_only,omitempty"`
	BlockedOnly         bool     `json:"blocked_only,omitempty"`
	NextOnly            bool     `json:"next_only,omitempty"`
	AvailableOnly       bool     `json:"available_only,omitempty"`
	Overdue             bool     `json:"overdue,omitempty"`
	TagFilter           []string `json:"tag_filter,omitempty"`
	TagFilterMode       string   `json:"tag_filter_mode,omitempty"`
	DueRelative         string   `json:"due_relative,omitempty"`
	DeferRelative       string   `json:"defer_relative,omitempty"`
	CreatedAfter        string   `json:"created_after,omitempty"`
	CreatedBefore       string   `json:"created_before,omitempty"`
	ModifiedAfter       string   `json:"modified_after,omitempty"`
	ModifiedBefore      string   `json:"modified_before,omitempty"`
	MaxEstimatedMinutes int      `json:"max_estimated_minutes,omitempty"`
	HasEstimate         *bool    `json:"has_estimate,omitempty"`
	Query               string   `json:"query,omitempty"`
	SortBy              string   `json:"sort_by,omitempty"`
	SortOrder           string   `json:"sort_order,omitempty"`
}

type GetTaskParams struct {
	TaskID string `json:"task_id"`
}

type CreateTaskParams struct {
	Name             string   `json:"name"`
	Note             string   `json:"note,omitempty"`
	ProjectID        string   `json:"project_id,omitempty"`
	ParentTaskID     string   `json:"parent_task_id,omitempty"`
	DueDate          string   `json:"due_date,omitempty"`
	DeferDate        string   `json:"defer_date,omitempty"`
	Flagged          bool     `json:"flagged,omitempty"`
	EstimatedMinutes int      `json:"estimated_minutes,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Recurrence       string   `json:"recurrence,omitempty"`
	RepetitionMethod string   `json:"repetition_method,omitempty"`
}

// taskFieldUpdates is shared by single and batch updates. Omitted fields
// stay untouched; explicit empty strings clear dates and recurrence.
type taskFieldUpdates struct {
	Name             *string  `json:"name,omitempty"`
	Note             *string  `json:"note,omitempty"`
	DueDate          *string  `json:"due_date,omitempty"`
	DeferDate        *string  `json:"defer_date,omitempty"`
	Flagged          *bool    `json:"flagged,omitempty"`
	EstimatedMinutes *int     `json:"estimated_minutes,omitempty"`
	ProjectID        *string  `json:"project_id,omitempty"`
	ParentTaskID     *string  `json:"parent_task_id,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	AddTags          []string `json:"add_tags,omitempty"`
	RemoveTags       []string `json:"remove_tags,omitempty"`
	Recurrence       *string  `json:"recurrence,omitempty"`
	RepetitionMethod *string  `json:"repetition_method,omitempty"`
	Status           *string  `json:"status,omitempty"`
}

type UpdateTaskParams struct {
	TaskID string `json:"task_id"`
	taskFieldUpdates
}

type BatchUpdateTasksParams struct {
	TaskIDs StringOrList `json:"task_ids"`
	taskFieldUpdates
}

type BatchTaskIDsParams struct {
	TaskIDs StringOrList `json:"task_ids"`
}

type ListProjectsParams struct {
	Status          []string `json:"status,omitempty"`
	Query           string   `json:"query,omitempty"`
	CreatedAfter    string   `json:"created_after,omitempty"`
	CreatedBefore   string   `json:"created_before,omitempty"`
	ModifiedAfter   string   `json:"modified_after,omitempty"`
	ModifiedBefore  string   `json:"modified_before,omitempty"`
	MinTaskCount    int      `json:"min_task_count,omitempty"`
	HasOverdueTasks *bool    `json:"has_overdue_tasks,omitempty"`
	HasNoDueDates   *bool    `json:"has_no_due_dates,omitempty"`
	StalledOnly     bool     `json:"stalled_only,omitempty"`
	SortBy          string   `json:"sort_by,omitempty"`
	SortOrder       string   `json:"sort_order,omitempty"`
}

type GetProjectParams struct {
	ProjectID string `json:"project_id"`
}

type CreateProjectParams struct {
	Name                string   `json:"name"`
	Note                string   `json:"note,omitempty"`
	FolderPath          []string `json:"folder_path,omitempty"`
	Sequential          bool     `json:"sequential,omitempty"`
	ReviewIntervalWeeks int      `json:"review_interval_weeks,omitempty"`
}

type UpdateProjectParams struct {
	ProjectID  string  `json:"project_id"`
	Name       *string `json:"name,omitempty"`
	Note       *string `json:"note,omitempty"`
	Status     *string `json:"status,omitempty"`
	Sequential *bool   `json:"sequential,omitempty"`
}

type CreateTagParams struct {
	Name string `json:"name"`
}

// CreateResponse is the result shape for create operations.
type CreateResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// ToolDefinition describes a callable tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}
