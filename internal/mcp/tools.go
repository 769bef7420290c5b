package mcp

// buildToolCatalog returns all available MCP tools.
func buildToolCatalog() []ToolDefinition {
	taskIDProp := map[string]any{
		"type":        "string",
		"description": "Task identifier",
	}
	taskIDsProp := map[string]any{
		"description": "Task identifier or list of identifiers",
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
	projectIDProp := map[string]any{
		"type":        "string",
		"description": "Project identifier",
	}
	return []ToolDefinition{
		// Tasks: reads
		{
			Name:        "list_tasks",
			Description: "List tasks with filtering and sorting. Filters combine with AND; only the tag filter has its own boolean mode.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": map[string]any{
						"type":        "string",
						"description": "Restrict to one project's tasks",
					},
					"inbox_only": map[string]any{
						"type":        "boolean",
						"description": "Only tasks with no owning project",
					},
					"include_completed": map[string]any{"type": "boolean"},
					"dropped_only":      map[string]any{"type": "boolean"},
					"flagged_only":      map[string]any{"type": "boolean"},
					"blocked_only":      map[string]any{"type": "boolean"},
					"next_only":         map[string]any{"type": "boolean"},
					"available_only": map[string]any{
						"type":        "boolean",
						"description": "Not dropped, not blocked, and not deferred past now",
					},
					"overdue": map[string]any{
						"type":        "boolean",
						"description": "Has a due date in the past",
					},
					"tag_filter": map[string]any{
						"type":        "array",
						"description": "Tag names to match (case-insensitive)",
						"items":       map[string]any{"type": "string"},
					},
					"tag_filter_mode": map[string]any{
						"type":        "string",
						"description": "and: all tags present; or: any tag present; not: none present",
						"enum":        []string{"and", "or", "not"},
					},
					"due_relative": map[string]any{
						"type": "string",
						"enum": []string{"today", "tomorrow", "this_week", "next_week", "overdue"},
					},
					"defer_relative": map[string]any{
						"type": "string",
						"enum": []string{"today", "tomorrow", "this_week", "next_week", "overdue"},
					},
					"created_after":   map[string]any{"type": "string", "description": "ISO-8601 timestamp, inclusive"},
					"created_before":  map[string]any{"type": "string", "description": "ISO-8601 timestamp, inclusive"},
					"modified_after":  map[string]any{"type": "string", "description": "ISO-8601 timestamp, inclusive"},
					"modified_before": map[string]any{"type": "string", "description": "ISO-8601 timestamp, inclusive"},
					"max_estimated_minutes": map[string]any{
						"type":        "integer",
						"description": "Only tasks with an estimate at or below this",
					},
					"has_estimate": map[string]any{"type": "boolean"},
					"query": map[string]any{
						"type":        "string",
						"description": "Case-insensitive substring match on name and note",
					},
					"sort_by": map[string]any{
						"type": "string",
						"enum": []string{"name", "due_date", "defer_date"},
					},
					"sort_order": map[string]any{
						"type": "string",
						"enum": []string{"asc", "desc"},
					},
				},
			},
		},
		{
			Name:        "get_task",
			Description: "Get one task by identifier",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": taskIDProp,
				},
				"required": []string{"task_id"},
			},
		},

		// Tasks: mutations
		{
			Name:        "create_task",
			Description: "Create a task in the inbox, a project, or under a parent task",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
					"note": map[string]any{"type": "string"},
					"project_id": map[string]any{
						"type":        "string",
						"description": "Owning project; mutually exclusive with parent_task_id",
					},
					"parent_task_id": map[string]any{
						"type":        "string",
						"description": "Parent task for a subtask; mutually exclusive with project_id",
					},
					"due_date":          map[string]any{"type": "string", "description": "ISO-8601"},
					"defer_date":        map[string]any{"type": "string", "description": "ISO-8601"},
					"flagged":           map[string]any{"type": "boolean"},
					"estimated_minutes": map[string]any{"type": "integer"},
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"recurrence": map[string]any{
						"type":        "string",
						"description": "iCalendar-style recurrence rule",
					},
					"repetition_method": map[string]any{
						"type": "string",
						"enum": []string{"fixed", "start_after_completion", "due_after_completion"},
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "update_task",
			Description: "Update task fields. Omitted fields are untouched; an explicit empty string clears dates and recurrence. project_id and parent_task_id are mutually exclusive, as are tags and add_tags/remove_tags.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id":           taskIDProp,
					"name":              map[string]any{"type": "string"},
					"note":              map[string]any{"type": "string"},
					"due_date":          map[string]any{"type": "string", "description": "ISO-8601; empty string clears"},
					"defer_date":        map[string]any{"type": "string", "description": "ISO-8601; empty string clears"},
					"flagged":           map[string]any{"type": "boolean"},
					"estimated_minutes": map[string]any{"type": "integer", "description": "0 clears"},
					"project_id": map[string]any{
						"type":        "string",
						"description": "Move into this project; empty string moves to the inbox",
					},
					"parent_task_id": map[string]any{
						"type":        "string",
						"description": "Make a subtask of this task",
					},
					"tags": map[string]any{
						"type":        "array",
						"description": "Full tag replacement",
						"items":       map[string]any{"type": "string"},
					},
					"add_tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"remove_tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"recurrence": map[string]any{
						"type":        "string",
						"description": "iCalendar-style rule; empty string clears",
					},
					"repetition_method": map[string]any{
						"type": "string",
						"enum": []string{"fixed", "start_after_completion", "due_after_completion"},
					},
					"status": map[string]any{
						"type": "string",
						"enum": []string{"incomplete", "completed", "dropped"},
					},
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "complete_task",
			Description: "Mark one task complete",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": taskIDProp,
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "drop_task",
			Description: "Mark one task dropped",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": taskIDProp,
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "delete_task",
			Description: "Permanently delete one task",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": taskIDProp,
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "batch_update_tasks",
			Description: "Apply the same field updates to many tasks, best-effort. Fields that need per-task values (name, note) are rejected.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_ids":          taskIDsProp,
					"due_date":          map[string]any{"type": "string", "description": "ISO-8601; empty string clears"},
					"defer_date":        map[string]any{"type": "string", "description": "ISO-8601; empty string clears"},
					"flagged":           map[string]any{"type": "boolean"},
					"estimated_minutes": map[string]any{"type": "integer", "description": "0 clears"},
					"project_id":        map[string]any{"type": "string"},
					"parent_task_id":    map[string]any{"type": "string"},
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"add_tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"remove_tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"recurrence": map[string]any{"type": "string"},
					"repetition_method": map[string]any{
						"type": "string",
						"enum": []string{"fixed", "start_after_completion", "due_after_completion"},
					},
					"status": map[string]any{
						"type": "string",
						"enum": []string{"incomplete", "completed", "dropped"},
					},
				},
				"required": []string{"task_ids"},
			},
		},
		{
			Name:        "batch_complete_tasks",
			Description: "Mark many tasks complete, best-effort",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_ids": taskIDsProp,
				},
				"required": []string{"task_ids"},
			},
		},
		{
			Name:        "batch_delete_tasks",
			Description: "Permanently delete many tasks, best-effort",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_ids": taskIDsProp,
				},
				"required": []string{"task_ids"},
			},
		},

		// Projects
		{
			Name:        "list_projects",
			Description: "List projects with filtering, including filters over each project's incomplete tasks",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"status": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "string",
							"enum": []string{"active", "on_hold", "done", "dropped"},
						},
					},
					"query": map[string]any{
						"type":        "string",
						"description": "Case-insensitive substring match on name, note, and folder path",
					},
					"created_after":   map[string]any{"type": "string", "description": "ISO-8601 timestamp, inclusive"},
					"created_before":  map[string]any{"type": "string", "description": "ISO-8601 timestamp, inclusive"},
					"modified_after":  map[string]any{"type": "string", "description": "ISO-8601 timestamp, inclusive"},
					"modified_before": map[string]any{"type": "string", "description": "ISO-8601 timestamp, inclusive"},
					"min_task_count": map[string]any{
						"type":        "integer",
						"description": "Keep projects with at least this many incomplete tasks",
					},
					"has_overdue_tasks": map[string]any{"type": "boolean"},
					"has_no_due_dates": map[string]any{
						"type":        "boolean",
						"description": "At least one task and none with a due date",
					},
					"stalled_only": map[string]any{
						"type":        "boolean",
						"description": "Projects with incomplete tasks but no activity for 30 days",
					},
					"sort_by": map[string]any{
						"type": "string",
						"enum": []string{"name"},
					},
					"sort_order": map[string]any{
						"type": "string",
						"enum": []string{"asc", "desc"},
					},
				},
			},
		},
		{
			Name:        "get_project",
			Description: "Get one project by identifier",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": projectIDProp,
				},
				"required": []string{"project_id"},
			},
		},
		{
			Name:        "project_stats",
			Description: "Aggregate rollup over a project's incomplete tasks: counts, estimate sum, due-date buckets, last activity",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": projectIDProp,
				},
				"required": []string{"project_id"},
			},
		},
		{
			Name:        "create_project",
			Description: "Create a project, optionally inside a folder path (folders are created as needed)",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
					"note": map[string]any{"type": "string"},
					"folder_path": map[string]any{
						"type":        "array",
						"description": "Folder names from root to immediate parent",
						"items":       map[string]any{"type": "string"},
					},
					"sequential":            map[string]any{"type": "boolean"},
					"review_interval_weeks": map[string]any{"type": "integer"},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "update_project",
			Description: "Update project fields; omitted fields are untouched",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": projectIDProp,
					"name":       map[string]any{"type": "string"},
					"note":       map[string]any{"type": "string"},
					"status": map[string]any{
						"type": "string",
						"enum": []string{"active", "on_hold", "done", "dropped"},
					},
					"sequential": map[string]any{"type": "boolean"},
				},
				"required": []string{"project_id"},
			},
		},
		{
			Name:        "delete_project",
			Description: "Permanently delete a project and its tasks",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"project_id": projectIDProp,
				},
				"required": []string{"project_id"},
			},
		},
		{
			Name:        "list_folders",
			Description: "List folders with their materialized paths",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},

		// Tags
		{
			Name:        "list_tags",
			Description: "List all tags",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "create_tag",
			Description: "Create a tag if it does not exist; returns the tag identifier",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
				"required": []string{"name"},
			},
		},
	}
}
