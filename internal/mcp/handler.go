package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mhutchens/taskbridge/internal/domain/project"
	"github.com/mhutchens/taskbridge/internal/domain/tag"
	"github.com/mhutchens/taskbridge/internal/domain/task"
)

// TaskService defines task operations needed by MCP.
type TaskService interface {
	List(ctx context.Context, f task.Filter) ([]task.Task, error)
	Get(ctx context.Context, id string) (task.Task, error)
	Create(ctx context.Context, req task.CreateRequest) (string, error)
	Update(ctx context.Context, id string, req task.UpdateRequest) (task.UpdateResult, error)
	Complete(ctx context.Context, id string) (task.UpdateResult, error)
	Drop(ctx context.Context, id string) (task.UpdateResult, error)
	Delete(ctx context.Context, id string) (task.UpdateResult, error)
	UpdateMany(ctx context.Context, ids []string, req task.UpdateRequest) (task.BatchResult, error)
	CompleteMany(ctx context.Context, ids []string) (task.BatchResult, error)
	DeleteMany(ctx context.Context, ids []string) (task.BatchResult, error)
}

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, f project.Filter) ([]project.Project, error)
	Get(ctx context.Context, id string) (project.Project, error)
	ListFolders(ctx context.Context) ([]project.Folder, error)
	Aggregate(ctx context.Context, projectID string) (project.Stats, error)
	Create(ctx context.Context, req project.CreateRequest) (string, error)
	Update(ctx context.Context, id string, req project.UpdateRequest) (project.UpdateResult, error)
	Delete(ctx context.Context, id string) (project.UpdateResult, error)
}

// TagService defines tag operations needed by MCP.
type TagService interface {
	List(ctx context.Context) ([]tag.Tag, error)
	Create(ctx context.Context, name string) (string, error)
}

// Handler dispatches MCP tool calls to domain services.
type Handler struct {
	tasks    TaskService
	projects ProjectService
	tags     TagService
}

// NewHandler creates a new MCP handler.
func NewHandler(tasks TaskService, projects ProjectService, tags TagService) *Handler {
	return &Handler{tasks: tasks, projects: projects, tags: tags}
}

// Handle dispatches one tool call by name.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "list_tasks":
		var req ListTasksParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.List(ctx, task.Filter{
			ProjectID:           req.ProjectID,
			InboxOnly:           req.InboxOnly,
			IncludeCompleted:    req.IncludeCompleted,
			DroppedOnly:         req.DroppedOnly,
			FlaggedOnly:         req.FlaggedOnly,
			BlockedOnly:         req.BlockedOnly,
			NextOnly:            req.NextOnly,
			AvailableOnly:       req.AvailableOnly,
			Overdue:             req.Overdue,
			TagFilter:           req.TagFilter,
			TagFilterMode:       req.TagFilterMode,
			DueRelative:         req.DueRelative,
			DeferRelative:       req.DeferRelative,
			CreatedAfter:        req.CreatedAfter,
			CreatedBefore:       req.CreatedBefore,
			ModifiedAfter:       req.ModifiedAfter,
			ModifiedBefore:      req.ModifiedBefore,
			MaxEstimatedMinutes: req.MaxEstimatedMinutes,
			HasEstimate:         req.HasEstimate,
			Query:               req.Query,
			SortBy:              req.SortBy,
			SortOrder:           req.SortOrder,
		})
	case "get_task":
		var req GetTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.Get(ctx, req.TaskID)
	case "create_task":
		var req CreateTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		id, err := h.tasks.Create(ctx, task.CreateRequest{
			Name:             req.Name,
			Note:             req.Note,
			ProjectID:        req.ProjectID,
			ParentTaskID:     req.ParentTaskID,
			DueDate:          req.DueDate,
			DeferDate:        req.DeferDate,
			Flagged:          req.Flagged,
			EstimatedMinutes: req.EstimatedMinutes,
			Tags:             req.Tags,
			Recurrence:       req.Recurrence,
			RepetitionMethod: req.RepetitionMethod,
		})
		if err != nil {
			return nil, err
		}
		return CreateResponse{Success: true, ID: id}, nil
	case "update_task":
		var req UpdateTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.Update(ctx, req.TaskID, req.taskFieldUpdates.toRequest())
	case "complete_task":
		var req GetTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.Complete(ctx, req.TaskID)
	case "drop_task":
		var req GetTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.Drop(ctx, req.TaskID)
	case "delete_task":
		var req GetTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.Delete(ctx, req.TaskID)
	case "batch_update_tasks":
		var req BatchUpdateTasksParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.UpdateMany(ctx, req.TaskIDs, req.taskFieldUpdates.toRequest())
	case "batch_complete_tasks":
		var req BatchTaskIDsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.CompleteMany(ctx, req.TaskIDs)
	case "batch_delete_tasks":
		var req BatchTaskIDsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.tasks.DeleteMany(ctx, req.TaskIDs)
	case "list_projects":
		var req ListProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.List(ctx, project.Filter{
			Status:          req.Status,
			Query:           req.Query,
			CreatedAfter:    req.CreatedAfter,
			CreatedBefore:   req.CreatedBefore,
			ModifiedAfter:   req.ModifiedAfter,
			ModifiedBefore:  req.ModifiedBefore,
			MinTaskCount:    req.MinTaskCount,
			HasOverdueTasks: req.HasOverdueTasks,
			HasNoDueDates:   req.HasNoDueDates,
			StalledOnly:     req.StalledOnly,
			SortBy:          req.SortBy,
			SortOrder:       req.SortOrder,
		})
	case "get_project":
		var req GetProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Get(ctx, req.ProjectID)
	case "project_stats":
		var req GetProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Aggregate(ctx, req.ProjectID)
	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		id, err := h.projects.Create(ctx, project.CreateRequest{
			Name:                req.Name,
			Note:                req.Note,
			FolderPath:          req.FolderPath,
			Sequential:          req.Sequential,
			ReviewIntervalWeeks: req.ReviewIntervalWeeks,
		})
		if err != nil {
			return nil, err
		}
		return CreateResponse{Success: true, ID: id}, nil
	case "update_project":
		var req UpdateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Update(ctx, req.ProjectID, project.UpdateRequest{
			Name:       req.Name,
			Note:       req.Note,
			Status:     req.Status,
			Sequential: req.Sequential,
		})
	case "delete_project":
		var req GetProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Delete(ctx, req.ProjectID)
	case "list_folders":
		return h.projects.ListFolders(ctx)
	case "list_tags":
		return h.tags.List(ctx)
	case "create_tag":
		var req CreateTagParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		id, err := h.tags.Create(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		return CreateResponse{Success: true, ID: id}, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func (u taskFieldUpdates) toRequest() task.UpdateRequest {
	return task.UpdateRequest{
		Name:             u.Name,
		Note:             u.Note,
		DueDate:          u.DueDate,
		DeferDate:        u.DeferDate,
		Flagged:          u.Flagged,
		EstimatedMinutes: u.EstimatedMinutes,
		ProjectID:        u.ProjectID,
		ParentTaskID:     u.ParentTaskID,
		Tags:             u.Tags,
		AddTags:          u.AddTags,
		RemoveTags:       u.RemoveTags,
		Recurrence:       u.Recurrence,
		RepetitionMethod: u.RepetitionMethod,
		Status:           u.Status,
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	return json.Unmarshal(params, out)
}
