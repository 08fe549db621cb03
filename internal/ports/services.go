package ports

import (
	"context"

	"github.com/taskmaster/tasklists/internal/domain/entities"
)

// TaskListService interface for task list operations
type TaskListService interface {
	CreateTaskList(ctx context.Context, req CreateTaskListRequest) (*entities.TaskList, error)
}

// TaskService interface for task operations
type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	ListTasks(ctx context.Context, req ListTasksRequest) (*entities.TaskPage, error)
}

// Request types

type CreateTaskListRequest struct {
	Name        string `json:"name" validate:"omitempty,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Active      *bool  `json:"active"`
}

type CreateTaskRequest struct {
	TaskName    string              `json:"taskName" validate:"required,max=500"`
	Description string              `json:"description" validate:"omitempty,max=2000"`
	DueDate     string              `json:"dueDate" validate:"required"`
	Period      string              `json:"period" validate:"required"`
	PeriodType  entities.PeriodType `json:"periodType" validate:"required,oneof=monthly quarterly yearly"`
	TaskListID  string              `json:"taskListId" validate:"required,mongodb"`
}

type ListTasksRequest struct {
	SearchText string `query:"searchText"`
	Page       int    `query:"page" validate:"min=1"`
	Limit      int    `query:"limit" validate:"min=1"`
}

// Default paging for ListTasksRequest.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Filter converts a page request into a repository filter.
func (r ListTasksRequest) Filter() TaskFilter {
	return TaskFilter{
		SearchText: r.SearchText,
		Limit:      r.Limit,
		Offset:     (r.Page - 1) * r.Limit,
	}
}
