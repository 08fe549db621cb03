package services

import (
	"context"
	"fmt"

	"github.com/taskmaster/tasklists/internal/domain/entities"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
	"github.com/taskmaster/tasklists/internal/infrastructure/metrics"
	"github.com/taskmaster/tasklists/internal/ports"
)

// TaskListService handles task list operations
type TaskListService struct {
	listRepo ports.TaskListRepository
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewTaskListService creates a new task list service
func NewTaskListService(listRepo ports.TaskListRepository, m *metrics.Metrics, logger *logger.Logger) *TaskListService {
	return &TaskListService{
		listRepo: listRepo,
		metrics:  m,
		logger:   logger.WithComponent("tasklist_service"),
	}
}

// CreateTaskList stores a new task list and returns it with its id
func (s *TaskListService) CreateTaskList(ctx context.Context, req ports.CreateTaskListRequest) (*entities.TaskList, error) {
	list := &entities.TaskList{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	}

	if err := s.listRepo.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create task list: %w", err)
	}

	s.metrics.TaskListCreated()
	s.logger.Infow("Task list created", "task_list_id", list.ID.Hex(), "name", list.Name)

	return list, nil
}
