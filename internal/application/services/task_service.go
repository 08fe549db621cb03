package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/taskmaster/tasklists/internal/domain/entities"
	"github.com/taskmaster/tasklists/internal/domain/period"
	"github.com/taskmaster/tasklists/internal/infrastructure/config"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
	"github.com/taskmaster/tasklists/internal/infrastructure/metrics"
	"github.com/taskmaster/tasklists/internal/ports"
)

// TaskServiceConfig tunes listing behaviour
type TaskServiceConfig struct {
	MaxLimit          int
	MissingListPolicy string
	CacheTTL          time.Duration
}

// TaskService handles task operations
type TaskService struct {
	taskRepo ports.TaskRepository
	listRepo ports.TaskListRepository
	cache    ports.TaskListNameCache
	cfg      TaskServiceConfig
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, listRepo ports.TaskListRepository, cache ports.TaskListNameCache, cfg TaskServiceConfig, m *metrics.Metrics, logger *logger.Logger) *TaskService {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.MissingListPolicy == "" {
		cfg.MissingListPolicy = config.MissingListPolicyError
	}
	return &TaskService{
		taskRepo: taskRepo,
		listRepo: listRepo,
		cache:    cache,
		cfg:      cfg,
		metrics:  m,
		logger:   logger.WithComponent("task_service"),
	}
}

// CreateTask validates the due date against the period window and stores the task.
// The task list reference is not checked for existence.
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	due, err := period.ParseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	if err := period.ValidateDueDate(due, req.Period, req.PeriodType); err != nil {
		if errors.Is(err, entities.ErrDueDateBeforePeriodEnd) {
			s.metrics.DueDateRejected()
		}
		return nil, err
	}

	listID, err := primitive.ObjectIDFromHex(req.TaskListID)
	if err != nil {
		return nil, fmt.Errorf("%w: taskListId %q", entities.ErrInvalidID, req.TaskListID)
	}

	task := &entities.Task{
		TaskName:    req.TaskName,
		Description: req.Description,
		DueDate:     due,
		Period:      req.Period,
		PeriodType:  req.PeriodType,
		TaskListID:  listID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.metrics.TaskCreated()
	s.logger.Infow("Task created", "task_id", task.ID.Hex(), "task_list_id", listID.Hex(), "due_date", period.FormatDueDate(due))

	return task, nil
}

// ListTasks returns one page of matching tasks, ordered by due date, with
// their task list names resolved, plus the total number of matches.
func (s *TaskService) ListTasks(ctx context.Context, req ports.ListTasksRequest) (*entities.TaskPage, error) {
	if req.Page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", entities.ErrInvalidPaging)
	}
	if req.Limit < 1 || req.Limit > s.cfg.MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", entities.ErrInvalidPaging, s.cfg.MaxLimit)
	}
	if req.Page > math.MaxInt32/req.Limit {
		return nil, fmt.Errorf("%w: page %d is out of range", entities.ErrInvalidPaging, req.Page)
	}

	filter := req.Filter()

	var (
		tasks []*entities.Task
		count int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.taskRepo.Search(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		count, err = s.taskRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names, err := s.resolveListNames(ctx, tasks)
	if err != nil {
		return nil, err
	}

	results := make([]entities.TaskListing, 0, len(tasks))
	for _, task := range tasks {
		name, ok := names[task.TaskListID]
		if !ok {
			s.metrics.MissingTaskList()
			if s.cfg.MissingListPolicy == config.MissingListPolicySkip {
				s.logger.Warnw("Skipping task with missing task list", "task_id", task.ID.Hex(), "task_list_id", task.TaskListID.Hex())
				continue
			}
			return nil, fmt.Errorf("%w: %s referenced by task %s", entities.ErrTaskListNotFound, task.TaskListID.Hex(), task.ID.Hex())
		}

		results = append(results, entities.TaskListing{
			TaskName:     task.TaskName,
			Description:  task.Description,
			PeriodType:   task.PeriodType,
			Period:       task.Period,
			DueDate:      period.FormatDueDate(task.DueDate),
			TaskListName: name,
		})
	}

	return &entities.TaskPage{Count: count, Results: results}, nil
}

// resolveListNames maps every distinct task list id in tasks to its name.
// Cached names are trusted until their TTL expires, so a list deleted after
// being cached keeps resolving until then. Ids absent from the result were
// not found in the cache or the store.
func (s *TaskService) resolveListNames(ctx context.Context, tasks []*entities.Task) (map[primitive.ObjectID]string, error) {
	ids := make([]primitive.ObjectID, 0, len(tasks))
	seen := make(map[primitive.ObjectID]struct{}, len(tasks))
	for _, task := range tasks {
		if _, ok := seen[task.TaskListID]; ok {
			continue
		}
		seen[task.TaskListID] = struct{}{}
		ids = append(ids, task.TaskListID)
	}
	if len(ids) == 0 {
		return map[primitive.ObjectID]string{}, nil
	}

	names, err := s.cache.Get(ctx, ids)
	if err != nil {
		s.metrics.CacheLookup(metrics.CacheError, len(ids))
		s.logger.Warnw("Task list name cache unavailable", "error", err)
		names = make(map[primitive.ObjectID]string, len(ids))
	}

	misses := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			misses = append(misses, id)
		}
	}
	if err == nil {
		s.metrics.CacheLookup(metrics.CacheHit, len(ids)-len(misses))
		s.metrics.CacheLookup(metrics.CacheMiss, len(misses))
	}
	if len(misses) == 0 {
		return names, nil
	}

	lists, err := s.listRepo.GetByIDs(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task lists: %w", err)
	}

	fetched := make(map[primitive.ObjectID]string, len(lists))
	for _, list := range lists {
		fetched[list.ID] = list.Name
		names[list.ID] = list.Name
	}

	if err := s.cache.Set(ctx, fetched, s.cfg.CacheTTL); err != nil {
		s.logger.Warnw("Failed to cache task list names", "error", err)
	}

	return names, nil
}
