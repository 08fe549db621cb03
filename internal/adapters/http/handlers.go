package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
	"github.com/taskmaster/tasklists/internal/ports"
)

// TaskListHandler handles task list requests
type TaskListHandler struct {
	listService ports.TaskListService
	logger      *logger.Logger
}

// NewTaskListHandler creates a new task list handler
func NewTaskListHandler(listService ports.TaskListService, logger *logger.Logger) *TaskListHandler {
	return &TaskListHandler{
		listService: listService,
		logger:      logger.WithComponent("tasklist_handler"),
	}
}

// CreateTaskList handles POST /api/createtasklist
func (h *TaskListHandler) CreateTaskList(c echo.Context) error {
	var req ports.CreateTaskListRequest
	if err := bindJSON(c, &req, true); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	list, err := h.listService.CreateTaskList(c.Request().Context(), req)
	if err != nil {
		return serviceError(h.logger, "Create task list failed", err)
	}

	return c.JSON(http.StatusOK, list)
}

// TaskHandler handles task requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.WithComponent("task_handler"),
	}
}

// CreateTask handles POST /api/createtask
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := bindJSON(c, &req, false); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return serviceError(h.logger, "Create task failed", err)
	}

	return c.JSON(http.StatusOK, task)
}

// ListTasks handles GET /api/tasklist
func (h *TaskHandler) ListTasks(c echo.Context) error {
	req := ports.ListTasksRequest{
		Page:  ports.DefaultPage,
		Limit: ports.DefaultLimit,
	}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}

	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	page, err := h.taskService.ListTasks(c.Request().Context(), req)
	if err != nil {
		return serviceError(h.logger, "List tasks failed", err)
	}

	return c.JSON(http.StatusOK, page)
}
