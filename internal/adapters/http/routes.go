package http

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the task list API on g
func RegisterRoutes(g *echo.Group, lists *TaskListHandler, tasks *TaskHandler) {
	g.POST("/createtasklist", lists.CreateTaskList)
	g.POST("/createtask", tasks.CreateTask)
	g.GET("/tasklist", tasks.ListTasks)
}
