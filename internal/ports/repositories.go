package ports

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskmaster/tasklists/internal/domain/entities"
)

// TaskListRepository defines the interface for task list data operations
type TaskListRepository interface {
	Create(ctx context.Context, list *entities.TaskList) error
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*entities.TaskList, error)
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	Search(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
}

// TaskListNameCache caches task list names by id in front of the store.
// Get returns the names it found; ids missing from the result are cache misses.
type TaskListNameCache interface {
	Get(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
	Set(ctx context.Context, names map[primitive.ObjectID]string, ttl time.Duration) error
}

// TaskFilter selects tasks whose name or description contains SearchText,
// case-insensitively. Results are ordered by due date.
type TaskFilter struct {
	SearchText string
	Limit      int
	Offset     int
}
