package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskmaster/tasklists/internal/domain/entities"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
	"github.com/taskmaster/tasklists/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	coll   *mongo.Collection
	logger *logger.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(coll *mongo.Collection, log *logger.Logger) ports.TaskRepository {
	return &TaskRepositoryImpl{coll: coll, logger: log.WithComponent("task_repository")}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}

	start := time.Now()
	_, err := r.coll.InsertOne(ctx, task)
	r.logger.LogStoreOperation(r.coll.Name(), "insert", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Search(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	start := time.Now()
	cur, err := r.coll.Find(ctx, searchFilter(filter.SearchText), searchOptions(filter))
	if err != nil {
		r.logger.LogStoreOperation(r.coll.Name(), "find", time.Since(start), err)
		return nil, fmt.Errorf("search tasks: %w", err)
	}

	tasks := make([]*entities.Task, 0, filter.Limit)
	err = cur.All(ctx, &tasks)
	r.logger.LogStoreOperation(r.coll.Name(), "find", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) Count(ctx context.Context, filter ports.TaskFilter) (int64, error) {
	start := time.Now()
	n, err := r.coll.CountDocuments(ctx, searchFilter(filter.SearchText))
	r.logger.LogStoreOperation(r.coll.Name(), "count", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}

	return n, nil
}

// searchFilter matches text as a literal, case-insensitive substring of the
// task name or description. Empty text matches every task.
func searchFilter(text string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	return bson.M{
		"$or": bson.A{
			bson.M{"taskName": pattern},
			bson.M{"description": pattern},
		},
	}
}

// searchOptions orders by due date with _id as tie-breaker so pages are stable.
func searchOptions(filter ports.TaskFilter) *options.FindOptions {
	opts := options.Find().
		SetSort(bson.D{{Key: "dueDate", Value: 1}, {Key: "_id", Value: 1}})
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return opts
}
