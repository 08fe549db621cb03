package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskmaster/tasklists/internal/domain/entities"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
	"github.com/taskmaster/tasklists/internal/ports"
)

// TaskListRepositoryImpl implements the TaskListRepository interface
type TaskListRepositoryImpl struct {
	coll   *mongo.Collection
	logger *logger.Logger
}

// NewTaskListRepository creates a new task list repository
func NewTaskListRepository(coll *mongo.Collection, log *logger.Logger) ports.TaskListRepository {
	return &TaskListRepositoryImpl{coll: coll, logger: log.WithComponent("tasklist_repository")}
}

func (r *TaskListRepositoryImpl) Create(ctx context.Context, list *entities.TaskList) error {
	if list.ID.IsZero() {
		list.ID = primitive.NewObjectID()
	}

	start := time.Now()
	_, err := r.coll.InsertOne(ctx, list)
	r.logger.LogStoreOperation(r.coll.Name(), "insert", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("create task list: %w", err)
	}

	return nil
}

func (r *TaskListRepositoryImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*entities.TaskList, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	start := time.Now()
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.LogStoreOperation(r.coll.Name(), "find", time.Since(start), err)
		return nil, fmt.Errorf("get task lists: %w", err)
	}

	var lists []*entities.TaskList
	err = cur.All(ctx, &lists)
	r.logger.LogStoreOperation(r.coll.Name(), "find", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("decode task lists: %w", err)
	}

	return lists, nil
}
