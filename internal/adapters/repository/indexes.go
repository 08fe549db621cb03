package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskmaster/tasklists/internal/infrastructure/database"
)

// taskIndexes back the listing sort and the task list lookup.
func taskIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "dueDate", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("dueDate_id"),
		},
		{
			Keys:    bson.D{{Key: "taskListId", Value: 1}},
			Options: options.Index().SetName("taskListId"),
		},
	}
}

// EnsureIndexes creates the task indexes. Existing indexes with the same
// definition are left alone by the server.
func EnsureIndexes(ctx context.Context, db *database.DB) ([]string, error) {
	names, err := db.Collection(database.TasksCollection).Indexes().CreateMany(ctx, taskIndexes())
	if err != nil {
		return nil, fmt.Errorf("create task indexes: %w", err)
	}
	return names, nil
}
