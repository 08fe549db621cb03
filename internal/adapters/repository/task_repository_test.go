package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskmaster/tasklists/internal/domain/entities"
	"github.com/taskmaster/tasklists/internal/infrastructure/config"
	"github.com/taskmaster/tasklists/internal/infrastructure/database"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
	"github.com/taskmaster/tasklists/internal/ports"
)

func TestSearchFilterEscapesPattern(t *testing.T) {
	f := searchFilter("a.b (c)")

	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	name := or[0].(bson.M)["taskName"].(primitive.Regex)
	assert.Equal(t, `a\.b \(c\)`, name.Pattern)
	assert.Equal(t, "i", name.Options)

	desc := or[1].(bson.M)["description"].(primitive.Regex)
	assert.Equal(t, name, desc)
}

func TestSearchFilterEmptyText(t *testing.T) {
	f := searchFilter("")
	name := f["$or"].(bson.A)[0].(bson.M)["taskName"].(primitive.Regex)
	assert.Equal(t, "", name.Pattern)
}

func TestSearchOptions(t *testing.T) {
	opts := searchOptions(ports.TaskFilter{Offset: 20, Limit: 10})

	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(20), *opts.Skip)
	assert.Equal(t, int64(10), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "dueDate", Value: 1}, {Key: "_id", Value: 1}}, opts.Sort)

	first := searchOptions(ports.TaskFilter{Limit: 5})
	assert.Nil(t, first.Skip)
}

func testDB(t *testing.T) *database.DB {
	t.Helper()

	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	db, err := database.Connect(context.Background(), config.MongoConfig{
		URI:            uri,
		Database:       fmt.Sprintf("tasklists_test_%d", time.Now().UnixNano()),
		ConnectTimeout: 5 * time.Second,
		ConnectRetries: 1,
	}, logger.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Database.Drop(context.Background())
		_ = db.Close(context.Background())
	})
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	log := logger.NewNop()

	lists := NewTaskListRepository(db.Collection(database.TaskListsCollection), log)
	tasks := NewTaskRepository(db.Collection(database.TasksCollection), log)

	_, err := EnsureIndexes(ctx, db)
	require.NoError(t, err)

	active := true
	list := &entities.TaskList{Name: "Finance", Description: "Month end", Active: &active}
	require.NoError(t, lists.Create(ctx, list))
	assert.False(t, list.ID.IsZero())

	base := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		task := &entities.Task{
			TaskName:    fmt.Sprintf("Report %d", i),
			Description: "Close the books",
			DueDate:     base.AddDate(0, 0, 6-i),
			Period:      "Jan 2024",
			PeriodType:  entities.PeriodTypeMonthly,
			TaskListID:  list.ID,
		}
		require.NoError(t, tasks.Create(ctx, task))
	}
	require.NoError(t, tasks.Create(ctx, &entities.Task{
		TaskName: "Payroll", Description: "Pay people", DueDate: base, TaskListID: list.ID,
	}))

	count, err := tasks.Count(ctx, ports.TaskFilter{SearchText: "REPORT"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	count, err = tasks.Count(ctx, ports.TaskFilter{SearchText: "books"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	count, err = tasks.Count(ctx, ports.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)

	seen := map[primitive.ObjectID]bool{}
	var prev time.Time
	for offset := 0; offset < 7; offset += 3 {
		page, err := tasks.Search(ctx, ports.TaskFilter{SearchText: "report", Offset: offset, Limit: 3})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(page), 3)
		for _, task := range page {
			assert.False(t, seen[task.ID])
			seen[task.ID] = true
			assert.False(t, task.DueDate.Before(prev))
			prev = task.DueDate
		}
	}
	assert.Len(t, seen, 7)

	found, err := lists.GetByIDs(ctx, []primitive.ObjectID{list.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Finance", found[0].Name)
	require.NotNil(t, found[0].Active)
	assert.True(t, *found[0].Active)
}
