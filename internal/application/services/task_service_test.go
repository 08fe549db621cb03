package services

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskmaster/tasklists/internal/domain/entities"
	"github.com/taskmaster/tasklists/internal/infrastructure/config"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
	"github.com/taskmaster/tasklists/internal/infrastructure/metrics"
	"github.com/taskmaster/tasklists/internal/ports"
)

func newTaskService(db *fakeStore, cache ports.TaskListNameCache, policy string) *TaskService {
	return NewTaskService(fakeTaskRepo{db}, fakeListRepo{db}, cache, TaskServiceConfig{
		MaxLimit:          100,
		MissingListPolicy: policy,
		CacheTTL:          time.Minute,
	}, metrics.New(), logger.NewNop())
}

func seedList(t *testing.T, db *fakeStore, name string) primitive.ObjectID {
	t.Helper()
	list := &entities.TaskList{Name: name}
	require.NoError(t, fakeListRepo{db}.Create(context.Background(), list))
	return list.ID
}

func createReq(listID primitive.ObjectID, dueDate string) ports.CreateTaskRequest {
	return ports.CreateTaskRequest{
		TaskName:    "VAT return",
		Description: "File monthly VAT",
		DueDate:     dueDate,
		Period:      "Jan 2024",
		PeriodType:  entities.PeriodTypeMonthly,
		TaskListID:  listID.Hex(),
	}
}

func TestCreateTask(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	svc := newTaskService(db, newFakeCache(), config.MissingListPolicyError)

	task, err := svc.CreateTask(context.Background(), createReq(listID, "05-02-2024"))
	require.NoError(t, err)

	assert.False(t, task.ID.IsZero())
	assert.Equal(t, time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC), task.DueDate)
	assert.Equal(t, listID, task.TaskListID)
	assert.Equal(t, entities.PeriodTypeMonthly, task.PeriodType)
	require.Len(t, db.tasks, 1)
	assert.Equal(t, task.ID, db.tasks[0].ID)
}

func TestCreateTaskDueDateBeforePeriodEnd(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	svc := newTaskService(db, newFakeCache(), "")

	for _, due := range []string{"01-01-2024", "15-01-2024", "30-01-2024", "31-01-2024", "2023-12-31"} {
		t.Run(due, func(t *testing.T) {
			_, err := svc.CreateTask(context.Background(), createReq(listID, due))
			require.Error(t, err)
			assert.ErrorIs(t, err, entities.ErrDueDateBeforePeriodEnd)
			assert.Equal(t, "Due date should be after the end of the period", err.Error())
		})
	}
	assert.Empty(t, db.tasks)
}

func TestCreateTaskAmbiguousDateIsDayFirst(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	svc := newTaskService(db, newFakeCache(), "")

	req := createReq(listID, "03-04-2024")
	req.PeriodType = entities.PeriodTypeQuarterly

	task, err := svc.CreateTask(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, time.April, task.DueDate.Month())
	assert.Equal(t, 3, task.DueDate.Day())

	req.DueDate = "04-03-2024"
	_, err = svc.CreateTask(context.Background(), req)
	assert.ErrorIs(t, err, entities.ErrDueDateBeforePeriodEnd)
}

func TestCreateTaskDoesNotCheckListExists(t *testing.T) {
	db := newFakeStore()
	svc := newTaskService(db, newFakeCache(), "")

	task, err := svc.CreateTask(context.Background(), createReq(primitive.NewObjectID(), "01-02-2024"))
	require.NoError(t, err)
	assert.False(t, task.ID.IsZero())
}

func TestCreateTaskInvalidInput(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	svc := newTaskService(db, newFakeCache(), "")

	badDate := createReq(listID, "someday")
	_, err := svc.CreateTask(context.Background(), badDate)
	assert.ErrorIs(t, err, entities.ErrInvalidDueDate)

	badPeriod := createReq(listID, "05-02-2024")
	badPeriod.Period = "Q1"
	_, err = svc.CreateTask(context.Background(), badPeriod)
	assert.ErrorIs(t, err, entities.ErrInvalidPeriod)

	badID := createReq(listID, "05-02-2024")
	badID.TaskListID = "not-an-id"
	_, err = svc.CreateTask(context.Background(), badID)
	assert.ErrorIs(t, err, entities.ErrInvalidID)

	db.failCreate = true
	_, err = svc.CreateTask(context.Background(), createReq(listID, "05-02-2024"))
	assert.ErrorIs(t, err, errStoreDown)
}

func seedTasks(t *testing.T, db *fakeStore, listID primitive.ObjectID, n int) {
	t.Helper()
	base := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, fakeTaskRepo{db}.Create(context.Background(), &entities.Task{
			TaskName:    fmt.Sprintf("Report %02d", i),
			Description: "Quarterly filing",
			DueDate:     base.AddDate(0, 0, (n-i)%5),
			Period:      "Jan 2024",
			PeriodType:  entities.PeriodTypeMonthly,
			TaskListID:  listID,
		}))
	}
}

func TestListTasks(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	seedTasks(t, db, listID, 3)
	require.NoError(t, fakeTaskRepo{db}.Create(context.Background(), &entities.Task{
		TaskName:    "Payroll",
		Description: "Pay staff",
		DueDate:     time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
		Period:      "Dec 2023",
		PeriodType:  entities.PeriodTypeMonthly,
		TaskListID:  listID,
	}))

	svc := newTaskService(db, newFakeCache(), "")

	page, err := svc.ListTasks(context.Background(), ports.ListTasksRequest{SearchText: "", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Count)
	require.Len(t, page.Results, 4)

	first := page.Results[0]
	assert.Equal(t, entities.TaskListing{
		TaskName:     "Payroll",
		Description:  "Pay staff",
		PeriodType:   entities.PeriodTypeMonthly,
		Period:       "Dec 2023",
		DueDate:      "20-01-2024",
		TaskListName: "Finance",
	}, first)

	page, err = svc.ListTasks(context.Background(), ports.ListTasksRequest{SearchText: "REPORT", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)

	page, err = svc.ListTasks(context.Background(), ports.ListTasksRequest{SearchText: "filing", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)

	page, err = svc.ListTasks(context.Background(), ports.ListTasksRequest{SearchText: "nothing", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Count)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestListTasksPagination(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	seedTasks(t, db, listID, 23)
	svc := newTaskService(db, newFakeCache(), "")

	for _, limit := range []int{1, 3, 10, 25} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			var all []entities.TaskListing
			seen := map[string]bool{}

			for p := 1; ; p++ {
				page, err := svc.ListTasks(context.Background(), ports.ListTasksRequest{Page: p, Limit: limit})
				require.NoError(t, err)
				require.Equal(t, int64(23), page.Count)
				assert.LessOrEqual(t, len(page.Results), limit)
				if len(page.Results) == 0 {
					break
				}
				for _, r := range page.Results {
					assert.False(t, seen[r.TaskName], "duplicate %s", r.TaskName)
					seen[r.TaskName] = true
				}
				all = append(all, page.Results...)
			}

			assert.Len(t, all, 23)
			for i := 1; i < len(all); i++ {
				prev, _ := time.Parse("02-01-2006", all[i-1].DueDate)
				cur, _ := time.Parse("02-01-2006", all[i].DueDate)
				assert.False(t, cur.Before(prev))
			}
		})
	}
}

func TestListTasksIsIdempotent(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	seedTasks(t, db, listID, 8)
	svc := newTaskService(db, newFakeCache(), "")

	req := ports.ListTasksRequest{SearchText: "report", Page: 2, Limit: 3}
	first, err := svc.ListTasks(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.ListTasks(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, db.tasks, 8)
}

func TestListTasksInvalidPaging(t *testing.T) {
	svc := newTaskService(newFakeStore(), newFakeCache(), "")

	for _, req := range []ports.ListTasksRequest{
		{Page: 0, Limit: 10},
		{Page: 1, Limit: 0},
		{Page: 1, Limit: 101},
		{Page: math.MaxInt32/4 + 1, Limit: 4},
		{Page: math.MaxInt, Limit: 4},
		{Page: math.MaxInt/4 + 2, Limit: 4},
	} {
		_, err := svc.ListTasks(context.Background(), req)
		assert.ErrorIs(t, err, entities.ErrInvalidPaging, "page=%d limit=%d", req.Page, req.Limit)
	}
}

func TestListTasksLastValidPage(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	seedTasks(t, db, listID, 3)
	svc := newTaskService(db, newFakeCache(), "")

	page, err := svc.ListTasks(context.Background(), ports.ListTasksRequest{Page: math.MaxInt32 / 4, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Count)
	assert.Empty(t, page.Results)
}

func TestListTasksMissingTaskList(t *testing.T) {
	setup := func() *fakeStore {
		db := newFakeStore()
		listID := seedList(t, db, "Finance")
		seedTasks(t, db, listID, 2)
		seedTasks(t, db, primitive.NewObjectID(), 1)
		return db
	}

	t.Run("error policy", func(t *testing.T) {
		svc := newTaskService(setup(), newFakeCache(), config.MissingListPolicyError)

		_, err := svc.ListTasks(context.Background(), ports.ListTasksRequest{Page: 1, Limit: 10})
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrTaskListNotFound)
	})

	t.Run("skip policy", func(t *testing.T) {
		svc := newTaskService(setup(), newFakeCache(), config.MissingListPolicySkip)

		page, err := svc.ListTasks(context.Background(), ports.ListTasksRequest{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Count)
		assert.Len(t, page.Results, 2)
		for _, r := range page.Results {
			assert.Equal(t, "Finance", r.TaskListName)
		}
	})
}

func TestListTasksUsesNameCache(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	seedTasks(t, db, listID, 4)
	cache := newFakeCache()
	svc := newTaskService(db, cache, "")

	req := ports.ListTasksRequest{Page: 1, Limit: 10}
	_, err := svc.ListTasks(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, db.listLookups)
	assert.Equal(t, "Finance", cache.names[listID])
	assert.Equal(t, time.Minute, cache.lastTTL)

	page, err := svc.ListTasks(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, db.listLookups)
	assert.Equal(t, "Finance", page.Results[0].TaskListName)
}

func TestListTasksTrustsCachedNamesUntilExpiry(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	seedTasks(t, db, listID, 1)
	cache := newFakeCache()
	svc := newTaskService(db, cache, config.MissingListPolicyError)

	req := ports.ListTasksRequest{Page: 1, Limit: 10}
	_, err := svc.ListTasks(context.Background(), req)
	require.NoError(t, err)

	db.mu.Lock()
	delete(db.lists, listID)
	db.mu.Unlock()

	page, err := svc.ListTasks(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Finance", page.Results[0].TaskListName)
	assert.Equal(t, 1, db.listLookups)

	delete(cache.names, listID)

	_, err = svc.ListTasks(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrTaskListNotFound)
	assert.Equal(t, 2, db.listLookups)
}

func TestListTasksCacheFailureFallsBackToStore(t *testing.T) {
	db := newFakeStore()
	listID := seedList(t, db, "Finance")
	seedTasks(t, db, listID, 2)
	cache := newFakeCache()
	cache.fail = true
	svc := newTaskService(db, cache, "")

	page, err := svc.ListTasks(context.Background(), ports.ListTasksRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Finance", page.Results[0].TaskListName)
}

func TestListTasksStoreErrors(t *testing.T) {
	tests := []struct {
		name string
		fail func(db *fakeStore)
	}{
		{"search", func(db *fakeStore) { db.failSearch = true }},
		{"count", func(db *fakeStore) { db.failCount = true }},
		{"lists", func(db *fakeStore) { db.failLists = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeStore()
			listID := seedList(t, db, "Finance")
			seedTasks(t, db, listID, 2)
			tt.fail(db)

			svc := newTaskService(db, newFakeCache(), "")
			_, err := svc.ListTasks(context.Background(), ports.ListTasksRequest{Page: 1, Limit: 10})
			assert.ErrorIs(t, err, errStoreDown)
		})
	}
}
