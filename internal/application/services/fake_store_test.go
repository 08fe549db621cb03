package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskmaster/tasklists/internal/domain/entities"
	"github.com/taskmaster/tasklists/internal/ports"
)

var errStoreDown = errors.New("server selection error: context deadline exceeded")

type fakeStore struct {
	mu sync.RWMutex

	lists map[primitive.ObjectID]entities.TaskList
	tasks []entities.Task

	failCreate bool
	failSearch bool
	failCount  bool
	failLists  bool

	listLookups int
}

func newFakeStore() *fakeStore {
	return &fakeStore{lists: make(map[primitive.ObjectID]entities.TaskList)}
}

type fakeListRepo struct{ db *fakeStore }

type fakeTaskRepo struct{ db *fakeStore }

func (r fakeListRepo) Create(_ context.Context, list *entities.TaskList) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.failCreate {
		return errStoreDown
	}
	list.ID = primitive.NewObjectID()
	r.db.lists[list.ID] = *list
	return nil
}

func (r fakeListRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]*entities.TaskList, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.listLookups++
	if r.db.failLists {
		return nil, errStoreDown
	}

	var out []*entities.TaskList
	for _, id := range ids {
		if l, ok := r.db.lists[id]; ok {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r fakeTaskRepo) Create(_ context.Context, task *entities.Task) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.failCreate {
		return errStoreDown
	}
	task.ID = primitive.NewObjectID()
	r.db.tasks = append(r.db.tasks, *task)
	return nil
}

func (r fakeTaskRepo) matching(text string) []entities.Task {
	text = strings.ToLower(text)
	var out []entities.Task
	for _, t := range r.db.tasks {
		if strings.Contains(strings.ToLower(t.TaskName), text) || strings.Contains(strings.ToLower(t.Description), text) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out
}

func (r fakeTaskRepo) Search(_ context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if r.db.failSearch {
		return nil, errStoreDown
	}

	all := r.matching(filter.SearchText)
	out := []*entities.Task{}
	for i := filter.Offset; i < len(all) && len(out) < filter.Limit; i++ {
		t := all[i]
		out = append(out, &t)
	}
	return out, nil
}

func (r fakeTaskRepo) Count(_ context.Context, filter ports.TaskFilter) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if r.db.failCount {
		return 0, errStoreDown
	}
	return int64(len(r.matching(filter.SearchText))), nil
}

type fakeCache struct {
	names   map[primitive.ObjectID]string
	fail    bool
	lastTTL time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{names: make(map[primitive.ObjectID]string)}
}

func (c *fakeCache) Get(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	if c.fail {
		return nil, errors.New("redis: connection refused")
	}
	out := make(map[primitive.ObjectID]string)
	for _, id := range ids {
		if n, ok := c.names[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (c *fakeCache) Set(_ context.Context, names map[primitive.ObjectID]string, ttl time.Duration) error {
	if c.fail {
		return errors.New("redis: connection refused")
	}
	c.lastTTL = ttl
	for id, n := range names {
		c.names[id] = n
	}
	return nil
}
