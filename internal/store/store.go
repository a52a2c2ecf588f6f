// Package store owns the in-memory task collection. All task mutation goes
// through it, and every mutation is followed by a full rewrite of the
// persisted collection.
package store

import (
	"sync"
	"time"

	"github.com/jenfonro/sharesync/internal/model"
	"github.com/pkg/errors"
)

type LoadFunc func() ([]model.SyncTask, error)
type PersistFunc func([]model.SyncTask) error

// TaskStore guards the task collection with a single lock. Callers get and
// give back value copies, so an in-flight attempt never aliases the stored
// record.
type TaskStore struct {
	mu      sync.RWMutex
	tasks   []model.SyncTask
	persist PersistFunc
	lastID  int64
}

func New(load LoadFunc, persist PersistFunc) (*TaskStore, error) {
	s := &TaskStore{persist: persist}
	if load != nil {
		tasks, err := load()
		if err != nil {
			return nil, errors.Wrapf(err, "failed load sync tasks")
		}
		s.tasks = tasks
		for i := range tasks {
			if tasks[i].ID > s.lastID {
				s.lastID = tasks[i].ID
			}
		}
	}
	return s, nil
}

// NextID hands out monotonically increasing task ids. Millisecond timestamps
// keep ids sortable by creation time while the lastID floor protects against
// clock regression and same-millisecond creation.
func (s *TaskStore) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *TaskStore) All() []model.SyncTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SyncTask, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskStore) Get(id int64) (model.SyncTask, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return s.tasks[i], true
		}
	}
	return model.SyncTask{}, false
}

// Add prepends the task so newest tasks list first, then persists.
func (s *TaskStore) Add(t model.SyncTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]model.SyncTask{t}, s.tasks...)
	if t.ID > s.lastID {
		s.lastID = t.ID
	}
	return s.persistLocked()
}

// Save replaces the stored record matching t.ID and persists the collection.
func (s *TaskStore) Save(t model.SyncTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return s.persistLocked()
		}
	}
	return errors.Errorf("task %d not found", t.ID)
}

func (s *TaskStore) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return s.persistLocked()
		}
	}
	return nil
}

func (s *TaskStore) persistLocked() error {
	if s.persist == nil {
		return nil
	}
	snapshot := make([]model.SyncTask, len(s.tasks))
	copy(snapshot, s.tasks)
	return s.persist(snapshot)
}
