package memorystore

import (
	"context"
	"sync"
	"time"

	"tasklist/internal/ids"
	"tasklist/internal/model"
)

// TaskStore keeps tasks in memory, listed in insertion order.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
	order []string
	now   func() time.Time
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: make(map[string]model.Task),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskStore) Create(_ context.Context, content string, completed bool) (model.Task, error) {
	now := s.now()
	t := model.Task{
		ID:        ids.NewID(),
		Content:   content,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	s.order = append(s.order, t.ID)
	return t, nil
}

func (s *TaskStore) List(_ context.Context) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out, nil
}

func (s *TaskStore) Get(_ context.Context, id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, model.ErrNotFound
	}
	return t, nil
}

func (s *TaskStore) Update(_ context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, model.ErrNotFound
	}

	t = patch.Apply(t)
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return t, nil
}

func (s *TaskStore) Delete(_ context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, model.ErrNotFound
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return t, nil
}

func (s *TaskStore) Ping(_ context.Context) error {
	return nil
}
