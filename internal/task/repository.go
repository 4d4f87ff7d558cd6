package task

import (
	"context"

	"tasklist/internal/model"
)

// TaskRepository is the persistence contract every store implements.
// Ids passed in have already been checked with ValidateID.
type TaskRepository interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Create(ctx context.Context, content string, completed bool) (model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id string) (model.Task, error)
	Ping(ctx context.Context) error
}
