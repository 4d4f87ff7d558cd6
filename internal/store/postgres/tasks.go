package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tasklist/internal/ids"
	"tasklist/internal/model"
)

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// EnsureSchema creates the tasks table when it does not exist yet.
func (r *TaskRepo) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS tasks (
    id         TEXT PRIMARY KEY,
    seq        BIGSERIAL NOT NULL,
    content    TEXT NOT NULL CHECK (btrim(content) <> ''),
    completed  BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *TaskRepo) Create(ctx context.Context, content string, completed bool) (model.Task, error) {
	const q = `
INSERT INTO tasks (id, content, completed)
VALUES ($1, $2, $3)
RETURNING id, content, completed, created_at, updated_at;
`
	return scanTask(r.db.QueryRowContext(ctx, q, ids.NewID(), content, completed))
}

func (r *TaskRepo) List(ctx context.Context) ([]model.Task, error) {
	const q = `
SELECT id, content, completed, created_at, updated_at
FROM tasks
ORDER BY seq;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepo) Get(ctx context.Context, id string) (model.Task, error) {
	const q = `
SELECT id, content, completed, created_at, updated_at
FROM tasks
WHERE id = $1;
`
	return scanTask(r.db.QueryRowContext(ctx, q, id))
}

// Update applies the non-nil patch fields; NULL parameters keep the stored value.
func (r *TaskRepo) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	const q = `
UPDATE tasks
SET content    = COALESCE($2, content),
    completed  = COALESCE($3, completed),
    updated_at = now()
WHERE id = $1
RETURNING id, content, completed, created_at, updated_at;
`
	var content sql.NullString
	if patch.Content != nil {
		content = sql.NullString{String: *patch.Content, Valid: true}
	}
	var completed sql.NullBool
	if patch.Completed != nil {
		completed = sql.NullBool{Bool: *patch.Completed, Valid: true}
	}
	return scanTask(r.db.QueryRowContext(ctx, q, id, content, completed))
}

func (r *TaskRepo) Delete(ctx context.Context, id string) (model.Task, error) {
	const q = `
DELETE FROM tasks
WHERE id = $1
RETURNING id, content, completed, created_at, updated_at;
`
	return scanTask(r.db.QueryRowContext(ctx, q, id))
}

func (r *TaskRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.Content, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
