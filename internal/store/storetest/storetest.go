// Package storetest holds the behaviour every task store must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/ids"
	"tasklist/internal/model"
	"tasklist/internal/task"
)

// Run exercises repo against the TaskRepository contract. repo must start empty.
func Run(t *testing.T, repo task.TaskRepository) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, repo.Ping(ctx))

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		created, err := repo.Create(ctx, "buy milk", false)
		require.NoError(t, err)

		assert.True(t, ids.Valid(created.ID), "id %q", created.ID)
		assert.Equal(t, "buy milk", created.Content)
		assert.False(t, created.Completed)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Content, got.Content)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("list includes created tasks in store order", func(t *testing.T) {
		a, err := repo.Create(ctx, "first", false)
		require.NoError(t, err)
		b, err := repo.Create(ctx, "second", true)
		require.NoError(t, err)

		list, err := repo.List(ctx)
		require.NoError(t, err)

		pos := map[string]int{}
		for i, tk := range list {
			pos[tk.ID] = i
		}
		require.Contains(t, pos, a.ID)
		require.Contains(t, pos, b.ID)
		assert.Less(t, pos[a.ID], pos[b.ID])
		assert.True(t, list[pos[b.ID]].Completed)
	})

	t.Run("update merges supplied fields", func(t *testing.T) {
		created, err := repo.Create(ctx, "partial", false)
		require.NoError(t, err)

		done := true
		updated, err := repo.Update(ctx, created.ID, model.TaskPatch{Completed: &done})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "partial", updated.Content)
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		content := "renamed"
		updated, err = repo.Update(ctx, created.ID, model.TaskPatch{Content: &content})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Content)
		assert.True(t, updated.Completed)
	})

	t.Run("delete returns snapshot and removes", func(t *testing.T) {
		created, err := repo.Create(ctx, "doomed", true)
		require.NoError(t, err)

		deleted, err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, deleted.ID)
		assert.Equal(t, "doomed", deleted.Content)
		assert.True(t, deleted.Completed)

		_, err = repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = repo.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		missing := ids.NewID()
		_, err := repo.Get(ctx, missing)
		assert.ErrorIs(t, err, model.ErrNotFound)

		done := true
		_, err = repo.Update(ctx, missing, model.TaskPatch{Completed: &done})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
