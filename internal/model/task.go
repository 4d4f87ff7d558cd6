package model

import "time"

type Task struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskPatch is a partial update. Nil fields keep their stored value.
type TaskPatch struct {
	Content   *string `json:"content,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (p TaskPatch) Empty() bool {
	return p.Content == nil && p.Completed == nil
}

// Apply merges the supplied fields into t. Timestamps are left to the store.
func (p TaskPatch) Apply(t Task) Task {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
