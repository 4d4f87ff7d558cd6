// Package board is the task list screen as a pure state machine. Handle takes
// the current Board and an Event and returns the next Board plus, when the
// event needs the server, an Effect that performs exactly one API call and
// reports back with another Event.
//
// Mutations are optimistic: the local list changes before the call is
// dispatched and is rolled back from the recorded inverse if the call fails.
// Responses are not sequenced, so a slow response can still land on newer
// local state.
package board

import (
	"context"
	"strings"

	"tasklist/internal/client"
	"tasklist/internal/model"
)

// API is the part of the client SDK the board drives.
type API interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, req client.CreateRequest) (model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id string) (model.Task, error)
}

// Effect performs one API call and returns the event describing its outcome.
// A nil Effect means no call.
type Effect func(ctx context.Context, api API) Event

type Mode int

const (
	Viewing Mode = iota
	Editing
)

type View int

const (
	ViewLoading View = iota
	ViewError
	ViewEmpty
	ViewList
)

const (
	NoticeEmptyInput   = "Please enter task content!"
	NoticeEmptyEdit    = "Task content cannot be empty!"
	NoticeCreateFailed = "Failed to add task. Please try again."
	NoticeCreated      = "Task added successfully!"
	NoticeToggleFailed = "Failed to update task status"
	NoticeDeleteFailed = "Failed to delete task"
	NoticeEditFailed   = "Failed to update task content"
	LoadFailed         = "Failed to load tasks"
)

type Notice struct {
	Text    string
	Failure bool
}

type Board struct {
	Tasks   []model.Task
	Loading bool
	LoadErr string

	EditingID string
	Buffer    string

	PendingDelete string

	Input    string
	Creating bool

	Notice Notice
}

// Init returns the board as first mounted, with the initial load.
func Init() (Board, Effect) {
	return Board{}.Handle(Refresh{})
}

func (b Board) View() View {
	switch {
	case b.Loading:
		return ViewLoading
	case b.LoadErr != "":
		return ViewError
	case len(b.Tasks) == 0:
		return ViewEmpty
	default:
		return ViewList
	}
}

func (b Board) ModeOf(id string) Mode {
	if id != "" && id == b.EditingID {
		return Editing
	}
	return Viewing
}

// SubmitDisabled reports whether the create control should refuse input.
func (b Board) SubmitDisabled() bool {
	return b.Creating || strings.TrimSpace(b.Input) == ""
}

func (b Board) Find(id string) (model.Task, bool) {
	for _, t := range b.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (b Board) Handle(ev Event) (Board, Effect) {
	switch ev := ev.(type) {
	case Refresh:
		b.Loading = true
		return b, loadTasks

	case Loaded:
		b.Loading = false
		if ev.Err != nil {
			b.LoadErr = LoadFailed
			return b, nil
		}
		b.LoadErr = ""
		b.Tasks = ev.Tasks
		return b, nil

	case Toggle:
		return b.toggle(ev.ID)

	case RequestDelete:
		if _, ok := b.Find(ev.ID); ok {
			b.PendingDelete = ev.ID
		}
		return b, nil

	case CancelDelete:
		b.PendingDelete = ""
		return b, nil

	case ConfirmDelete:
		return b.confirmDelete()

	case StartEdit:
		t, ok := b.Find(ev.ID)
		if !ok {
			return b, nil
		}
		b.EditingID = t.ID
		b.Buffer = t.Content
		return b, nil

	case EditInput:
		if b.EditingID != "" {
			b.Buffer = ev.Text
		}
		return b, nil

	case SaveEdit, BlurEdit:
		return b.saveEdit()

	case CancelEdit:
		return b.cancelEdit(), nil

	case ChangeInput:
		// The input is locked while a create is in flight; a success clears it.
		if !b.Creating {
			b.Input = ev.Text
		}
		return b, nil

	case Submit:
		return b.submit()

	case Created:
		b.Creating = false
		if ev.Err != nil {
			b.Notice = Notice{Text: NoticeCreateFailed, Failure: true}
			return b, nil
		}
		b.Input = ""
		b.Notice = Notice{Text: NoticeCreated}
		return b.Handle(Refresh{})

	case Settled:
		b.Tasks = ev.change.Reconcile(b.Tasks, ev.Err)
		if ev.Err != nil {
			b.Notice = Notice{Text: ev.failure, Failure: true}
			return b, nil
		}
		if ev.editID != "" && ev.editID == b.EditingID {
			b = b.cancelEdit()
		}
		return b, nil

	case DismissNotice:
		b.Notice = Notice{}
		return b, nil
	}
	return b, nil
}

func (b Board) toggle(id string) (Board, Effect) {
	t, ok := b.Find(id)
	if !ok {
		return b, nil
	}
	before := t.Completed
	after := !before

	change := Change[[]model.Task]{
		Apply: func(tasks []model.Task) []model.Task {
			return updateTask(tasks, id, func(t *model.Task) { t.Completed = after })
		},
		Revert: func(tasks []model.Task) []model.Task {
			return updateTask(tasks, id, func(t *model.Task) { t.Completed = before })
		},
	}
	return b.optimistic(change, NoticeToggleFailed, "", func(ctx context.Context, api API) error {
		_, err := api.Update(ctx, id, model.TaskPatch{Completed: &after})
		return err
	})
}

func (b Board) confirmDelete() (Board, Effect) {
	id := b.PendingDelete
	b.PendingDelete = ""
	if _, ok := b.Find(id); !ok {
		return b, nil
	}
	if b.EditingID == id {
		b = b.cancelEdit()
	}

	change := Snapshot(b.Tasks, func(tasks []model.Task) []model.Task {
		out := make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
	return b.optimistic(change, NoticeDeleteFailed, "", func(ctx context.Context, api API) error {
		_, err := api.Delete(ctx, id)
		return err
	})
}

func (b Board) saveEdit() (Board, Effect) {
	id := b.EditingID
	if id == "" {
		return b, nil
	}

	content := strings.TrimSpace(b.Buffer)
	if content == "" {
		b.Notice = Notice{Text: NoticeEmptyEdit, Failure: true}
		return b, nil
	}

	original, ok := b.Find(id)
	if !ok || content == original.Content {
		return b.cancelEdit(), nil
	}

	change := Change[[]model.Task]{
		Apply: func(tasks []model.Task) []model.Task {
			return updateTask(tasks, id, func(t *model.Task) { t.Content = content })
		},
		Revert: func(tasks []model.Task) []model.Task {
			return updateTask(tasks, id, func(t *model.Task) { t.Content = original.Content })
		},
	}
	return b.optimistic(change, NoticeEditFailed, id, func(ctx context.Context, api API) error {
		_, err := api.Update(ctx, id, model.TaskPatch{Content: &content})
		return err
	})
}

func (b Board) cancelEdit() Board {
	b.EditingID = ""
	b.Buffer = ""
	return b
}

func (b Board) submit() (Board, Effect) {
	if b.Creating {
		return b, nil
	}
	content := strings.TrimSpace(b.Input)
	if content == "" {
		b.Notice = Notice{Text: NoticeEmptyInput, Failure: true}
		return b, nil
	}

	b.Creating = true
	return b, func(ctx context.Context, api API) Event {
		t, err := api.Create(ctx, client.CreateRequest{Content: content})
		return Created{Task: t, Err: err}
	}
}

// optimistic applies change now and returns the effect that confirms it.
func (b Board) optimistic(change Change[[]model.Task], failure, editID string, call func(context.Context, API) error) (Board, Effect) {
	b.Tasks = change.Apply(b.Tasks)
	return b, func(ctx context.Context, api API) Event {
		return Settled{
			Err:     call(ctx, api),
			change:  change,
			failure: failure,
			editID:  editID,
		}
	}
}

func loadTasks(ctx context.Context, api API) Event {
	tasks, err := api.List(ctx)
	return Loaded{Tasks: tasks, Err: err}
}

// updateTask returns a copy of tasks with fn applied to the task with id.
func updateTask(tasks []model.Task, id string, fn func(*model.Task)) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}
