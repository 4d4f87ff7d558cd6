package board

import "tasklist/internal/model"

// Event is anything the board reacts to: user input or a settled API call.
type Event interface {
	event()
}

type (
	// Refresh reloads the full list.
	Refresh struct{}

	Toggle struct{ ID string }

	// RequestDelete asks for confirmation; nothing is removed yet.
	RequestDelete struct{ ID string }
	ConfirmDelete struct{}
	CancelDelete  struct{}

	StartEdit struct{ ID string }
	EditInput struct{ Text string }
	// SaveEdit is an explicit save or the confirm key.
	SaveEdit struct{}
	// BlurEdit is the edit field losing focus. It saves like SaveEdit.
	BlurEdit   struct{}
	CancelEdit struct{}

	ChangeInput struct{ Text string }
	Submit      struct{}

	DismissNotice struct{}
)

type (
	Loaded struct {
		Tasks []model.Task
		Err   error
	}

	Created struct {
		Task model.Task
		Err  error
	}

	// Settled reports the outcome of the call confirming an optimistic change.
	Settled struct {
		Err     error
		change  Change[[]model.Task]
		failure string
		editID  string
	}
)

func (Refresh) event()       {}
func (Toggle) event()        {}
func (RequestDelete) event() {}
func (ConfirmDelete) event() {}
func (CancelDelete) event()  {}
func (StartEdit) event()     {}
func (EditInput) event()     {}
func (SaveEdit) event()      {}
func (BlurEdit) event()      {}
func (CancelEdit) event()    {}
func (ChangeInput) event()   {}
func (Submit) event()        {}
func (DismissNotice) event() {}
func (Loaded) event()        {}
func (Created) event()       {}
func (Settled) event()       {}
