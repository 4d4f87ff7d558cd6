package board

// Change is a local mutation applied before the server confirms it, paired
// with the inverse used when the server rejects it.
type Change[S any] struct {
	Apply  func(S) S
	Revert func(S) S
}

// Snapshot returns a Change whose inverse restores before wholesale.
func Snapshot[S any](before S, apply func(S) S) Change[S] {
	return Change[S]{
		Apply:  apply,
		Revert: func(S) S { return before },
	}
}

// Reconcile returns the state to keep once the confirming call settled with err.
func (c Change[S]) Reconcile(current S, err error) S {
	if err != nil {
		return c.Revert(current)
	}
	return current
}
