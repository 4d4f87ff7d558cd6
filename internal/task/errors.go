package task

import "errors"

var (
	ErrInvalidID       = errors.New("invalid task id format")
	ErrContentRequired = errors.New("content of task must be provided")
)
