package task

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"tasklist/internal/ids"
)

var validate = validator.New()

type contentInput struct {
	Content string `validate:"required"`
}

// ValidateContent trims content and rejects what is left if it is empty.
func ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if err := validate.Struct(contentInput{Content: trimmed}); err != nil {
		return "", ErrContentRequired
	}
	return trimmed, nil
}

func ValidateID(id string) error {
	if !ids.Valid(id) {
		return ErrInvalidID
	}
	return nil
}
