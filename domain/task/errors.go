package task

import (
	"errors"
	"strings"
)

// ErrEmptyTitle is returned by ValidateTitle for titles that are blank after trimming.
var ErrEmptyTitle = errors.New("task title is empty")

// ValidateTitle rejects blank titles. The Store itself accepts any title;
// views call this before submitting user input.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
