package cli

import (
	"errors"

	"tasklist/internal/category"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

// Exit codes follow Unix conventions.
const (
	ExitSuccess    = 0
	ExitError      = 1
	ExitUsage      = 2
	ExitNotFound   = 3
	ExitValidation = 5
)

var (
	ErrUsage       = errors.New("usage")
	ErrRowNotFound = errors.New("no task at that position")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrRowNotFound),
		errors.Is(err, category.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, task.ErrEmptyText),
		errors.Is(err, task.ErrInvalidPriority),
		errors.Is(err, task.ErrUnsupportedFormat),
		errors.Is(err, view.ErrInvalidSort),
		errors.Is(err, category.ErrEmptyName),
		errors.Is(err, category.ErrExists),
		errors.Is(err, category.ErrNotCustom):
		return ExitValidation
	}
	return ExitError
}
