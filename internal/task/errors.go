package task

import "errors"

var (
	ErrEmptyText         = errors.New("task text is empty")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrCorrupt           = errors.New("stored tasks are corrupt")
	ErrNothingToExport   = errors.New("no tasks to export")
	ErrUnsupportedFormat = errors.New("unsupported format")
)
