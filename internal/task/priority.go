package task

import (
	"fmt"
	"strings"
)

// Priority is one of low, medium, high or urgent. The zero value is not a
// valid priority.
type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
	Urgent Priority = "urgent"
)

// Priorities lists every priority from least to most pressing.
func Priorities() []Priority {
	return []Priority{Low, Medium, High, Urgent}
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, v)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case Low, Medium, High, Urgent:
		return true
	}
	return false
}

// Rank orders priorities for sorting: urgent first, low last.
func (p Priority) Rank() int {
	switch p {
	case Urgent:
		return 0
	case High:
		return 1
	case Medium:
		return 2
	case Low:
		return 3
	}
	return 4
}

func (p Priority) Label() string {
	switch p {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	case Urgent:
		return "Urgent"
	}
	return string(p)
}

// Next cycles through Priorities, wrapping from urgent back to low.
func (p Priority) Next() Priority {
	all := Priorities()
	for i, candidate := range all {
		if candidate == p {
			return all[(i+1)%len(all)]
		}
	}
	return Low
}
