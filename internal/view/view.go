package view

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tasklist/internal/category"
	"tasklist/internal/task"
)

// Any matches every value of a filter dimension.
const Any = category.All

var ErrInvalidSort = errors.New("invalid sort mode")

type SortMode string

const (
	SortDefault  SortMode = "default"
	SortPriority SortMode = "priority"
	SortName     SortMode = "name"
)

func SortModes() []SortMode {
	return []SortMode{SortDefault, SortPriority, SortName}
}

func ParseSortMode(v string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(v))); m {
	case SortDefault, SortPriority, SortName:
		return m, nil
	case "":
		return SortDefault, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSort, v)
}

// Next cycles through SortModes, wrapping to the first.
func (m SortMode) Next() SortMode {
	modes := SortModes()
	for i, candidate := range modes {
		if candidate == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

type Filter struct {
	Category string
	Priority string
}

func NewFilter() Filter {
	return Filter{Category: Any, Priority: Any}
}

func (f Filter) Match(t task.Task) bool {
	categoryMatch := f.Category == "" || f.Category == Any || t.Category == f.Category
	priorityMatch := f.Priority == "" || f.Priority == Any || string(t.Priority) == f.Priority
	return categoryMatch && priorityMatch
}

// Row is a visible task with its position in storage order.
type Row struct {
	Index int
	Task  task.Task
}

// Project filters tasks and orders the survivors. Sorts are stable, so
// equal keys keep storage order.
func Project(tasks []task.Task, f Filter, mode SortMode) []Row {
	rows := make([]Row, 0, len(tasks))
	for i, t := range tasks {
		if f.Match(t) {
			rows = append(rows, Row{Index: i, Task: t})
		}
	}
	switch mode {
	case SortPriority:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Task.Priority.Rank() < rows[j].Task.Priority.Rank()
		})
	case SortName:
		// A Collator is not safe for concurrent use.
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(rows, func(i, j int) bool {
			return c.CompareString(rows[i].Task.Text, rows[j].Task.Text) < 0
		})
	}
	return rows
}

type Summary struct {
	Completed int
	Visible   int
}

func Summarize(rows []Row) Summary {
	s := Summary{Visible: len(rows)}
	for _, r := range rows {
		if r.Task.Completed {
			s.Completed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d completed", s.Completed, s.Visible)
}

// CategoryCounts counts pending tasks per category id, plus Any for the
// total. Every id in categories is present even when its count is zero.
func CategoryCounts(tasks []task.Task, categories []category.Category) map[string]int {
	counts := make(map[string]int, len(categories)+1)
	counts[Any] = 0
	for _, c := range categories {
		counts[c.ID] = 0
	}
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		counts[Any]++
		if _, ok := counts[t.Category]; ok {
			counts[t.Category]++
		}
	}
	return counts
}
