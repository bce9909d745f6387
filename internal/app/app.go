// Package app holds a task list session: the loaded tasks, the active
// filter and sort, and the stores behind them. Every mutation writes
// through to storage and then reloads, so the in-memory list never drifts
// from what is persisted.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tasklist/internal/category"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

var ErrNoCompleted = errors.New("no completed tasks")

// KV is the key-value persistence shared by the task and category stores.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Session struct {
	tasks      *task.Store
	categories *category.Registry
	loaded     []task.Task
	filter     view.Filter
	sort       view.SortMode
	now        func() time.Time
}

func New(kv KV) (*Session, error) {
	s := &Session{
		tasks:      task.NewStore(kv),
		categories: category.NewRegistry(kv),
		filter:     view.NewFilter(),
		sort:       view.SortDefault,
		now:        time.Now,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory list with what storage holds.
func (s *Session) Reload() error {
	tasks, err := s.tasks.Load()
	if err != nil {
		return err
	}
	s.loaded = tasks
	return nil
}

func (s *Session) Tasks() []task.Task {
	out := make([]task.Task, len(s.loaded))
	copy(out, s.loaded)
	return out
}

func (s *Session) Filter() view.Filter { return s.filter }

func (s *Session) Sort() view.SortMode { return s.sort }

func (s *Session) SetSort(m view.SortMode) { s.sort = m }

// Rows is the visible list under the active filter and sort.
func (s *Session) Rows() []view.Row {
	return view.Project(s.loaded, s.filter, s.sort)
}

func (s *Session) Summary() view.Summary {
	return view.Summarize(s.Rows())
}

func (s *Session) Categories() ([]category.Category, error) {
	return s.categories.All()
}

// Counts reports pending tasks per category, plus view.Any for the total.
func (s *Session) Counts() (map[string]int, error) {
	cats, err := s.categories.All()
	if err != nil {
		return nil, err
	}
	return view.CategoryCounts(s.loaded, cats), nil
}

func (s *Session) Title() string {
	return s.categories.Title(s.filter.Category)
}

func (s *Session) CategoryDisplay(id string) string {
	return s.categories.Display(id)
}

func (s *Session) CategoryName(id string) string {
	return s.categories.Name(id)
}

func (s *Session) SelectCategory(id string) error {
	if id != view.Any && !s.categories.Exists(id) {
		return fmt.Errorf("%w: %s", category.ErrNotFound, id)
	}
	s.filter.Category = id
	return nil
}

func (s *Session) SelectPriority(p string) error {
	if p != view.Any {
		parsed, err := task.ParsePriority(p)
		if err != nil {
			return err
		}
		p = string(parsed)
	}
	s.filter.Priority = p
	return nil
}

func (s *Session) AddTask(text, categoryID string, p task.Priority) (task.Task, error) {
	if !s.categories.Exists(categoryID) {
		return task.Task{}, fmt.Errorf("%w: %s", category.ErrNotFound, categoryID)
	}
	t, err := s.tasks.Add(text, categoryID, p)
	if err != nil {
		return task.Task{}, err
	}
	return t, s.Reload()
}

// SetCompleted marks the first stored task matching key.
func (s *Session) SetCompleted(key task.Key, completed bool) (bool, error) {
	ok, err := s.tasks.SetCompleted(key, completed)
	if err != nil {
		return false, err
	}
	return ok, s.Reload()
}

// Toggle flips the completion shown on row. Duplicates share a key, so the
// write lands on the first matching stored task.
func (s *Session) Toggle(row view.Row) (bool, error) {
	return s.SetCompleted(row.Task.Key(), !row.Task.Completed)
}

func (s *Session) DeleteTask(key task.Key) (int, error) {
	n, err := s.tasks.Remove(key)
	if err != nil {
		return 0, err
	}
	return n, s.Reload()
}

// CompletedCount counts completed tasks, visible or not.
func (s *Session) CompletedCount() int {
	n := 0
	for _, t := range s.loaded {
		if t.Completed {
			n++
		}
	}
	return n
}

// ClearCompleted deletes every completed task, including ones hidden by the
// filter. Pending tasks sharing a key with a cleared task go with it.
func (s *Session) ClearCompleted() (int, error) {
	if s.CompletedCount() == 0 {
		return 0, ErrNoCompleted
	}
	removed, err := s.tasks.RemoveCompleted()
	if err != nil {
		return 0, err
	}
	slog.Info("completed tasks cleared", "count", removed)
	return removed, s.Reload()
}

func (s *Session) AddCategory(name string) (category.Category, error) {
	return s.categories.Add(name)
}

// DeleteCategoryImpact is the number of tasks deleting id would remove.
func (s *Session) DeleteCategoryImpact(id string) int {
	n := 0
	for _, t := range s.loaded {
		if t.Category == id {
			n++
		}
	}
	return n
}

// DeleteCategory removes a custom category and every task filed under it.
// When it was the active filter, the filter falls back to all.
func (s *Session) DeleteCategory(id string) (int, error) {
	if err := s.categories.Remove(id); err != nil {
		return 0, err
	}
	n, err := s.tasks.RemoveCategory(id)
	if err != nil {
		return 0, err
	}
	if s.filter.Category == id {
		s.filter.Category = view.Any
	}
	slog.Info("category deleted", "id", id, "tasks", n)
	return n, s.Reload()
}

// Export writes every stored task, regardless of the filter.
func (s *Session) Export(w io.Writer, f task.Format) error {
	return task.Export(w, s.loaded, f)
}

// ExportFile writes a dated export into dir and returns its path.
func (s *Session) ExportFile(dir string, f task.Format) (string, error) {
	if len(s.loaded) == 0 {
		return "", task.ErrNothingToExport
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, task.ExportFileName(s.now(), f))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := s.Export(file, f); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	slog.Info("tasks exported", "path", path, "count", len(s.loaded))
	return path, nil
}

// Import appends decoded records after the stored ones.
func (s *Session) Import(r io.Reader, f task.Format) (int, error) {
	incoming, err := task.Decode(r, f)
	if err != nil {
		return 0, err
	}
	if len(incoming) == 0 {
		return 0, nil
	}
	current, err := s.tasks.Load()
	if err != nil {
		return 0, err
	}
	if err := s.tasks.Replace(append(current, incoming...)); err != nil {
		return 0, err
	}
	slog.Info("tasks imported", "count", len(incoming))
	return len(incoming), s.Reload()
}
