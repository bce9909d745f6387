package task

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// StorageKey is the key the task list lives under.
const StorageKey = "tasks"

// KV is the persistence the store needs. *storage.Store satisfies it.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Task struct {
	Text      string    `json:"text" yaml:"text"`
	Category  string    `json:"category" yaml:"category"`
	Priority  Priority  `json:"priority" yaml:"priority"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Key identifies a task. Tasks carry no id, so two tasks with the same
// text, category and priority are indistinguishable.
type Key struct {
	Text     string
	Category string
	Priority Priority
}

func (t Task) Key() Key {
	return Key{Text: t.Text, Category: t.Category, Priority: t.Priority}
}

func (k Key) matches(t Task) bool {
	return t.Text == k.Text && t.Category == k.Category && t.Priority == k.Priority
}

type Store struct {
	kv  KV
	now func() time.Time
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Load returns every stored task in insertion order.
func (s *Store) Load() ([]Task, error) {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" || raw == "null" {
		return []Task{}, nil
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

func (s *Store) save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return s.kv.Set(StorageKey, string(data))
}

// Replace overwrites the whole stored list.
func (s *Store) Replace(tasks []Task) error {
	return s.save(tasks)
}

func (s *Store) Add(text, category string, priority Priority) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, string(priority))
	}
	tasks, err := s.Load()
	if err != nil {
		return Task{}, err
	}
	t := Task{
		Text:      text,
		Category:  category,
		Priority:  priority,
		Completed: false,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	tasks = append(tasks, t)
	if err := s.save(tasks); err != nil {
		return Task{}, err
	}
	slog.Debug("task added", "text", t.Text, "category", t.Category, "priority", t.Priority)
	return t, nil
}

// SetCompleted updates the first task matching key. It reports whether a
// task matched; nothing is written when none did.
func (s *Store) SetCompleted(key Key, completed bool) (bool, error) {
	tasks, err := s.Load()
	if err != nil {
		return false, err
	}
	for i := range tasks {
		if !key.matches(tasks[i]) {
			continue
		}
		tasks[i].Completed = completed
		if err := s.save(tasks); err != nil {
			return false, err
		}
		slog.Debug("task completion set", "text", key.Text, "completed", completed)
		return true, nil
	}
	return false, nil
}

// Remove deletes every task matching key and returns how many went.
func (s *Store) Remove(key Key) (int, error) {
	return s.removeWhere(key.matches)
}

// RemoveCompleted deletes every completed task. Identity is the key, so a
// pending task sharing a key with a completed one is deleted too.
func (s *Store) RemoveCompleted() (int, error) {
	tasks, err := s.Load()
	if err != nil {
		return 0, err
	}
	done := map[Key]struct{}{}
	for _, t := range tasks {
		if t.Completed {
			done[t.Key()] = struct{}{}
		}
	}
	if len(done) == 0 {
		return 0, nil
	}
	return s.removeWhere(func(t Task) bool {
		_, ok := done[t.Key()]
		return ok
	})
}

// RemoveCategory deletes every task filed under category.
func (s *Store) RemoveCategory(category string) (int, error) {
	return s.removeWhere(func(t Task) bool { return t.Category == category })
}

func (s *Store) removeWhere(drop func(Task) bool) (int, error) {
	tasks, err := s.Load()
	if err != nil {
		return 0, err
	}
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if drop(t) {
			continue
		}
		kept = append(kept, t)
	}
	removed := len(tasks) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(kept); err != nil {
		return 0, err
	}
	slog.Debug("tasks removed", "count", removed)
	return removed, nil
}
