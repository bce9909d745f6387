package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/app"
	"tasklist/internal/config"
	"tasklist/internal/storage"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

func setupModel(t *testing.T) (Model, *app.Session) {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.LoadOrCreate(filepath.Join(dir, config.DefaultConfigFileName))
	require.NoError(t, err)
	cfg.ExportDir = filepath.Join(dir, "exports")

	store, err := storage.Open(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	session, err := app.New(store)
	require.NoError(t, err)
	return New(session, cfg), session
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	ctrlP = tea.KeyMsg{Type: tea.KeyCtrlP}
)

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	var next tea.Model = m
	for _, msg := range msgs {
		next, _ = next.Update(msg)
	}
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func addTask(t *testing.T, m Model, text string, extra ...tea.Msg) Model {
	t.Helper()
	msgs := append([]tea.Msg{runes("a"), runes(text)}, extra...)
	msgs = append(msgs, enter)
	return press(t, m, msgs...)
}

func TestAddTaskFlow(t *testing.T) {
	m, session := setupModel(t)

	m = press(t, m, runes("a"))
	assert.Equal(t, modeAdd, m.mode)
	assert.Contains(t, m.View(), "Category: 💼 Work")

	m = press(t, m, runes("buy milk"), tab, ctrlP, enter)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Added task", m.status)

	tasks := session.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Text)
	assert.Equal(t, "personal", tasks[0].Category)
	assert.Equal(t, task.High, tasks[0].Priority)
	assert.Contains(t, m.View(), "buy milk")
}

func TestAddTaskRejectsEmpty(t *testing.T) {
	m, session := setupModel(t)

	m = press(t, m, runes("a"), enter)
	assert.Equal(t, modeAdd, m.mode)
	assert.Equal(t, "Please enter a task", m.status)

	m = press(t, m, esc)
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, session.Tasks())
}

func TestToggleAndSummary(t *testing.T) {
	m, session := setupModel(t)
	m = addTask(t, m, "stretch")

	m = press(t, m, space)
	assert.Equal(t, "Marked done", m.status)
	assert.True(t, session.Tasks()[0].Completed)
	assert.Contains(t, m.View(), "1/1 completed")

	m = press(t, m, space)
	assert.Equal(t, "Marked pending", m.status)
	assert.False(t, session.Tasks()[0].Completed)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, session := setupModel(t)
	m = addTask(t, m, "old")

	m = press(t, m, runes("d"))
	assert.Equal(t, `Delete "old"? y/n`, m.status)

	m = press(t, m, runes("n"))
	assert.Equal(t, "Cancelled", m.status)
	assert.Len(t, session.Tasks(), 1)

	m = press(t, m, runes("d"), runes("y"))
	assert.Equal(t, "Deleted task", m.status)
	assert.Empty(t, session.Tasks())
	assert.Equal(t, confirmNone, m.confirm)
}

func TestCategoryAndPriorityFilters(t *testing.T) {
	m, _ := setupModel(t)
	m = addTask(t, m, "report")
	m = addTask(t, m, "apples", tab, tab)

	m = press(t, m, runes("l"))
	assert.Equal(t, "work", m.session.Filter().Category)
	require.Len(t, m.rows, 1)
	assert.Equal(t, "report", m.rows[0].Task.Text)

	m = press(t, m, runes("h"))
	assert.Equal(t, view.Any, m.session.Filter().Category)
	assert.Len(t, m.rows, 2)

	m = press(t, m, runes("p"))
	assert.Equal(t, "low", m.session.Filter().Priority)
	assert.Empty(t, m.rows)
	assert.Contains(t, m.View(), "No tasks here")

	m = press(t, m, runes("p"))
	assert.Equal(t, "medium", m.session.Filter().Priority)
	assert.Len(t, m.rows, 2)
}

func TestSortCycle(t *testing.T) {
	m, _ := setupModel(t)
	m = addTask(t, m, "zebra", ctrlP, ctrlP)
	m = addTask(t, m, "apple")

	m = press(t, m, runes("s"))
	assert.Equal(t, view.SortPriority, m.session.Sort())
	assert.Equal(t, "zebra", m.rows[0].Task.Text)

	m = press(t, m, runes("s"))
	assert.Equal(t, view.SortName, m.session.Sort())
	assert.Equal(t, "apple", m.rows[0].Task.Text)
}

func TestCustomCategoryLifecycle(t *testing.T) {
	m, session := setupModel(t)

	m = press(t, m, runes("n"), runes("Garden"), enter)
	assert.Equal(t, "Added category 📁 Garden", m.status)

	m = press(t, m, runes("n"), runes("garden"), enter)
	assert.Equal(t, "This category already exists", m.status)
	m = press(t, m, esc)

	m = press(t, m, runes("h"))
	assert.Equal(t, "garden", m.session.Filter().Category)
	m = addTask(t, m, "weed beds")
	assert.Equal(t, "garden", session.Tasks()[0].Category)

	m = press(t, m, runes("D"))
	assert.Equal(t, `Delete category "Garden"? It holds 1 tasks, they will be deleted too. y/n`, m.status)

	m = press(t, m, runes("y"))
	assert.Equal(t, "Deleted category Garden and 1 tasks", m.status)
	assert.Equal(t, view.Any, m.session.Filter().Category)
	assert.Empty(t, session.Tasks())
	assert.Len(t, m.categories, 4)
	assert.NotContains(t, m.renderCategoryBar(), "Garden")
}

func TestDeleteDefaultCategoryRefused(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, runes("l"), runes("D"))
	assert.Equal(t, "Select a custom category to delete it", m.status)
	assert.Equal(t, confirmNone, m.confirm)
}

func TestClearCompleted(t *testing.T) {
	m, session := setupModel(t)

	m = press(t, m, runes("c"))
	assert.Equal(t, "No completed tasks", m.status)

	m = addTask(t, m, "one")
	m = addTask(t, m, "two")
	m = press(t, m, space)

	m = press(t, m, runes("c"))
	assert.Equal(t, "Delete 1 completed tasks? y/n", m.status)
	m = press(t, m, runes("y"))
	assert.Equal(t, "Cleared 1 completed tasks", m.status)
	require.Len(t, session.Tasks(), 1)
	assert.Equal(t, "two", session.Tasks()[0].Text)
}

func TestExport(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, runes("x"))
	assert.Equal(t, "No tasks to export", m.status)

	m = addTask(t, m, "ship it")
	m = press(t, m, runes("x"))
	require.True(t, strings.HasPrefix(m.status, "Exported to "), m.status)

	data, err := os.ReadFile(strings.TrimPrefix(m.status, "Exported to "))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ship it")
}

func TestCursorStaysInBounds(t *testing.T) {
	m, _ := setupModel(t)
	m = press(t, m, runes("j"), runes("k"))
	assert.Equal(t, 0, m.cursor)

	m = addTask(t, m, "a")
	m = addTask(t, m, "b")
	m = press(t, m, runes("j"), runes("j"), runes("j"))
	assert.Equal(t, 1, m.cursor)

	m = press(t, m, runes("d"), runes("y"))
	assert.Equal(t, 0, m.cursor)
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpShowsSpace(t *testing.T) {
	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), config.DefaultConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, renderHelp(cfg.Keys), "space toggle")
}

func TestPriorityFilterCycleWraps(t *testing.T) {
	cur := view.Any
	var seen []string
	for i := 0; i < 5; i++ {
		cur = nextPriorityFilter(cur)
		seen = append(seen, cur)
	}
	assert.Equal(t, []string{"low", "medium", "high", "urgent", view.Any}, seen)
}
