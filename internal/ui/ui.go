package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/app"
	"tasklist/internal/category"
	"tasklist/internal/config"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeAddCategory
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDeleteTask
	confirmDeleteCategory
	confirmClearCompleted
)

type Model struct {
	session    *app.Session
	cfg        config.Config
	rows       []view.Row
	categories []category.Category
	counts     map[string]int
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	confirm    confirmKind
	pendingRow *view.Row
	pendingCat string
	draftCat   string
	draftPrio  task.Priority
}

func New(session *app.Session, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Task"
	ti.CharLimit = 256
	ti.Width = 40

	status := fmt.Sprintf("Press '%s' to add, %s to toggle, '%s' to delete.",
		keyLabel(cfg.Keys.Add), keyLabel(cfg.Keys.Toggle), keyLabel(cfg.Keys.Delete))

	m := Model{
		session: session,
		cfg:     cfg,
		input:   ti,
		mode:    modeList,
		status:  status,
	}
	m.refresh()
	return m
}

// Run opens the interactive list. A non-empty status replaces the opening
// hint.
func Run(session *app.Session, cfg config.Config, status string) error {
	m := New(session, cfg)
	if status != "" {
		m.status = status
	}
	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.updateConfirm(msg.String())
		}
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeAddCategory:
			return m.updateAddCategoryMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

// refresh re-projects the session onto the screen state.
func (m *Model) refresh() {
	m.rows = m.session.Rows()
	cats, err := m.session.Categories()
	if err != nil {
		m.status = fmt.Sprintf("load categories failed: %v", err)
		cats = category.Defaults()
	}
	m.categories = cats
	counts, err := m.session.Counts()
	if err != nil {
		counts = map[string]int{}
	}
	m.counts = counts
	m.cursor = clampCursor(m.cursor, len(m.rows))
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		if len(m.rows) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.rows))
	case k.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.rows))
		}
	case k.Add:
		return m.startAdd()
	case k.Toggle:
		if len(m.rows) == 0 {
			return m, nil
		}
		row := m.rows[m.cursor]
		if _, err := m.session.Toggle(row); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.refresh()
		if row.Task.Completed {
			m.status = "Marked pending"
		} else {
			m.status = "Marked done"
		}
	case k.Delete:
		if len(m.rows) == 0 {
			return m, nil
		}
		row := m.rows[m.cursor]
		m.confirm = confirmDeleteTask
		m.pendingRow = &row
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", row.Task.Text)
	case k.NextCategory, "right":
		return m.shiftCategory(1)
	case k.PrevCategory, "left":
		return m.shiftCategory(-1)
	case k.CyclePriority:
		next := nextPriorityFilter(m.session.Filter().Priority)
		if err := m.session.SelectPriority(next); err != nil {
			m.status = fmt.Sprintf("filter failed: %v", err)
			return m, nil
		}
		m.cursor = 0
		m.refresh()
		m.status = "Priority: " + priorityFilterLabel(next)
	case k.CycleSort:
		m.session.SetSort(m.session.Sort().Next())
		m.refresh()
		m.status = "Sort: " + string(m.session.Sort())
	case k.NewCategory:
		m.mode = modeAddCategory
		m.input.SetValue("")
		m.input.Placeholder = "Category name"
		m.input.Focus()
		m.status = "New category: type a name and press Enter"
	case k.DeleteCategory:
		id := m.session.Filter().Category
		c, ok := m.lookupCategory(id)
		if !ok || !c.Custom {
			m.status = "Select a custom category to delete it"
			return m, nil
		}
		m.confirm = confirmDeleteCategory
		m.pendingCat = id
		m.status = deleteCategoryPrompt(c.Name, m.session.DeleteCategoryImpact(id))
	case k.ClearCompleted:
		n := m.session.CompletedCount()
		if n == 0 {
			m.status = "No completed tasks"
			return m, nil
		}
		m.confirm = confirmClearCompleted
		m.status = fmt.Sprintf("Delete %d completed tasks? y/n", n)
	case k.Export:
		path, err := m.session.ExportFile(m.cfg.ExportDir, task.FormatJSON)
		if errors.Is(err, task.ErrNothingToExport) {
			m.status = "No tasks to export"
			return m, nil
		}
		if err != nil {
			m.status = fmt.Sprintf("export failed: %v", err)
			return m, nil
		}
		m.status = "Exported to " + path
	}
	return m, nil
}

func (m Model) shiftCategory(delta int) (tea.Model, tea.Cmd) {
	ids := []string{view.Any}
	for _, c := range m.categories {
		ids = append(ids, c.ID)
	}
	cur := indexOf(ids, m.session.Filter().Category)
	next := ids[wrapIndex(cur+delta, len(ids))]
	if err := m.session.SelectCategory(next); err != nil {
		m.status = fmt.Sprintf("filter failed: %v", err)
		return m, nil
	}
	m.cursor = 0
	m.refresh()
	m.status = m.session.Title()
	return m, nil
}

func (m Model) startAdd() (tea.Model, tea.Cmd) {
	m.mode = modeAdd
	m.input.SetValue("")
	m.input.Placeholder = "Task"
	m.input.Focus()

	m.draftCat = m.session.Filter().Category
	if _, ok := m.lookupCategory(m.draftCat); !ok {
		m.draftCat = m.cfg.DefaultCategory
	}
	if _, ok := m.lookupCategory(m.draftCat); !ok && len(m.categories) > 0 {
		m.draftCat = m.categories[0].ID
	}
	p, err := task.ParsePriority(m.cfg.DefaultPriority)
	if err != nil {
		p = task.Medium
	}
	m.draftPrio = p
	m.status = "Add mode: type a task, tab for category, ctrl+p for priority, Enter to save"
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case "tab", "shift+tab":
		delta := 1
		if key == "shift+tab" {
			delta = -1
		}
		ids := make([]string, 0, len(m.categories))
		for _, c := range m.categories {
			ids = append(ids, c.ID)
		}
		if len(ids) > 0 {
			m.draftCat = ids[wrapIndex(indexOf(ids, m.draftCat)+delta, len(ids))]
		}
		return m, nil
	case "ctrl+p":
		m.draftPrio = m.draftPrio.Next()
		return m, nil
	case m.cfg.Keys.Confirm:
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			m.status = "Please enter a task"
			return m, nil
		}
		if _, err := m.session.AddTask(text, m.draftCat, m.draftPrio); err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = "Added task"
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateAddCategoryMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeList
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		c, err := m.session.AddCategory(m.input.Value())
		switch {
		case errors.Is(err, category.ErrEmptyName):
			m.status = "Please enter a category name"
			return m, nil
		case errors.Is(err, category.ErrExists):
			m.status = "This category already exists"
			return m, nil
		case err != nil:
			m.status = fmt.Sprintf("save failed: %v", err)
			return m, nil
		}
		m.refresh()
		m.status = "Added category " + c.Display()
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Cancelled"
		m.clearConfirm()
		return m, nil
	case "y", "Y":
	default:
		return m, nil
	}

	kind, row, catID := m.confirm, m.pendingRow, m.pendingCat
	m.clearConfirm()
	switch kind {
	case confirmDeleteTask:
		if row == nil {
			m.status = "Nothing to delete"
			return m, nil
		}
		if _, err := m.session.DeleteTask(row.Task.Key()); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.status = "Deleted task"
	case confirmDeleteCategory:
		name := m.session.CategoryName(catID)
		n, err := m.session.DeleteCategory(catID)
		if err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			return m, nil
		}
		m.status = fmt.Sprintf("Deleted category %s and %d tasks", name, n)
	case confirmClearCompleted:
		n, err := m.session.ClearCompleted()
		if err != nil {
			m.status = fmt.Sprintf("clear failed: %v", err)
			return m, nil
		}
		m.status = fmt.Sprintf("Cleared %d completed tasks", n)
	}
	m.refresh()
	return m, nil
}

func (m *Model) clearConfirm() {
	m.confirm = confirmNone
	m.pendingRow = nil
	m.pendingCat = ""
}

func (m Model) lookupCategory(id string) (category.Category, bool) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, true
		}
	}
	return category.Category{}, false
}

func deleteCategoryPrompt(name string, tasks int) string {
	msg := fmt.Sprintf("Delete category \"%s\"?", name)
	if tasks > 0 {
		msg += fmt.Sprintf(" It holds %d tasks, they will be deleted too.", tasks)
	}
	return msg + " y/n"
}

func nextPriorityFilter(cur string) string {
	order := []string{view.Any}
	for _, p := range task.Priorities() {
		order = append(order, string(p))
	}
	return order[wrapIndex(indexOf(order, cur)+1, len(order))]
}

func priorityFilterLabel(p string) string {
	if p == view.Any || p == "" {
		return "All"
	}
	return task.Priority(p).Label()
}

func indexOf(items []string, v string) int {
	for i, it := range items {
		if it == v {
			return i
		}
	}
	return 0
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
