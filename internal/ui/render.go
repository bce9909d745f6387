package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/config"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	activeStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle     = lipgloss.NewStyle().Faint(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	statusStyle    = lipgloss.NewStyle().Italic(true)

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.Urgent: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.High:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.Medium: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		task.Low:    lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
	}
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.session.Title()))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(m.session.Summary().String()))
	b.WriteString("\n")
	b.WriteString(m.renderCategoryBar())
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString("No tasks here. Press '" + keyLabel(m.cfg.Keys.Add) + "' to add one.\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	switch m.mode {
	case modeAdd:
		b.WriteString("\nAdd Task: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Category: %s  Priority: %s\n",
			m.session.CategoryDisplay(m.draftCat), renderPriority(m.draftPrio)))
	case modeAddCategory:
		b.WriteString("\nNew Category: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func (m Model) renderCategoryBar() string {
	active := m.session.Filter().Category
	parts := make([]string, 0, len(m.categories)+1)
	entry := func(id, label string) string {
		s := fmt.Sprintf("%s (%d)", label, m.counts[id])
		if id == active {
			return activeStyle.Render(s)
		}
		return s
	}
	parts = append(parts, entry(view.Any, "📋 All"))
	for _, c := range m.categories {
		parts = append(parts, entry(c.ID, c.Display()))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFilterLine() string {
	return mutedStyle.Render(fmt.Sprintf("priority: %s • sort: %s",
		priorityFilterLabel(m.session.Filter().Priority), m.session.Sort()))
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, r := range m.rows {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}

		checkbox := "[ ]"
		text := r.Task.Text
		if r.Task.Completed {
			checkbox = "[x]"
			text = completedStyle.Render(text)
		}

		b.WriteString(fmt.Sprintf("%s %s %s  %s  %s\n",
			cursor, checkbox, text,
			mutedStyle.Render(m.session.CategoryDisplay(r.Task.Category)),
			renderPriority(r.Task.Priority)))
	}
	return b.String()
}

func renderPriority(p task.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		return p.Label()
	}
	return style.Render(p.Label())
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s toggle • %s delete • %s/%s category • %s priority • %s sort • %s new category • %s delete category • %s clear done • %s export • %s quit",
		keyLabel(k.Up), keyLabel(k.Down), keyLabel(k.Add), keyLabel(k.Toggle), keyLabel(k.Delete),
		keyLabel(k.PrevCategory), keyLabel(k.NextCategory), keyLabel(k.CyclePriority), keyLabel(k.CycleSort),
		keyLabel(k.NewCategory), keyLabel(k.DeleteCategory), keyLabel(k.ClearCompleted), keyLabel(k.Export), keyLabel(k.Quit))
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
