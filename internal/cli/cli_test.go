package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/category"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

type harness struct {
	t      *testing.T
	dir    string
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{t: t, dir: dir, config: filepath.Join(dir, "config.toml")}
}

// run executes one invocation, feeding stdin to any prompt.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append([]string{"--config", h.config}, args...)
	err := Run(full, strings.NewReader(stdin), &out, &errOut, "test")
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) list(args ...string) listOutput {
	h.t.Helper()
	out := h.mustRun(append([]string{"list", "--json"}, args...)...)
	var got listOutput
	require.NoError(h.t, json.Unmarshal([]byte(out), &got))
	return got
}

func TestFirstRunWritesConfig(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("list")

	assert.Contains(t, out, "📋 All Tasks (0/0 completed)")
	assert.Contains(t, out, "No tasks")
	assert.FileExists(t, h.config)
	assert.FileExists(t, filepath.Join(h.dir, "todo.db"))
}

func TestAddUsesConfigDefaults(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "write", "report")
	assert.Equal(t, "Added \"write report\" [💼 Work, Medium]\n", out)

	h.mustRun("add", "milk", "-c", "shopping", "-p", "LOW")

	got := h.list()
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "write report", got.Tasks[0].Text)
	assert.Equal(t, "work", got.Tasks[0].Category)
	assert.Equal(t, "medium", got.Tasks[0].Priority)
	assert.Equal(t, "shopping", got.Tasks[1].Category)
	assert.Equal(t, "low", got.Tasks[1].Priority)
}

func TestAddErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "add")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Equal(t, ExitUsage, ExitCode(err))

	_, err = h.run("", "add", "x", "-p", "someday")
	assert.ErrorIs(t, err, task.ErrInvalidPriority)
	assert.Equal(t, ExitValidation, ExitCode(err))

	_, err = h.run("", "add", "x", "-c", "garden")
	assert.ErrorIs(t, err, category.ErrNotFound)
	assert.Equal(t, ExitNotFound, ExitCode(err))

	_, err = h.run("", "add", "   ")
	assert.ErrorIs(t, err, task.ErrEmptyText)

	_, err = h.run("", "list", "--bogus")
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestListFiltersAndSorts(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "zebra", "-p", "urgent")
	h.mustRun("add", "apple", "-p", "low")
	h.mustRun("add", "mango", "-c", "shopping", "-p", "high")

	got := h.list("--sort", "priority")
	texts := []string{}
	for _, lt := range got.Tasks {
		texts = append(texts, lt.Text)
	}
	assert.Equal(t, []string{"zebra", "mango", "apple"}, texts)

	got = h.list("-c", "work", "-s", "name")
	assert.Equal(t, "💼 Work Tasks", got.Title)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "apple", got.Tasks[0].Text)

	got = h.list("-p", "high")
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "mango", got.Tasks[0].Text)

	_, err := h.run("", "list", "-s", "random")
	assert.ErrorIs(t, err, view.ErrInvalidSort)
}

func TestDoneAndUndoFollowTheView(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "first")
	h.mustRun("add", "second", "-c", "health")

	out := h.mustRun("done", "1", "-c", "health")
	assert.Equal(t, "Completed \"second\"\n", out)

	got := h.list()
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 2, got.Visible)
	assert.False(t, got.Tasks[0].Completed)
	assert.True(t, got.Tasks[1].Completed)

	out = h.mustRun("list")
	assert.Contains(t, out, "  2. [x] second  🏥 Health  Medium")

	h.mustRun("undo", "2")
	assert.Equal(t, 0, h.list().Completed)

	_, err := h.run("", "done", "3")
	assert.ErrorIs(t, err, ErrRowNotFound)
	assert.Equal(t, ExitNotFound, ExitCode(err))

	_, err = h.run("", "done", "zero")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestRemoveConfirms(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "dup")
	h.mustRun("add", "dup")
	h.mustRun("add", "keep")

	out, err := h.run("n\n", "rm", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
	assert.Len(t, h.list().Tasks, 3)

	out, err = h.run("y\n", "rm", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted \"dup\" (2 removed)")

	got := h.list()
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "keep", got.Tasks[0].Text)

	out = h.mustRun("rm", "1", "--yes")
	assert.Contains(t, out, "Deleted \"keep\"")
}

func TestClear(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "No completed tasks\n", h.mustRun("clear"))

	h.mustRun("add", "a")
	h.mustRun("add", "b", "-c", "personal")
	h.mustRun("done", "1")
	h.mustRun("done", "2")

	out, err := h.run("", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")

	out = h.mustRun("clear", "-y")
	assert.Equal(t, "Cleared 2 completed tasks\n", out)
	assert.Empty(t, h.list().Tasks)
}

func TestCategoryCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("category", "add", "Side", "Projects")
	assert.Equal(t, "Added category 📁 Side Projects (id side-projects)\n", out)

	_, err := h.run("", "category", "add", "side projects")
	assert.ErrorIs(t, err, category.ErrExists)
	assert.Equal(t, ExitValidation, ExitCode(err))

	h.mustRun("add", "ship v2", "-c", "side-projects")
	h.mustRun("add", "blog", "-c", "side-projects")

	out = h.mustRun("category", "list")
	assert.Contains(t, out, "side-projects")
	assert.Contains(t, out, "custom")
	assert.Regexp(t, `side-projects\s+📁 Side Projects\s+2\s+custom`, out)

	_, err = h.run("", "category", "rm", "work")
	assert.ErrorIs(t, err, category.ErrNotCustom)

	_, err = h.run("", "category", "rm", "nope")
	assert.ErrorIs(t, err, category.ErrNotFound)

	out, err = h.run("yes\n", "category", "rm", "side-projects")
	require.NoError(t, err)
	assert.Contains(t, out, `Delete category "Side Projects" and its 2 tasks?`)
	assert.Contains(t, out, "Deleted category side-projects and 2 tasks")

	assert.Empty(t, h.list().Tasks)
	assert.NotContains(t, h.mustRun("category", "list"), "side-projects")
}

func TestExportAndImport(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "export", "-o", "-")
	assert.ErrorIs(t, err, task.ErrNothingToExport)

	h.mustRun("add", "one", "-p", "high")
	h.mustRun("add", "two", "-c", "personal")
	h.mustRun("done", "2")

	stdout := h.mustRun("export", "-o", "-")
	assert.Contains(t, stdout, `"text": "one"`)
	assert.Contains(t, stdout, `"completed": true`)

	path := filepath.Join(h.dir, "backup.yaml")
	out := h.mustRun("export", "-f", "yaml", "-o", path)
	assert.Equal(t, fmt.Sprintf("Exported to %s\n", path), out)

	other := newHarness(t)
	out = other.mustRun("import", path)
	assert.Equal(t, "Imported 2 tasks\n", out)

	got := other.list()
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "one", got.Tasks[0].Text)
	assert.Equal(t, "high", got.Tasks[0].Priority)
	assert.True(t, got.Tasks[1].Completed)

	_, err = h.run("", "export", "-f", "csv", "-o", "-")
	assert.ErrorIs(t, err, task.ErrUnsupportedFormat)
}

func TestImportRejectsBadRecords(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"text":"ok","priority":"low"},{"text":"","priority":"low"}]`), 0o644))

	_, err := h.run("", "import", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, task.ErrEmptyText)
	assert.Contains(t, err.Error(), "record 2")
	assert.Empty(t, h.list().Tasks)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitError, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitUsage, ExitCode(fmt.Errorf("wrapped: %w", ErrUsage)))
	assert.Equal(t, ExitValidation, ExitCode(category.ErrEmptyName))
}
