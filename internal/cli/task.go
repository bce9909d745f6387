package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/app"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

func newAddCmd(rt *runtime) *cobra.Command {
	var categoryID, priority string
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Long: `Add a task. Words are joined with spaces.

Examples:
  todo add buy milk -c shopping -p low
  todo add "quarterly report" --priority urgent`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if categoryID == "" {
				categoryID = rt.cfg.DefaultCategory
			}
			if priority == "" {
				priority = rt.cfg.DefaultPriority
			}
			p, err := task.ParsePriority(priority)
			if err != nil {
				return err
			}
			t, err := rt.session.AddTask(strings.Join(args, " "), categoryID, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q [%s, %s]\n", t.Text, rt.session.CategoryDisplay(t.Category), t.Priority.Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "category id (default from config)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium, high or urgent (default from config)")
	return cmd
}

type listedTask struct {
	N         int    `json:"n"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

type listOutput struct {
	Title     string       `json:"title"`
	Completed int          `json:"completed"`
	Visible   int          `json:"visible"`
	Tasks     []listedTask `json:"tasks"`
}

func newListCmd(rt *runtime) *cobra.Command {
	var vf viewFlags
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks under a category and priority filter.

The numbers shown are what done, undo and rm take, given the same
--category, --priority and --sort flags.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vf.apply(rt); err != nil {
				return err
			}
			rows := rt.session.Rows()
			summary := view.Summarize(rows)
			if jsonOutput {
				out := listOutput{
					Title:     rt.session.Title(),
					Completed: summary.Completed,
					Visible:   summary.Visible,
					Tasks:     make([]listedTask, 0, len(rows)),
				}
				for i, r := range rows {
					out.Tasks = append(out.Tasks, listedTask{
						N:         i + 1,
						Text:      r.Task.Text,
						Category:  r.Task.Category,
						Priority:  string(r.Task.Priority),
						Completed: r.Task.Completed,
						CreatedAt: r.Task.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
					})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			printRows(cmd.OutOrStdout(), rt, rows, summary)
			return nil
		},
	}
	vf.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func printRows(w io.Writer, rt *runtime, rows []view.Row, summary view.Summary) {
	fmt.Fprintf(w, "%s (%s)\n", rt.session.Title(), summary)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	for i, r := range rows {
		check := "[ ]"
		if r.Task.Completed {
			check = "[x]"
		}
		fmt.Fprintf(w, "%3d. %s %s  %s  %s\n", i+1, check, r.Task.Text,
			rt.session.CategoryDisplay(r.Task.Category), r.Task.Priority.Label())
	}
}

func newDoneCmd(rt *runtime, completed bool) *cobra.Command {
	var vf viewFlags
	use, short, verb := "done N", "Mark a task completed", "Completed"
	if !completed {
		use, short, verb = "undo N", "Mark a task pending again", "Reopened"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vf.apply(rt); err != nil {
				return err
			}
			row, err := resolveRow(rt, args[0])
			if err != nil {
				return err
			}
			if _, err := rt.session.SetCompleted(row.Task.Key(), completed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", verb, row.Task.Text)
			return nil
		},
	}
	vf.register(cmd)
	return cmd
}

func newRemoveCmd(rt *runtime) *cobra.Command {
	var vf viewFlags
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm N",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long: `Delete the task at position N. Tasks with the same text, category and
priority are indistinguishable and are deleted together.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vf.apply(rt); err != nil {
				return err
			}
			row, err := resolveRow(rt, args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Delete %q?", row.Task.Text))
				if err != nil || !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return err
				}
			}
			n, err := rt.session.DeleteTask(row.Task.Key())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%d removed)\n", row.Task.Text, n)
			return nil
		},
	}
	vf.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func newClearCmd(rt *runtime) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := rt.session.CompletedCount()
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No completed tasks")
				return nil
			}
			if !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Delete %d completed tasks?", n))
				if err != nil || !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return err
				}
			}
			removed, err := rt.session.ClearCompleted()
			if errors.Is(err, app.ErrNoCompleted) {
				fmt.Fprintln(cmd.OutOrStdout(), "No completed tasks")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed tasks\n", removed)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}
