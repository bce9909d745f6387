package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tasklist/internal/view"
)

// viewFlags select the list a row number refers to.
type viewFlags struct {
	category string
	priority string
	sort     string
}

func (v *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&v.category, "category", "c", view.Any, "category id to show, or all")
	cmd.Flags().StringVarP(&v.priority, "priority", "p", view.Any, "priority to show (low, medium, high, urgent), or all")
	cmd.Flags().StringVarP(&v.sort, "sort", "s", "", "sort order: default, priority or name (default from config)")
}

func (v viewFlags) apply(rt *runtime) error {
	if err := rt.session.SelectCategory(v.category); err != nil {
		return err
	}
	if err := rt.session.SelectPriority(v.priority); err != nil {
		return err
	}
	if v.sort != "" {
		mode, err := view.ParseSortMode(v.sort)
		if err != nil {
			return err
		}
		rt.session.SetSort(mode)
	}
	return nil
}

// resolveRow turns a 1-based position in the current view into its row.
func resolveRow(rt *runtime, arg string) (view.Row, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return view.Row{}, fmt.Errorf("%w: task number must be a positive integer, got %q", ErrUsage, arg)
	}
	rows := rt.session.Rows()
	if n > len(rows) {
		return view.Row{}, fmt.Errorf("%w: %d (the list has %d)", ErrRowNotFound, n, len(rows))
	}
	return rows[n-1], nil
}

// confirm asks a y/N question on the command's streams. Anything but y or
// yes is a no.
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(cmd.OutOrStdout())
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return nil
	}
}
