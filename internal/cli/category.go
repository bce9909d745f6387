package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tasklist/internal/category"
)

func newCategoryCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newCategoryListCmd(rt))
	cmd.AddCommand(newCategoryAddCmd(rt))
	cmd.AddCommand(newCategoryRemoveCmd(rt))
	return cmd
}

func newCategoryListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories with their pending task counts",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := rt.session.Categories()
			if err != nil {
				return err
			}
			counts, err := rt.session.Counts()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPENDING\tKIND")
			for _, c := range cats {
				kind := "default"
				if c.Custom {
					kind = "custom"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.ID, c.Display(), counts[c.ID], kind)
			}
			return w.Flush()
		},
	}
}

func newCategoryAddCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a custom category",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.session.AddCategory(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s (id %s)\n", c.Display(), c.ID)
			return nil
		},
	}
}

func newCategoryRemoveCmd(rt *runtime) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a custom category and all of its tasks",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := checkCustom(rt, id); err != nil {
				return err
			}
			if !yes {
				prompt := fmt.Sprintf("Delete category %q and its %d tasks?",
					rt.session.CategoryName(id), rt.session.DeleteCategoryImpact(id))
				ok, err := confirm(cmd, prompt)
				if err != nil || !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return err
				}
			}
			n, err := rt.session.DeleteCategory(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s and %d tasks\n", id, n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func checkCustom(rt *runtime, id string) error {
	cats, err := rt.session.Categories()
	if err != nil {
		return err
	}
	for _, c := range cats {
		if c.ID != id {
			continue
		}
		if !c.Custom {
			return fmt.Errorf("%w: %s", category.ErrNotCustom, id)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", category.ErrNotFound, id)
}
