package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tasklist/internal/task"
)

func newExportCmd(rt *runtime) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every task to a file",
		Long: `Export every task, whatever the filter, as JSON or YAML.

Without --out the file is written to export_dir from the config as
tasks-YYYY-MM-DD.json (or .yaml). Use --out - to write to stdout.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := task.ParseFormat(format)
			if err != nil {
				return err
			}
			switch out {
			case "":
				path, err := rt.session.ExportFile(rt.cfg.ExportDir, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			case "-":
				return rt.session.Export(cmd.OutOrStdout(), f)
			}
			if len(rt.session.Tasks()) == 0 {
				return task.ErrNothingToExport
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := rt.session.Export(file, f); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path, or - for stdout")
	return cmd
}

func newImportCmd(rt *runtime) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Append tasks from an export file",
		Long: `Append the tasks in FILE after the stored ones. The format follows the
file extension unless --format is given.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := task.FormatFromPath(args[0])
			if format != "" {
				parsed, err := task.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			n, err := rt.session.Import(file, f)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from the file extension)")
	return cmd
}
