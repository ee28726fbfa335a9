package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-gantt/internal/application/render"
	"github.com/penwyp/go-gantt/internal/presentation/formatter"
	"github.com/penwyp/go-gantt/internal/util"
)

func newInspectCmd(o *cliOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the normalized timeline rows",
		Long: `Loads and normalizes the sources exactly as a render would and prints the rows
in their final top-to-bottom order.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := buildConfig(cmd, o)
			if err != nil {
				return err
			}
			defer util.SetLogger(nil)

			orchestrator, err := render.NewOrchestrator(config, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			rows, err := orchestrator.Rows(cmd.Context())
			if err != nil {
				return err
			}
			views := formatter.NewRowViews(rows)

			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "table":
				return formatter.NewTableFormatter(out).FormatRows(views)
			case "json":
				return formatter.NewJSONFormatter(out).FormatRows(views)
			case "csv":
				return formatter.NewCSVFormatter(out).FormatRows(views)
			default:
				return fmt.Errorf("unknown inspect format %q (supported: table, json, csv)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "table",
		"Output format (table, json, csv)")
	return cmd
}
