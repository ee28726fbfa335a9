package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-gantt/internal/application/render"
	"github.com/penwyp/go-gantt/internal/data/parser"
	"github.com/penwyp/go-gantt/internal/util"
)

func newSourcesCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "sources",
		Short:        "List the sources a render would use",
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

			specs, err := orchestrator.ResolveSources()
			if err != nil {
				return err
			}

			loader, err := parser.NewLoader(parser.Options{Concurrency: config.Workers})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, spec := range specs {
				group, err := loader.LoadGroupName(spec.Path)
				if err != nil {
					fmt.Fprintf(out, "%-6s %s  error: %v\n", spec.Color, filepath.Base(spec.Path), err)
					continue
				}
				records, err := loader.LoadRecords(spec.Path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-6s %s  %q  %d tasks\n", spec.Color, filepath.Base(spec.Path), group, len(records))
			}
			return nil
		},
	}
}
