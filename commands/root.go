package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-gantt/internal/application/render"
	"github.com/penwyp/go-gantt/internal/presentation/display"
	"github.com/penwyp/go-gantt/internal/util"
)

// cliOptions holds every flag of the root command and its subcommands.
type cliOptions struct {
	// Logging related
	debug   bool
	logFile string

	// Input
	configPath    string
	dataDir       string
	sourcePattern string
	onMalformed   string

	// Chart
	epoch        string
	labelWidth   int
	today        string
	timezone     string
	grouped      bool
	sortScope    string
	strictColors bool

	// Output
	format     string
	outDir     string
	selections []string
	show       bool
	width      int
	workers    int
	watch      bool
}

var (
	opts    = &cliOptions{}
	rootCmd = newRootCmd(opts)
)

const (
	defaultLogFile = "~/.go-gantt/logs/app.log"
)

func newRootCmd(o *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "go-gantt [flags]",
		Short: "Render project timelines as Gantt charts",
		Long: `go-gantt renders a project timeline from CSV task sources.

Each source file holds one group of tasks: the first row carries the group name,
the second row is a header and every following row is label,start,end with
YYYY-MM-DD dates. One chart is rendered per highlight selection; tasks of other
groups are dimmed.

Examples:
  go-gantt                                   # Render every selection as SVG in the current directory
  go-gantt --dir ./plans --out-dir ./charts  # Read sources from ./plans, write charts to ./charts
  go-gantt --show --selection full           # Print the full chart to the terminal
  go-gantt --grouped --format json           # Add group header rows, write draw plans as JSON
  go-gantt --config gantt.yaml --watch       # Re-render whenever a source changes`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, o)
		},
	}

	// Input data configuration
	cmd.PersistentFlags().StringVar(&o.configPath, "config", "",
		"YAML config file")
	cmd.PersistentFlags().StringVar(&o.dataDir, "dir", ".",
		"Directory holding the CSV sources")
	cmd.PersistentFlags().StringVar(&o.sourcePattern, "pattern", "",
		"Glob for source file names when no sources are configured (default *.csv)")
	cmd.PersistentFlags().StringVar(&o.onMalformed, "on-malformed", "",
		"What to do with tasks ending before they start (abort, skip)")

	// Chart configuration
	cmd.PersistentFlags().StringVar(&o.epoch, "epoch", "",
		"First day of the chart (YYYY-MM-DD, default 2020-07-01)")
	cmd.PersistentFlags().IntVar(&o.labelWidth, "label-width", 0,
		"Width reserved for task labels, in days (default 300)")
	cmd.PersistentFlags().StringVar(&o.today, "today", "",
		"Date of the today marker (YYYY-MM-DD, default: current date)")
	cmd.PersistentFlags().StringVar(&o.timezone, "timezone", "Local",
		"Timezone used to determine today (e.g., Asia/Shanghai, UTC)")
	cmd.PersistentFlags().BoolVar(&o.grouped, "grouped", false,
		"Append a group header row after each source")
	cmd.PersistentFlags().StringVar(&o.sortScope, "sort-scope", "",
		"Sort tasks per source or across all sources (source, global)")
	cmd.PersistentFlags().BoolVar(&o.strictColors, "strict-colors", false,
		"Fail when one group is drawn with two colors")
	cmd.PersistentFlags().IntVar(&o.workers, "workers", 0,
		"Parallel loads and renders (default 4)")

	// Output configuration
	cmd.Flags().StringVarP(&o.format, "format", "o", "",
		"Output format ("+strings.Join(display.Formats(), ", ")+")")
	cmd.Flags().StringVar(&o.outDir, "out-dir", "",
		"Directory for rendered files (default .)")
	cmd.Flags().StringSliceVar(&o.selections, "selection", nil,
		"Only render the named selections (repeatable)")
	cmd.Flags().BoolVar(&o.show, "show", false,
		"Print charts to the terminal instead of writing files")
	cmd.Flags().IntVar(&o.width, "width", 0,
		"Terminal chart width (default: terminal size)")
	cmd.Flags().BoolVarP(&o.watch, "watch", "w", false,
		"Re-render when a source file changes")

	// System and debugging
	cmd.PersistentFlags().BoolVar(&o.debug, "debug", false,
		"Enable debug mode")
	cmd.PersistentFlags().StringVar(&o.logFile, "log-file", defaultLogFile,
		"Log file path (empty disables file logging)")

	cmd.AddCommand(newInspectCmd(o), newSourcesCmd(o))
	return cmd
}

func runRender(cmd *cobra.Command, o *cliOptions) error {
	config, err := buildConfig(cmd, o)
	if err != nil {
		return err
	}
	defer util.SetLogger(nil)

	orchestrator, err := render.NewOrchestrator(config, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if o.watch {
		return orchestrator.Watch(ctx, func(results []render.Result, err error) {
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "render failed: %v\n", err)
				return
			}
			printResults(cmd, results)
		})
	}

	results, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}
	printResults(cmd, results)
	return nil
}

func printResults(cmd *cobra.Command, results []render.Result) {
	for _, r := range results {
		if r.Path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s\n", r.Selection, r.Path)
		}
	}
}

// buildConfig initializes logging, loads the config file and applies every
// flag that was set explicitly.
func buildConfig(cmd *cobra.Command, o *cliOptions) (*render.Config, error) {
	if err := initLogging(o); err != nil {
		return nil, err
	}

	configPath := o.configPath
	if configPath != "" {
		configPath = expandPath(configPath)
	}
	config, err := render.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") || config.DataDir == "" {
		config.DataDir = o.dataDir
	}
	config.DataDir = expandPath(config.DataDir)

	if flags.Changed("pattern") {
		config.SourcePattern = o.sourcePattern
	}
	if flags.Changed("on-malformed") {
		config.OnMalformed = o.onMalformed
	}
	if flags.Changed("epoch") {
		config.Epoch = o.epoch
	}
	if flags.Changed("label-width") {
		config.LabelWidth = o.labelWidth
	}
	if flags.Changed("today") {
		config.Today = o.today
	}
	if flags.Changed("timezone") {
		config.Timezone = o.timezone
	}
	if flags.Changed("grouped") {
		config.Grouped = o.grouped
	}
	if flags.Changed("sort-scope") {
		config.SortScope = o.sortScope
	}
	if flags.Changed("strict-colors") {
		config.StrictColors = o.strictColors
	}
	if flags.Changed("workers") {
		config.Workers = o.workers
	}
	// Output flags are local to the root command
	if !cmd.HasParent() {
		if flags.Changed("format") {
			config.Output.Format = o.format
		}
		if flags.Changed("out-dir") {
			config.Output.Dir = o.outDir
		}
		if flags.Changed("width") {
			config.TerminalWidth = o.width
		}
	}
	if config.Output.Dir != "" {
		config.Output.Dir = expandPath(config.Output.Dir)
	}

	config.Only = o.selections
	config.Show = o.show

	if err := util.InitializeTimeProvider(config.Timezone); err != nil {
		return nil, err
	}

	return config, nil
}

func initLogging(o *cliOptions) error {
	logLevel := "info"
	if o.debug {
		logLevel = "debug"
	}

	logFile := ""
	if o.logFile != "" {
		logFile = expandPath(o.logFile)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	return util.InitLogger(util.LoggerOptions{
		Level:   logLevel,
		File:    logFile,
		Console: o.debug,
	})
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
