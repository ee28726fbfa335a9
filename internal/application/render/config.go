package render

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/penwyp/go-gantt/internal/core/constants"
	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/core/timeline"
	"github.com/penwyp/go-gantt/internal/data/parser"
	"github.com/penwyp/go-gantt/internal/data/scanner"
	"github.com/penwyp/go-gantt/internal/presentation/display"
	"github.com/penwyp/go-gantt/internal/util"
)

// SourceConfig is one source file and the color of its records. Relative
// files are resolved against the data directory.
type SourceConfig struct {
	File  string `yaml:"file"`
	Color string `yaml:"color"`
}

// SelectionConfig is one highlight selection. An empty output prints the
// chart to the terminal instead of writing a file.
type SelectionConfig struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
	Output string   `yaml:"output"`
}

// OutputConfig controls where rendered files go.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// SVGConfig maps onto display.SVGStyle.
type SVGConfig struct {
	Scale      float64           `yaml:"scale"`
	RowHeight  int               `yaml:"row_height"`
	FontFamily string            `yaml:"font_family"`
	FontSize   int               `yaml:"font_size"`
	Palette    map[string]string `yaml:"palette"`
}

// Config contains configuration for a render run
type Config struct {
	// Chart settings
	Epoch        string `yaml:"epoch"`
	LabelWidth   int    `yaml:"label_width"`
	Today        string `yaml:"today"`
	Timezone     string `yaml:"timezone"`
	Grouped      bool   `yaml:"grouped"`
	SortScope    string `yaml:"sort_scope"`
	StrictColors bool   `yaml:"strict_colors"`

	// Ingestion settings
	OnMalformed   string         `yaml:"on_malformed"`
	Workers       int            `yaml:"workers"`
	DataDir       string         `yaml:"data_dir"`
	SourcePattern string         `yaml:"source_pattern"`
	Sources       []SourceConfig `yaml:"sources"`

	// Output settings
	Selections    []SelectionConfig `yaml:"selections"`
	Output        OutputConfig      `yaml:"output"`
	SVG           SVGConfig         `yaml:"svg"`
	TerminalWidth int               `yaml:"terminal_width"`

	// Only renders the named selections when non-empty
	Only []string `yaml:"-"`
	// Show prints every selection to the terminal
	Show bool `yaml:"-"`

	epoch  model.Date
	today  model.Date
	scope  timeline.SortScope
	policy parser.MalformedPolicy
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Epoch:         constants.DefaultEpoch,
		LabelWidth:    constants.DefaultLabelWidth,
		Timezone:      "Local",
		SortScope:     string(timeline.ScopeSource),
		OnMalformed:   string(parser.MalformedAbort),
		Workers:       4,
		DataDir:       ".",
		SourcePattern: scanner.DefaultPattern,
		Output: OutputConfig{
			Dir:    ".",
			Format: display.FormatSVG,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. An empty path returns
// the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	util.LogDebugf("Loaded config from %s", path)
	return config, nil
}

// Validate fills defaults and checks every field
func (c *Config) Validate() error {
	if c.Epoch == "" {
		c.Epoch = constants.DefaultEpoch
	}
	epoch, err := model.ParseDate(c.Epoch)
	if err != nil {
		return fmt.Errorf("invalid epoch: %w", err)
	}
	c.epoch = epoch

	if c.LabelWidth == 0 {
		c.LabelWidth = constants.DefaultLabelWidth
	}
	if c.LabelWidth < 0 {
		return fmt.Errorf("label_width must be positive, got %d", c.LabelWidth)
	}

	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if _, err := util.NewTimeProvider(c.Timezone); err != nil {
		return err
	}

	c.today = model.Date{}
	if c.Today != "" {
		today, err := model.ParseDate(c.Today)
		if err != nil {
			return fmt.Errorf("invalid today: %w", err)
		}
		c.today = today
	}

	if c.scope, err = timeline.ParseSortScope(strings.ToLower(c.SortScope)); err != nil {
		return err
	}
	c.SortScope = string(c.scope)

	if c.policy, err = parser.ParseMalformedPolicy(c.OnMalformed); err != nil {
		return err
	}
	c.OnMalformed = string(c.policy)

	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.SourcePattern == "" {
		c.SourcePattern = scanner.DefaultPattern
	}

	for i, src := range c.Sources {
		if src.File == "" {
			return fmt.Errorf("sources[%d]: file is required", i)
		}
		if src.Color == "" {
			return fmt.Errorf("sources[%d] (%s): color is required", i, src.File)
		}
	}

	seen := make(map[string]bool)
	for i, sel := range c.Selections {
		if sel.Name == "" {
			return fmt.Errorf("selections[%d]: name is required", i)
		}
		if seen[sel.Name] {
			return fmt.Errorf("duplicate selection %q", sel.Name)
		}
		seen[sel.Name] = true
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Output.Format == "" {
		c.Output.Format = display.FormatSVG
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
	if _, err := display.GetRenderer(c.Output.Format, display.Options{}); err != nil {
		return err
	}

	return nil
}

// EpochDate is the parsed epoch. Valid after Validate.
func (c *Config) EpochDate() model.Date { return c.epoch }

// FixedToday is the configured today, zero when today follows the clock.
func (c *Config) FixedToday() model.Date { return c.today }

// Scope is the parsed sort scope. Valid after Validate.
func (c *Config) Scope() timeline.SortScope { return c.scope }

// MalformedPolicy is the parsed malformed record policy. Valid after Validate.
func (c *Config) MalformedPolicy() parser.MalformedPolicy { return c.policy }

// RenderOptions builds the renderer options from the config.
func (c *Config) RenderOptions() display.Options {
	return display.Options{
		SVG: display.SVGStyle{
			Scale:      c.SVG.Scale,
			RowHeight:  c.SVG.RowHeight,
			FontFamily: c.SVG.FontFamily,
			FontSize:   c.SVG.FontSize,
			Palette:    c.SVG.Palette,
		},
		TerminalWidth: c.TerminalWidth,
	}
}
