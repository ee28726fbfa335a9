package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/core/timeline"
	"github.com/penwyp/go-gantt/internal/data/parser"
)

func TestDefaultConfig_Validate(t *testing.T) {
	config := DefaultConfig()
	require.NoError(t, config.Validate())

	assert.Equal(t, model.NewDate(2020, time.July, 1), config.EpochDate())
	assert.Equal(t, 300, config.LabelWidth)
	assert.True(t, config.FixedToday().IsZero())
	assert.Equal(t, timeline.ScopeSource, config.Scope())
	assert.Equal(t, parser.MalformedAbort, config.MalformedPolicy())
	assert.Equal(t, 4, config.Workers)
	assert.Equal(t, "svg", config.Output.Format)
}

func TestConfig_ValidateFillsZeroValues(t *testing.T) {
	config := &Config{}
	require.NoError(t, config.Validate())

	assert.Equal(t, "2020-07-01", config.Epoch)
	assert.Equal(t, 300, config.LabelWidth)
	assert.Equal(t, "Local", config.Timezone)
	assert.Equal(t, ".", config.DataDir)
	assert.Equal(t, "*.csv", config.SourcePattern)
	assert.Equal(t, ".", config.Output.Dir)
	assert.Equal(t, "source", config.SortScope)
	assert.Equal(t, "abort", config.OnMalformed)
}

func TestConfig_ValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{"bad epoch", func(c *Config) { c.Epoch = "2020-7-1x" }, "invalid epoch"},
		{"bad today", func(c *Config) { c.Today = "tomorrow" }, "invalid today"},
		{"negative label width", func(c *Config) { c.LabelWidth = -1 }, "label_width"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Base" }, "invalid timezone"},
		{"bad scope", func(c *Config) { c.SortScope = "weekly" }, "unknown sort scope"},
		{"bad policy", func(c *Config) { c.OnMalformed = "explode" }, "unknown malformed policy"},
		{"bad format", func(c *Config) { c.Output.Format = "png" }, "unknown output format"},
		{"source without file", func(c *Config) { c.Sources = []SourceConfig{{Color: "c"}} }, "file is required"},
		{"source without color", func(c *Config) { c.Sources = []SourceConfig{{File: "a.csv"}} }, "color is required"},
		{"selection without name", func(c *Config) { c.Selections = []SelectionConfig{{Colors: []string{"c"}}} }, "name is required"},
		{"duplicate selection", func(c *Config) {
			c.Selections = []SelectionConfig{{Name: "a"}, {Name: "a"}}
		}, "duplicate selection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_ValidateDateParseErrorIsTyped(t *testing.T) {
	config := DefaultConfig()
	config.Epoch = "not-a-date"
	assert.ErrorIs(t, config.Validate(), model.ErrDateParse)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gantt.yaml")
	content := `
epoch: 2021-01-01
label_width: 120
today: 2021-03-15
grouped: true
sort_scope: GLOBAL
on_malformed: skip
workers: 2
data_dir: data
sources:
  - file: a.csv
    color: c
  - file: b.csv
    color: "#ff8800"
selections:
  - name: a-only
    colors: [c]
    output: a
output:
  dir: out
  format: json
svg:
  scale: 2.5
  palette:
    c: "#00ffff"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, model.NewDate(2021, time.January, 1), config.EpochDate())
	assert.Equal(t, 120, config.LabelWidth)
	assert.Equal(t, model.NewDate(2021, time.March, 15), config.FixedToday())
	assert.True(t, config.Grouped)
	assert.Equal(t, timeline.ScopeGlobal, config.Scope())
	assert.Equal(t, parser.MalformedSkip, config.MalformedPolicy())
	assert.Equal(t, 2, config.Workers)
	require.Len(t, config.Sources, 2)
	assert.Equal(t, "#ff8800", config.Sources[1].Color)
	require.Len(t, config.Selections, 1)
	assert.Equal(t, []string{"c"}, config.Selections[0].Colors)
	assert.Equal(t, "json", config.Output.Format)

	opts := config.RenderOptions()
	assert.Equal(t, 2.5, opts.SVG.Scale)
	assert.Equal(t, "#00ffff", opts.SVG.Palette["c"])

	// Unset keys keep their defaults
	assert.Equal(t, "Local", config.Timezone)
	assert.Equal(t, "*.csv", config.SourcePattern)
}

func TestLoadConfig_Empty(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("/nonexistent/gantt.yaml")
	assert.ErrorContains(t, err, "error reading config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("epoch: [unterminated"), 0644))
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "error parsing config file")
}
