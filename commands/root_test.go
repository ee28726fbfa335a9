package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-gantt/internal/testing/e2e"
	"github.com/penwyp/go-gantt/internal/testing/fixtures"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected(home), expandPath(tt.input))
		})
	}
}

func TestEnsureDir(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "test", "nested", "dir")

	require.NoError(t, ensureDir(testDir))

	info, err := os.Stat(testDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Test idempotency
	assert.NoError(t, ensureDir(testDir))
}

// runCLI executes a fresh command tree and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(&cliOptions{})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-file", ""))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeReferenceSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := fixtures.NewSourceGenerator(dir).GenerateDefaultSources()
	require.NoError(t, err)
	return dir
}

func TestRootCommand_RendersAllSelections(t *testing.T) {
	dataDir := writeReferenceSources(t)
	outDir := filepath.Join(t.TempDir(), "charts")

	_, stderr, err := runCLI(t, "--dir", dataDir, "--out-dir", outDir, "--today", "2020-09-01")
	require.NoError(t, err)

	for _, name := range []string{"controller", "perception", "rl", "full"} {
		path := filepath.Join(outDir, name+".svg")
		assert.FileExists(t, path)
		assert.Contains(t, stderr, name+" -> "+path)
	}
}

func TestRootCommand_FlagsOverrideConfig(t *testing.T) {
	dataDir := writeReferenceSources(t)
	outDir := t.TempDir()

	configPath := filepath.Join(t.TempDir(), "gantt.yaml")
	config := "label_width: 50\noutput:\n  format: svg\nselections:\n  - name: rl\n    colors: [y]\n    output: rl-chart\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))

	_, _, err := runCLI(t,
		"--config", configPath,
		"--dir", dataDir,
		"--out-dir", outDir,
		"--format", "json",
		"--label-width", "10",
		"--today", "2020-09-01")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "rl-chart.json"))
	require.NoError(t, err)

	var doc struct {
		Geometry struct {
			LabelWidth int `json:"label_width"`
		} `json:"geometry"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 10, doc.Geometry.LabelWidth)
}

func TestRootCommand_Show(t *testing.T) {
	dataDir := writeReferenceSources(t)

	stdout, _, err := runCLI(t, "--dir", dataDir, "--show", "--selection", "full", "--width", "90", "--today", "2020-09-01")
	require.NoError(t, err)

	lines := e2e.VisibleLines(stdout)
	require.NotEmpty(t, lines)
	assert.Equal(t, "Full", lines[0])
	_, ok := e2e.LineContaining(stdout, "■ Controller Metrics")
	assert.True(t, ok)
}

func TestRootCommand_Errors(t *testing.T) {
	dataDir := writeReferenceSources(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"--dir", dataDir, "--format", "png"}, "unknown output format"},
		{"bad epoch", []string{"--dir", dataDir, "--epoch", "07/01/2020"}, "invalid epoch"},
		{"unknown selection", []string{"--dir", dataDir, "--selection", "nope", "--show"}, "unknown selection(s): nope"},
		{"empty dir", []string{"--dir", t.TempDir()}, "no sources matching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInspectCommand(t *testing.T) {
	dataDir := writeReferenceSources(t)

	stdout, _, err := runCLI(t, "inspect", "--dir", dataDir, "--grouped")
	require.NoError(t, err)

	lines := e2e.VisibleLines(stdout)
	assert.Equal(t, "10 rows, 7 data rows", lines[len(lines)-1])
	assert.Contains(t, stdout, "[Controller Metrics]")

	// Latest start first within the first source
	first := strings.Index(stdout, "Robustness report")
	second := strings.Index(stdout, "Safety envelope")
	third := strings.Index(stdout, "Stability metric")
	assert.True(t, first < second && second < third)

	stdout, _, err = runCLI(t, "inspect", "--dir", dataDir, "-o", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "index,kind,label,group,color,start,end,days\n"))

	_, _, err = runCLI(t, "inspect", "--dir", dataDir, "-o", "xml")
	assert.ErrorContains(t, err, "unknown inspect format")
}

func TestSourcesCommand(t *testing.T) {
	dataDir := writeReferenceSources(t)

	stdout, _, err := runCLI(t, "sources", "--dir", dataDir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"Controller Metrics"  3 tasks`)
	assert.True(t, strings.HasPrefix(lines[1], "m "))
	assert.Contains(t, lines[2], `"RL"  2 tasks`)
}
