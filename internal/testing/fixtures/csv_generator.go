package fixtures

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// TaskRow is one label,start,end line of a source file.
type TaskRow struct {
	Label string
	Start string
	End   string
}

// SourceGenerator writes timeline CSV sources for tests.
type SourceGenerator struct {
	baseDir string
}

// NewSourceGenerator creates a new source generator rooted at baseDir.
func NewSourceGenerator(baseDir string) *SourceGenerator {
	return &SourceGenerator{
		baseDir: baseDir,
	}
}

// WriteSource writes a CSV file whose first row carries the group name.
func (g *SourceGenerator) WriteSource(fileName, group string, rows []TaskRow) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(g.baseDir, fileName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{
		{group, "", ""},
		{"Task", "Start", "End"},
	}
	for _, r := range rows {
		records = append(records, []string{r.Label, r.Start, r.End})
	}
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteRaw writes content verbatim, for malformed input cases.
func (g *SourceGenerator) WriteRaw(fileName, content string) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(g.baseDir, fileName)
	return path, os.WriteFile(path, []byte(content), 0644)
}

// GenerateDefaultSources writes the three sources of the reference timeline
// using the "L2M Gantt - <name>.csv" naming.
func (g *SourceGenerator) GenerateDefaultSources() ([]string, error) {
	sets := []struct {
		name  string
		group string
		rows  []TaskRow
	}{
		{
			name:  "controller-metrics",
			group: "Controller Metrics",
			rows: []TaskRow{
				{Label: "Stability metric", Start: "2020-07-01", End: "2020-09-15"},
				{Label: "Safety envelope", Start: "2020-08-10", End: "2020-11-30"},
				{Label: "Robustness report", Start: "2020-10-01", End: "2021-02-28"},
			},
		},
		{
			name:  "perception",
			group: "Perception",
			rows: []TaskRow{
				{Label: "Dataset audit", Start: "2020-07-15", End: "2020-08-31"},
				{Label: "Uncertainty model", Start: "2020-09-01", End: "2021-01-15"},
			},
		},
		{
			name:  "rl",
			group: "RL",
			rows: []TaskRow{
				{Label: "Baseline agents", Start: "2020-08-01", End: "2020-12-20"},
				{Label: "Sim-to-real", Start: "2021-01-04", End: "2021-06-30"},
			},
		},
	}

	paths := make([]string, 0, len(sets))
	for _, s := range sets {
		path, err := g.WriteSource(fmt.Sprintf("L2M Gantt - %s.csv", s.name), s.group, s.rows)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
