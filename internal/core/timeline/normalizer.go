package timeline

import (
	"fmt"
	"sort"

	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/util"
)

// Normalizer turns sources into the fixed row sequence used by the layout.
type Normalizer struct {
	opts Options
}

// NewNormalizer creates a new normalizer
func NewNormalizer(opts Options) *Normalizer {
	if opts.Scope == "" {
		opts.Scope = ScopeSource
	}
	return &Normalizer{opts: opts}
}

// Normalize is shorthand for NewNormalizer(opts).Normalize(sources).
func Normalize(sources []model.Source, opts Options) ([]model.Row, error) {
	return NewNormalizer(opts).Normalize(sources)
}

// Normalize sorts records by start date, latest first, and returns the rows in
// their final order. Ties keep input order. The input is not modified.
func (n *Normalizer) Normalize(sources []model.Source) ([]model.Row, error) {
	for _, src := range sources {
		for _, rec := range src.Records {
			if err := rec.Validate(); err != nil {
				return nil, fmt.Errorf("source %s: %w", src.Name, err)
			}
		}
	}

	var rows []model.Row
	switch n.opts.Scope {
	case ScopeGlobal:
		rows = n.normalizeGlobal(sources)
	default:
		rows = n.normalizePerSource(sources)
	}

	util.LogDebugf("Normalized %d sources into %d rows (scope=%s, grouped=%t)",
		len(sources), len(rows), n.opts.Scope, n.opts.Grouped)
	return rows, nil
}

func (n *Normalizer) normalizePerSource(sources []model.Source) []model.Row {
	total := 0
	for _, src := range sources {
		total += len(src.Records)
		if n.opts.Grouped {
			total++
		}
	}

	rows := make([]model.Row, 0, total)
	for _, src := range sources {
		for _, rec := range sortDescending(src.Records) {
			rows = append(rows, sourceRow(src, rec))
		}
		if n.opts.Grouped {
			rows = append(rows, model.HeaderRow{Group: src.Group, Color: src.Color})
		}
	}
	return rows
}

func (n *Normalizer) normalizeGlobal(sources []model.Source) []model.Row {
	var merged []model.TimelineRecord
	for _, src := range sources {
		for _, rec := range src.Records {
			merged = append(merged, sourceRow(src, rec).Record())
		}
	}

	sorted := sortDescending(merged)
	rows := make([]model.Row, 0, len(sorted))
	for _, rec := range sorted {
		rows = append(rows, model.NewDataRow(rec))
	}
	return rows
}

// sourceRow builds the row of rec. Group and color always come from the source.
func sourceRow(src model.Source, rec model.TimelineRecord) model.DataRow {
	row := model.NewDataRow(rec)
	row.Group = src.Group
	row.Color = src.Color
	return row
}

// sortDescending returns a copy of records stably sorted by Start, latest first.
func sortDescending(records []model.TimelineRecord) []model.TimelineRecord {
	sorted := make([]model.TimelineRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.After(sorted[j].Start)
	})
	return sorted
}
