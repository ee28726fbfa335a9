package parser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/util"
)

// MalformedPolicy decides what happens to records whose end precedes their start.
type MalformedPolicy string

const (
	// MalformedAbort fails the whole load.
	MalformedAbort MalformedPolicy = "abort"
	// MalformedSkip drops the record and logs a warning.
	MalformedSkip MalformedPolicy = "skip"
)

// ParseMalformedPolicy maps a config string to a policy. Empty means abort.
func ParseMalformedPolicy(s string) (MalformedPolicy, error) {
	switch MalformedPolicy(strings.ToLower(s)) {
	case "", MalformedAbort:
		return MalformedAbort, nil
	case MalformedSkip:
		return MalformedSkip, nil
	default:
		return "", fmt.Errorf("unknown malformed policy %q (want %q or %q)", s, MalformedAbort, MalformedSkip)
	}
}

// RawRecord is one unparsed CSV data row.
type RawRecord struct {
	Label string
	Start string
	End   string
	Line  int
}

// SourceSpec names a source file and the color its records are drawn with.
type SourceSpec struct {
	Path  string
	Color model.ColorToken
}

// Options configures a Loader.
type Options struct {
	Concurrency int
	CacheSize   int
	Malformed   MalformedPolicy
}

// sourceFile is the cached content of one CSV file.
type sourceFile struct {
	stamp   util.FileStamp
	group   string
	records []RawRecord
}

// Loader reads timeline sources. The first CSV row holds the group name, the
// second is a header, and every later row is label,start,end.
type Loader struct {
	opts  Options
	cache *lru.Cache[string, *sourceFile]
}

// NewLoader creates a new Loader instance.
func NewLoader(opts Options) (*Loader, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.Malformed == "" {
		opts.Malformed = MalformedAbort
	}

	cache, err := lru.New[string, *sourceFile](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create source cache: %w", err)
	}

	return &Loader{opts: opts, cache: cache}, nil
}

// LoadRecords returns the raw data rows of a source.
func (l *Loader) LoadRecords(path string) ([]RawRecord, error) {
	file, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	records := make([]RawRecord, len(file.records))
	copy(records, file.records)
	return records, nil
}

// LoadGroupName returns the group name stored in the first row of a source.
func (l *Loader) LoadGroupName(path string) (string, error) {
	file, err := l.readFile(path)
	if err != nil {
		return "", err
	}
	return file.group, nil
}

// LoadSource reads and parses one source. Date errors are returned wrapping
// the *model.DateParseError.
func (l *Loader) LoadSource(path string, color model.ColorToken) (model.Source, error) {
	file, err := l.readFile(path)
	if err != nil {
		return model.Source{}, err
	}

	src := model.Source{
		Name:    SourceName(path),
		Group:   file.group,
		Color:   color,
		Records: make([]model.TimelineRecord, 0, len(file.records)),
	}

	for _, raw := range file.records {
		start, err := model.ParseDate(raw.Start)
		if err != nil {
			return model.Source{}, fmt.Errorf("%s:%d: %w", path, raw.Line, err)
		}
		end, err := model.ParseDate(raw.End)
		if err != nil {
			return model.Source{}, fmt.Errorf("%s:%d: %w", path, raw.Line, err)
		}

		rec := model.TimelineRecord{
			Label: raw.Label,
			Start: start,
			End:   end,
			Group: file.group,
			Color: color,
		}
		if err := rec.Validate(); err != nil {
			if l.opts.Malformed == MalformedSkip {
				util.LogWarnf("Skip %s:%d - %v", path, raw.Line, err)
				continue
			}
			return model.Source{}, fmt.Errorf("%s:%d: %w", path, raw.Line, err)
		}
		src.Records = append(src.Records, rec)
	}

	util.LogDebugf("Loaded source %s: group %q, %d records", path, src.Group, len(src.Records))
	return src, nil
}

// LoadSources loads every source concurrently and returns them in input order.
func (l *Loader) LoadSources(ctx context.Context, specs []SourceSpec) ([]model.Source, error) {
	sources := make([]model.Source, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Concurrency)

	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := l.LoadSource(spec.Path, spec.Color)
			if err != nil {
				return err
			}
			sources[i] = src
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// Invalidate drops a path from the cache.
func (l *Loader) Invalidate(path string) {
	l.cache.Remove(path)
}

func (l *Loader) readFile(path string) (*sourceFile, error) {
	stamp, err := util.GetFileStamp(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}

	if cached, ok := l.cache.Get(path); ok && cached.stamp == stamp {
		util.LogDebugf("Source cache hit: %s", path)
		return cached, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer f.Close()

	file, err := parseCSV(f, path)
	if err != nil {
		return nil, err
	}
	file.stamp = stamp

	l.cache.Add(path, file)
	return file, nil
}

func parseCSV(r io.Reader, path string) (*sourceFile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	groupRow, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: missing group name row", path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	group := strings.TrimSpace(groupRow[0])
	if group == "" {
		group = SourceName(path)
	}

	file := &sourceFile{group: group}

	// Header row
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return file, nil
		}
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}

		line, _ := reader.FieldPos(0)
		if isBlank(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("%s:%d: expected label,start,end but got %d fields", path, line, len(row))
		}

		file.records = append(file.records, RawRecord{
			Label: strings.TrimSpace(row[0]),
			Start: strings.TrimSpace(row[1]),
			End:   strings.TrimSpace(row[2]),
			Line:  line,
		})
	}

	return file, nil
}

// SourceName derives a short name from a source path:
// "data/L2M Gantt - rl.csv" -> "rl".
func SourceName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.LastIndex(name, " - "); i >= 0 {
		name = name[i+3:]
	}
	return strings.TrimSpace(name)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
