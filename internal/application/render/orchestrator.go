package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/penwyp/go-gantt/internal/core/model"
	"github.com/penwyp/go-gantt/internal/core/timeline"
	"github.com/penwyp/go-gantt/internal/data/parser"
	"github.com/penwyp/go-gantt/internal/data/scanner"
	"github.com/penwyp/go-gantt/internal/data/watcher"
	"github.com/penwyp/go-gantt/internal/presentation/display"
	"github.com/penwyp/go-gantt/internal/presentation/layout"
	"github.com/penwyp/go-gantt/internal/util"
)

// DefaultColorCycle colors discovered sources in file name order.
var DefaultColorCycle = []model.ColorToken{"c", "m", "y", "r", "g", "b"}

// defaultSourceNames are the three sources of the reference timeline, each
// with its own selection name.
var defaultSourceNames = []struct {
	source    string
	selection string
}{
	{"controller-metrics", "controller"},
	{"perception", "perception"},
	{"rl", "rl"},
}

// Selection is one highlight selection to render.
type Selection struct {
	Name   string
	Colors []model.ColorToken
	Output string
}

// Result describes one rendered selection.
type Result struct {
	Selection  string
	Path       string
	Primitives int
}

// Orchestrator runs the load, normalize, layout and render pipeline
type Orchestrator struct {
	config *Config
	loader *parser.Loader
	clock  *util.TimeProvider
	stdout io.Writer

	// Guards stdout and the prepared state
	mu      sync.Mutex
	runID   string
	log     util.LoggerInterface
	sources []model.Source
	engine  *layout.Engine
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *Config, stdout io.Writer) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loader, err := parser.NewLoader(parser.Options{
		Concurrency: config.Workers,
		Malformed:   config.MalformedPolicy(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create loader: %w", err)
	}

	clock, err := util.NewTimeProvider(config.Timezone)
	if err != nil {
		return nil, err
	}

	if stdout == nil {
		stdout = os.Stdout
	}

	return &Orchestrator{
		config: config,
		loader: loader,
		clock:  clock,
		stdout: stdout,
		log:    util.WithFields(),
	}, nil
}

// Clock exposes the time provider, mainly so tests can pin today.
func (o *Orchestrator) Clock() *util.TimeProvider {
	return o.clock
}

// ResolveSources returns the configured sources, or the sources discovered in
// the data directory colored from DefaultColorCycle.
func (o *Orchestrator) ResolveSources() ([]parser.SourceSpec, error) {
	if len(o.config.Sources) > 0 {
		specs := make([]parser.SourceSpec, 0, len(o.config.Sources))
		for _, src := range o.config.Sources {
			path := src.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(o.config.DataDir, path)
			}
			specs = append(specs, parser.SourceSpec{Path: path, Color: model.ColorToken(src.Color)})
		}
		return specs, nil
	}

	files, err := scanner.NewFileScanner(o.config.DataDir, o.config.SourcePattern).Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", o.config.DataDir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no sources matching %q in %s", o.config.SourcePattern, o.config.DataDir)
	}

	specs := make([]parser.SourceSpec, 0, len(files))
	for i, file := range files {
		specs = append(specs, parser.SourceSpec{
			Path:  file,
			Color: DefaultColorCycle[i%len(DefaultColorCycle)],
		})
	}
	return specs, nil
}

// Prepare loads the sources and builds the layout engine for a new run.
func (o *Orchestrator) Prepare(ctx context.Context) error {
	runID := uuid.New().String()
	log := util.WithFields(util.F("run_id", runID))
	start := time.Now()

	specs, err := o.ResolveSources()
	if err != nil {
		return err
	}

	sources, err := o.loader.LoadSources(ctx, specs)
	if err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	rows, err := timeline.Normalize(sources, timeline.Options{
		Grouped: o.config.Grouped,
		Scope:   o.config.Scope(),
	})
	if err != nil {
		return fmt.Errorf("failed to normalize records: %w", err)
	}

	engine, err := layout.NewEngine(rows, layout.Options{
		Epoch:        o.config.EpochDate(),
		LabelWidth:   o.config.LabelWidth,
		StrictColors: o.config.StrictColors,
	})
	if err != nil {
		return fmt.Errorf("failed to build layout: %w", err)
	}

	o.mu.Lock()
	o.runID = runID
	o.log = log
	o.sources = sources
	o.engine = engine
	o.mu.Unlock()

	log.Info("Prepared timeline",
		util.F("sources", len(sources)),
		util.F("rows", len(rows)),
		util.F("total_width", engine.Geometry().TotalWidth),
		util.F("duration", time.Since(start).String()))
	return nil
}

// Rows returns the normalized rows of the prepared run.
func (o *Orchestrator) Rows(ctx context.Context) ([]model.Row, error) {
	engine, err := o.ensureEngine(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Rows(), nil
}

// Sources returns the loaded sources of the prepared run.
func (o *Orchestrator) Sources(ctx context.Context) ([]model.Source, error) {
	if _, err := o.ensureEngine(ctx); err != nil {
		return nil, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]model.Source(nil), o.sources...), nil
}

// Selections returns the configured selections, or the defaults derived from
// the loaded sources. Only and Show are applied.
func (o *Orchestrator) Selections(ctx context.Context) ([]Selection, error) {
	sources, err := o.Sources(ctx)
	if err != nil {
		return nil, err
	}

	var selections []Selection
	if len(o.config.Selections) > 0 {
		for _, sc := range o.config.Selections {
			colors := make([]model.ColorToken, 0, len(sc.Colors))
			for _, c := range sc.Colors {
				colors = append(colors, model.ColorToken(c))
			}
			selections = append(selections, Selection{Name: sc.Name, Colors: colors, Output: sc.Output})
		}
	} else {
		selections = DefaultSelections(sources)
	}

	if len(o.config.Only) > 0 {
		wanted := make(map[string]bool, len(o.config.Only))
		for _, name := range o.config.Only {
			wanted[name] = true
		}
		filtered := selections[:0]
		for _, sel := range selections {
			if wanted[sel.Name] {
				filtered = append(filtered, sel)
				delete(wanted, sel.Name)
			}
		}
		if len(wanted) > 0 {
			missing := make([]string, 0, len(wanted))
			for _, name := range o.config.Only {
				if wanted[name] {
					missing = append(missing, name)
				}
			}
			return nil, fmt.Errorf("unknown selection(s): %s", strings.Join(missing, ", "))
		}
		selections = filtered
	}

	if o.config.Show {
		for i := range selections {
			selections[i].Output = ""
		}
	}

	return selections, nil
}

// DefaultSelections highlights each source on its own and then all of them
// together under "full".
func DefaultSelections(sources []model.Source) []Selection {
	selections := make([]Selection, 0, len(sources)+1)
	all := make([]model.ColorToken, 0, len(sources))
	reference := isReferenceTimeline(sources)

	for i, src := range sources {
		name := slugify(src.Name)
		if reference {
			name = defaultSourceNames[i].selection
		}
		selections = append(selections, Selection{Name: name, Colors: []model.ColorToken{src.Color}, Output: name})
		all = append(all, src.Color)
	}

	return append(selections, Selection{Name: "full", Colors: all, Output: "full"})
}

func isReferenceTimeline(sources []model.Source) bool {
	if len(sources) != len(defaultSourceNames) {
		return false
	}
	for i, src := range sources {
		if src.Name != defaultSourceNames[i].source {
			return false
		}
	}
	return true
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "source"
	}
	return slug
}

// RenderSelection plans one selection and writes it to its output file, or
// to stdout when the selection has no output.
func (o *Orchestrator) RenderSelection(ctx context.Context, sel Selection) (Result, error) {
	engine, err := o.ensureEngine(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	today := o.config.FixedToday()
	if today.IsZero() {
		today = o.clock.Today()
	}

	highlight := model.NewHighlightSet(sel.Colors...)
	plan := engine.Plan(highlight, today)

	format := o.config.Output.Format
	if sel.Output == "" {
		format = display.FormatTerminal
	}
	renderer, err := display.GetRenderer(format, o.config.RenderOptions())
	if err != nil {
		return Result{}, err
	}

	o.mu.Lock()
	runID, log := o.runID, o.log
	o.mu.Unlock()

	meta := display.RenderMeta{Title: sel.Name, Highlight: highlight, Today: today, RunID: runID}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, plan, meta); err != nil {
		return Result{}, fmt.Errorf("failed to render %s: %w", sel.Name, err)
	}

	result := Result{Selection: sel.Name, Primitives: len(plan.Primitives)}

	if sel.Output == "" {
		o.mu.Lock()
		_, err = o.stdout.Write(buf.Bytes())
		o.mu.Unlock()
		if err != nil {
			return Result{}, err
		}
	} else {
		if err := os.MkdirAll(o.config.Output.Dir, 0755); err != nil {
			return Result{}, fmt.Errorf("failed to create output directory: %w", err)
		}
		result.Path = filepath.Join(o.config.Output.Dir, sel.Output+"."+renderer.Extension())
		if err := os.WriteFile(result.Path, buf.Bytes(), 0644); err != nil {
			return Result{}, fmt.Errorf("failed to write %s: %w", result.Path, err)
		}
	}

	log.Info("Rendered selection",
		util.F("selection", sel.Name),
		util.F("highlight", highlight.Tokens()),
		util.F("path", result.Path),
		util.F("primitives", result.Primitives))
	return result, nil
}

// Run prepares a fresh run and renders every selection in parallel. The first
// failure cancels the remaining selections.
func (o *Orchestrator) Run(ctx context.Context) ([]Result, error) {
	if err := o.Prepare(ctx); err != nil {
		return nil, err
	}

	selections, err := o.Selections(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(selections))

	// Terminal output keeps selection order
	workers := o.config.Workers
	if o.config.Show {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, sel := range selections {
		i, sel := i, sel
		g.Go(func() error {
			result, err := o.RenderSelection(gctx, sel)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Watch runs the pipeline once, then again after every debounced change to a
// source file until ctx is done. Failed reruns are logged and watching goes on.
func (o *Orchestrator) Watch(ctx context.Context, onRun func([]Result, error)) error {
	paths := []string{o.config.DataDir}
	for _, src := range o.config.Sources {
		if filepath.IsAbs(src.File) {
			paths = append(paths, src.File)
		}
	}

	// The watcher is registered before the first run so that edits made while
	// it renders trigger a rerun.
	fw, err := watcher.NewFileWatcher(paths, watcher.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer fw.Close()

	util.LogInfof("Watching %s for source changes", strings.Join(paths, ", "))

	results, err := o.Run(ctx)
	if onRun != nil {
		onRun(results, err)
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Stopping watch")
			return nil

		case batch, ok := <-fw.Batches():
			if !ok {
				return nil
			}
			for _, ev := range batch {
				util.LogDebugf("File changed: %s (%s)", ev.Path, ev.Operation)
				o.loader.Invalidate(ev.Path)
			}

			results, err := o.Run(ctx)
			if err != nil {
				util.LogErrorf("Rerun failed: %v", err)
			}
			if onRun != nil {
				onRun(results, err)
			}
		}
	}
}

func (o *Orchestrator) ensureEngine(ctx context.Context) (*layout.Engine, error) {
	o.mu.Lock()
	engine := o.engine
	o.mu.Unlock()
	if engine != nil {
		return engine, nil
	}

	if err := o.Prepare(ctx); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine, nil
}
