package watcher

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-gantt/internal/util"
)

// DefaultDebounce is the quiet period after the last change before a batch is
// delivered.
const DefaultDebounce = 300 * time.Millisecond

// FileEvent is one change to a source file.
type FileEvent struct {
	Path      string
	Operation string
}

// FileWatcher watches directories for CSV source changes and delivers them in
// debounced batches.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	paths    []string
	debounce time.Duration
	batches  chan []FileEvent
	done     chan struct{}
	once     sync.Once
}

// NewFileWatcher watches every path. A file path watches its parent directory;
// a directory path is watched recursively.
func NewFileWatcher(paths []string, debounce time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw := &FileWatcher{
		watcher:  watcher,
		paths:    paths,
		debounce: debounce,
		batches:  make(chan []FileEvent, 1),
		done:     make(chan struct{}),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fw.watcher.Add(filepath.Dir(path))
	}

	// Recursively add directories
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return fw.watcher.Add(p)
		}
		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.batches)

	pending := make(map[string]FileEvent)
	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-fw.done:
			timer.Stop()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !isSourceEvent(event) {
				continue
			}
			util.LogDebugf("Source change: %s %s", event.Op, event.Name)
			pending[event.Name] = FileEvent{Path: event.Name, Operation: event.Op.String()}
			timer.Reset(fw.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]FileEvent, 0, len(pending))
			for _, ev := range pending {
				batch = append(batch, ev)
			}
			sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
			pending = make(map[string]FileEvent)

			select {
			case fw.batches <- batch:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func isSourceEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".csv")
}

// Batches delivers debounced change sets. It is closed after Close.
func (fw *FileWatcher) Batches() <-chan []FileEvent {
	return fw.batches
}

// Close stops watching. It is safe to call more than once.
func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
