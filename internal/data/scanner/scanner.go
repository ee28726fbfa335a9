package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-gantt/internal/util"
)

// DefaultPattern matches every CSV source.
const DefaultPattern = "*.csv"

// FileScanner discovers timeline source files under a directory
type FileScanner struct {
	baseDir string
	pattern string
}

// NewFileScanner creates a new FileScanner instance. An empty pattern means
// DefaultPattern.
func NewFileScanner(baseDir, pattern string) *FileScanner {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &FileScanner{
		baseDir: baseDir,
		pattern: pattern,
	}
}

// Scan walks the directory and returns the paths of all .csv files whose base
// name matches the pattern (case-insensitive), sorted by path.
func (s *FileScanner) Scan() ([]string, error) {
	if _, err := filepath.Match(s.pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid source pattern %q: %w", s.pattern, err)
	}

	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0
	pattern := strings.ToLower(s.pattern)

	util.LogDebugf("Start scanning directory: %s", s.baseDir)

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebugf("Skip file (error): %s - %v", path, err)
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		name := strings.ToLower(info.Name())
		if !strings.HasSuffix(name, ".csv") {
			return nil
		}
		if ok, _ := filepath.Match(pattern, name); ok {
			files = append(files, path)
		}

		return nil
	})

	sort.Strings(files)

	util.LogDebugf("File scan completed: duration %v, scanned %d directories, %d files, found %d CSV sources",
		time.Since(start), dirCount, totalCount, len(files))

	return files, err
}
