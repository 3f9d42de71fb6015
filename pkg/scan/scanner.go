package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gfreedman/file-folder-cleanup-util/internal/platform"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// Scanner walks source trees and produces the inventory a migration plan
// is built from. It never mutates the filesystem.
type Scanner struct {
	excludes []string
}

// New creates a scanner with the given exclude patterns
func New(excludes []string) *Scanner {
	return &Scanner{excludes: excludes}
}

// Scan walks every root in order and returns the discovered file records.
// Root validation happens up front: a root that does not exist, is not a
// directory, or is a protected system path fails the whole scan before any
// traversal starts. Unreadable entries below a valid root are reported in
// the result and skipped, never fatal.
func (s *Scanner) Scan(roots []string) (*models.ScanResult, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no source roots given", models.ErrInvalidRoot)
	}

	absRoots := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrInvalidRoot, root, err)
		}
		abs = platform.NormalizePath(abs)

		if platform.IsProtectedRoot(abs) {
			return nil, fmt.Errorf("%w: %s", models.ErrProtectedRoot, abs)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", models.ErrInvalidRoot, abs, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", models.ErrInvalidRoot, abs)
		}

		absRoots = append(absRoots, abs)
	}

	result := &models.ScanResult{StartedAt: time.Now()}

	for _, root := range absRoots {
		stats := models.RootStats{Root: root}
		s.walkRoot(root, &stats, result)
		result.Roots = append(result.Roots, stats)
	}

	result.FinishedAt = time.Now()
	return result, nil
}

// walkRoot traverses one root. filepath.WalkDir visits entries in lexical
// order, which makes the discovered file set deterministic for a fixed
// filesystem state.
func (s *Scanner) walkRoot(root string, stats *models.RootStats, result *models.ScanResult) {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Skipped = append(result.Skipped, models.SkippedEntry{
				Path:   path,
				Reason: fmt.Sprintf("unreadable: %v", err),
			})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = d.Name()
		}

		if shouldExclude(rel, s.excludes) {
			result.Skipped = append(result.Skipped, models.SkippedEntry{
				Path:   path,
				Reason: "excluded by pattern",
			})
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			stats.DirsFound++
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			result.Skipped = append(result.Skipped, models.SkippedEntry{
				Path:   path,
				Reason: fmt.Sprintf("unreadable: %v", infoErr),
			})
			return nil
		}

		// Symlinks, sockets and other irregular entries are left alone
		if !info.Mode().IsRegular() {
			result.Skipped = append(result.Skipped, models.SkippedEntry{
				Path:   path,
				Reason: "not a regular file",
			})
			return nil
		}

		result.Records = append(result.Records, models.FileRecord{
			AbsolutePath: path,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
			SourceRoot:   root,
		})
		stats.FilesFound++
		stats.BytesFound += info.Size()

		return nil
	})
}
