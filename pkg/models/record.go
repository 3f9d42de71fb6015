package models

import (
	"time"
)

// FileRecord represents a single file discovered during inventory scanning.
// Records are created once at scan time and never mutated afterwards; the
// content hash is the only field filled in later (lazily, by the detector).
type FileRecord struct {
	// AbsolutePath is the full path on the filesystem
	AbsolutePath string

	// Size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time

	// Hash is the SHA-256 content hash (optional, computed on demand)
	Hash string

	// SourceRoot is the scan root this record was discovered under
	SourceRoot string
}

// SkippedEntry records a path that was omitted from the scan together
// with the reason (exclude pattern match, unreadable entry, ...)
type SkippedEntry struct {
	Path   string
	Reason string
}

// RootStats holds per-root scan counters
type RootStats struct {
	Root       string
	FilesFound int
	DirsFound  int
	BytesFound int64
}

// ScanResult is the explicit result object produced by one inventory scan.
// It is the only state handed from the scan phase to later phases.
type ScanResult struct {
	// Records in discovery order, across all roots
	Records []FileRecord

	// Skipped entries (excluded or unreadable), in discovery order
	Skipped []SkippedEntry

	// Roots holds per-root statistics in the order roots were given
	Roots []RootStats

	// StartedAt / FinishedAt bracket the traversal
	StartedAt  time.Time
	FinishedAt time.Time
}

// TotalFiles returns the number of discovered file records
func (r *ScanResult) TotalFiles() int {
	return len(r.Records)
}

// TotalBytes returns the cumulative size of all discovered files
func (r *ScanResult) TotalBytes() int64 {
	var total int64
	for _, rec := range r.Records {
		total += rec.Size
	}
	return total
}
