package models

import (
	"strings"
	"time"
)

// PlanStatus classifies one manifest entry
type PlanStatus string

const (
	// StatusPlanned indicates the file will be moved to its destination
	StatusPlanned PlanStatus = "PLANNED"
	// StatusConflict indicates another file claimed the destination first
	StatusConflict PlanStatus = "CONFLICT"
	// StatusDuplicate is accepted by the manifest codec for hand-edited
	// manifests; the builder records duplicates as notes instead
	StatusDuplicate PlanStatus = "DUPLICATE"
	// StatusLarge is accepted by the manifest codec for hand-edited
	// manifests; the builder records large files as notes instead
	StatusLarge PlanStatus = "LARGE"
)

// ValidStatus reports whether s is one of the recognized statuses
func ValidStatus(s PlanStatus) bool {
	switch s {
	case StatusPlanned, StatusConflict, StatusDuplicate, StatusLarge:
		return true
	}
	return false
}

// PlanEntry is one manifest row describing a single file's disposition.
// Status reflects only same-run destination collisions; pre-existing files
// at the destination are dealt with at commit time, not planning time.
type PlanEntry struct {
	Status      PlanStatus
	SourcePath  string
	Destination string
	Notes       []string
}

// NoteText joins the entry's notes for the manifest notes column
func (e *PlanEntry) NoteText() string {
	return strings.Join(e.Notes, "; ")
}

// Manifest is the ordered plan of record for one migration run.
// It has exactly one writer (the plan builder) and is read-only afterwards.
type Manifest struct {
	// RunID uniquely identifies the planning run
	RunID string

	// TargetRoot is the root of the destination hierarchy
	TargetRoot string

	// SourceRoots are the scanned roots, in scan order
	SourceRoots []string

	// GeneratedAt is when planning completed
	GeneratedAt time.Time

	// Entries in discovery order, one per scanned file
	Entries []PlanEntry
}

// Planned returns the PLANNED entries in manifest order
func (m *Manifest) Planned() []PlanEntry {
	var planned []PlanEntry
	for _, e := range m.Entries {
		if e.Status == StatusPlanned {
			planned = append(planned, e)
		}
	}
	return planned
}

// CountByStatus tallies entries per status
func (m *Manifest) CountByStatus() map[PlanStatus]int {
	counts := make(map[PlanStatus]int)
	for _, e := range m.Entries {
		counts[e.Status]++
	}
	return counts
}
