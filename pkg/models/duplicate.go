package models

// DuplicateGroup holds the paths of files sharing one content hash.
// A group always has at least two members; paths keep discovery order.
type DuplicateGroup struct {
	Hash  string
	Paths []string
}

// HashFailure records a file whose content hash could not be computed.
// Such files are excluded from duplicate grouping entirely.
type HashFailure struct {
	Path  string
	Error string
}

// DuplicateIndex is the result of one duplicate detection pass.
type DuplicateIndex struct {
	// Groups in order of first discovery of each group's first member
	Groups []DuplicateGroup

	// ByHash maps content hash to the member paths of its group
	ByHash map[string][]string

	// Failures lists files excluded because hashing failed
	Failures []HashFailure

	// BytesHashed is the total number of bytes read while hashing
	BytesHashed int64
}

// GroupFor returns the duplicate group containing path, or nil.
func (idx *DuplicateIndex) GroupFor(path string) *DuplicateGroup {
	for i := range idx.Groups {
		for _, p := range idx.Groups[i].Paths {
			if p == path {
				return &idx.Groups[i]
			}
		}
	}
	return nil
}

// ConflictSet lists files sharing a base filename across more than one
// source root. Informational only: it never changes plan outcomes.
type ConflictSet struct {
	BaseName string
	Records  []FileRecord
}
