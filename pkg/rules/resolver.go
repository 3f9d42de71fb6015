package rules

import (
	"path/filepath"
	"strings"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// Resolver maps a file record to its destination path using an ordered
// rule catalog.
type Resolver struct {
	rules []Rule
}

// NewResolver creates a resolver over an ordered rule catalog
func NewResolver(rules []Rule) *Resolver {
	return &Resolver{rules: rules}
}

// Rules returns the resolver's catalog in declaration order
func (r *Resolver) Rules() []Rule {
	return r.rules
}

// Resolve returns the destination path for one record. Rules are scanned
// in declaration order: an extension rule matches the record's extension
// case-insensitively, an exact-filename rule matches the whole filename
// case-sensitively. The first match wins. A record matching no rule is
// placed flat at the target root.
func (r *Resolver) Resolve(record models.FileRecord, targetRoot string) string {
	name := filepath.Base(record.AbsolutePath)
	ext := strings.ToLower(filepath.Ext(name))

	for _, rule := range r.rules {
		switch rule.Kind {
		case KindExtension:
			if ext != "" && ext == rule.Pattern {
				return filepath.Join(targetRoot, rule.Destination, name)
			}
		case KindExactFilename:
			if name == rule.Pattern {
				return filepath.Join(targetRoot, rule.Destination, name)
			}
		}
	}

	return filepath.Join(targetRoot, name)
}
