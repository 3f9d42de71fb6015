package plan

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/rules"
)

// Builder turns a scanned inventory into an ordered migration manifest.
// The builder is the manifest's only writer; everything downstream treats
// the manifest as read-only.
type Builder struct {
	resolver       *rules.Resolver
	largeThreshold int64
}

// NewBuilder creates a plan builder. largeThreshold of zero disables
// large-file annotations.
func NewBuilder(resolver *rules.Resolver, largeThreshold int64) *Builder {
	return &Builder{
		resolver:       resolver,
		largeThreshold: largeThreshold,
	}
}

// Build resolves a destination for every scanned record and detects
// same-run destination collisions. The first claimant of a destination is
// PLANNED; every later claimant is downgraded to CONFLICT with a note
// citing the original. Duplicate membership and large sizes only annotate
// entries, they never change status. Pre-existing files at a destination
// are deliberately not checked here; that is commit-time business.
func (b *Builder) Build(scan *models.ScanResult, dups *models.DuplicateIndex, targetRoot string) *models.Manifest {
	manifest := &models.Manifest{
		RunID:       uuid.New().String(),
		TargetRoot:  targetRoot,
		GeneratedAt: time.Now(),
	}
	for _, root := range scan.Roots {
		manifest.SourceRoots = append(manifest.SourceRoots, root.Root)
	}

	// destination -> first claimant's source path
	claimed := make(map[string]string)

	for _, record := range scan.Records {
		dest := b.resolver.Resolve(record, targetRoot)

		entry := models.PlanEntry{
			SourcePath:  record.AbsolutePath,
			Destination: dest,
		}

		if first, taken := claimed[dest]; taken {
			entry.Status = models.StatusConflict
			entry.Notes = append(entry.Notes,
				fmt.Sprintf("destination already claimed by %s", first))
		} else {
			entry.Status = models.StatusPlanned
			claimed[dest] = record.AbsolutePath
		}

		if dups != nil && record.Hash != "" {
			if group, ok := dups.ByHash[record.Hash]; ok && len(group) > 1 && group[0] != record.AbsolutePath {
				entry.Notes = append(entry.Notes,
					fmt.Sprintf("duplicate of %s", group[0]))
			}
		}

		if b.largeThreshold > 0 && record.Size > b.largeThreshold {
			entry.Notes = append(entry.Notes,
				fmt.Sprintf("large file: %s", models.FormatSize(record.Size)))
		}

		manifest.Entries = append(manifest.Entries, entry)
	}

	return manifest
}
