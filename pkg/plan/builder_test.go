package plan

import (
	"strings"
	"testing"
	"time"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/rules"
)

func scanResult(records ...models.FileRecord) *models.ScanResult {
	result := &models.ScanResult{Records: records, StartedAt: time.Now(), FinishedAt: time.Now()}
	seen := make(map[string]bool)
	for _, rec := range records {
		if !seen[rec.SourceRoot] {
			seen[rec.SourceRoot] = true
			result.Roots = append(result.Roots, models.RootStats{Root: rec.SourceRoot})
		}
	}
	return result
}

func defaultBuilder(threshold int64) *Builder {
	return NewBuilder(rules.NewResolver(rules.Defaults()), threshold)
}

// ============== Plan Builder Tests ==============

func TestBuilder_Build(t *testing.T) {
	scan := scanResult(
		models.FileRecord{AbsolutePath: "/srcA/photo.jpg", Size: 100, SourceRoot: "/srcA"},
		models.FileRecord{AbsolutePath: "/srcA/report.pdf", Size: 100, SourceRoot: "/srcA"},
		models.FileRecord{AbsolutePath: "/srcB/song.mp3", Size: 100, SourceRoot: "/srcB"},
	)

	manifest := defaultBuilder(0).Build(scan, nil, "/target")

	if manifest.RunID == "" {
		t.Error("manifest should carry a run ID")
	}
	if manifest.TargetRoot != "/target" {
		t.Errorf("TargetRoot = %s", manifest.TargetRoot)
	}
	if len(manifest.SourceRoots) != 2 {
		t.Errorf("SourceRoots = %v, want 2 roots", manifest.SourceRoots)
	}
	if len(manifest.Entries) != 3 {
		t.Fatalf("Entries = %d, want 3", len(manifest.Entries))
	}

	for i, entry := range manifest.Entries {
		if entry.Status != models.StatusPlanned {
			t.Errorf("entry %d status = %s, want PLANNED", i, entry.Status)
		}
	}
	if manifest.Entries[0].Destination != "/target/Pictures/photo.jpg" {
		t.Errorf("destination = %s", manifest.Entries[0].Destination)
	}
}

func TestBuilder_ConflictFirstClaimWins(t *testing.T) {
	scan := scanResult(
		models.FileRecord{AbsolutePath: "/srcA/notes.txt", Size: 10, SourceRoot: "/srcA"},
		models.FileRecord{AbsolutePath: "/srcB/notes.txt", Size: 10, SourceRoot: "/srcB"},
		models.FileRecord{AbsolutePath: "/srcC/notes.txt", Size: 10, SourceRoot: "/srcC"},
	)

	manifest := defaultBuilder(0).Build(scan, nil, "/target")

	if got := manifest.Entries[0].Status; got != models.StatusPlanned {
		t.Errorf("first claimant status = %s, want PLANNED", got)
	}
	for i := 1; i < 3; i++ {
		entry := manifest.Entries[i]
		if entry.Status != models.StatusConflict {
			t.Errorf("entry %d status = %s, want CONFLICT", i, entry.Status)
		}
		if !strings.Contains(entry.NoteText(), "/srcA/notes.txt") {
			t.Errorf("entry %d note %q should cite the first claimant", i, entry.NoteText())
		}
	}

	counts := manifest.CountByStatus()
	if counts[models.StatusPlanned] != 1 || counts[models.StatusConflict] != 2 {
		t.Errorf("counts = %v", counts)
	}
}

func TestBuilder_DuplicateAnnotation(t *testing.T) {
	scan := scanResult(
		models.FileRecord{AbsolutePath: "/srcA/a.txt", Size: 10, Hash: "abc", SourceRoot: "/srcA"},
		models.FileRecord{AbsolutePath: "/srcB/b.txt", Size: 10, Hash: "abc", SourceRoot: "/srcB"},
	)
	dups := &models.DuplicateIndex{
		ByHash: map[string][]string{"abc": {"/srcA/a.txt", "/srcB/b.txt"}},
	}

	manifest := defaultBuilder(0).Build(scan, dups, "/target")

	// The group's first member carries no annotation, later members cite it
	if len(manifest.Entries[0].Notes) != 0 {
		t.Errorf("first member notes = %v, want none", manifest.Entries[0].Notes)
	}
	if got := manifest.Entries[1].NoteText(); got != "duplicate of /srcA/a.txt" {
		t.Errorf("note = %q", got)
	}
	// Annotations never change status
	if manifest.Entries[1].Status != models.StatusPlanned {
		t.Errorf("status = %s, want PLANNED", manifest.Entries[1].Status)
	}
}

func TestBuilder_LargeFileAnnotation(t *testing.T) {
	scan := scanResult(
		models.FileRecord{AbsolutePath: "/srcA/video.mkv", Size: 200 * models.MB, SourceRoot: "/srcA"},
		models.FileRecord{AbsolutePath: "/srcA/small.mkv", Size: 10, SourceRoot: "/srcA"},
	)

	manifest := defaultBuilder(100 * models.MB).Build(scan, nil, "/target")

	if got := manifest.Entries[0].NoteText(); got != "large file: 200.0 MB" {
		t.Errorf("note = %q, want %q", got, "large file: 200.0 MB")
	}
	if manifest.Entries[0].Status != models.StatusPlanned {
		t.Errorf("status = %s, large files stay PLANNED", manifest.Entries[0].Status)
	}
	if len(manifest.Entries[1].Notes) != 0 {
		t.Errorf("small file notes = %v, want none", manifest.Entries[1].Notes)
	}
}

func TestBuilder_ThresholdZeroDisablesLargeNotes(t *testing.T) {
	scan := scanResult(
		models.FileRecord{AbsolutePath: "/srcA/huge.iso", Size: 5 * models.GB, SourceRoot: "/srcA"},
	)

	manifest := defaultBuilder(0).Build(scan, nil, "/target")
	if len(manifest.Entries[0].Notes) != 0 {
		t.Errorf("notes = %v, want none with threshold disabled", manifest.Entries[0].Notes)
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	scan := scanResult(
		models.FileRecord{AbsolutePath: "/srcA/one.txt", Size: 1, SourceRoot: "/srcA"},
		models.FileRecord{AbsolutePath: "/srcA/two.txt", Size: 1, SourceRoot: "/srcA"},
		models.FileRecord{AbsolutePath: "/srcB/three.txt", Size: 1, SourceRoot: "/srcB"},
	)

	builder := defaultBuilder(0)
	first := builder.Build(scan, nil, "/target")
	second := builder.Build(scan, nil, "/target")

	if len(first.Entries) != len(second.Entries) {
		t.Fatalf("entry counts differ: %d vs %d", len(first.Entries), len(second.Entries))
	}
	for i := range first.Entries {
		if first.Entries[i].SourcePath != second.Entries[i].SourcePath ||
			first.Entries[i].Destination != second.Entries[i].Destination ||
			first.Entries[i].Status != second.Entries[i].Status {
			t.Errorf("entry %d differs between identical builds", i)
		}
	}
}
