package output

import (
	"fmt"
	"io"
	"time"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct{}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// ScanResult renders an inventory scan summary
func (f *HumanFormatter) ScanResult(w io.Writer, result *models.ScanResult) error {
	fmt.Fprintf(w, "Scanned %d files (%s) in %s\n",
		result.TotalFiles(),
		models.FormatSize(result.TotalBytes()),
		result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))

	for _, root := range result.Roots {
		fmt.Fprintf(w, "  %s: %d files, %d dirs, %s\n",
			root.Root, root.FilesFound, root.DirsFound, models.FormatSize(root.BytesFound))
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped %d entries:\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Fprintf(w, "  %s (%s)\n", s.Path, s.Reason)
		}
	}

	return nil
}

// Duplicates renders duplicate groups and naming conflicts
func (f *HumanFormatter) Duplicates(w io.Writer, index *models.DuplicateIndex, conflicts []models.ConflictSet) error {
	if len(index.Groups) == 0 {
		fmt.Fprintln(w, "No duplicate files found.")
	} else {
		fmt.Fprintf(w, "Found %d duplicate groups:\n", len(index.Groups))
		for _, g := range index.Groups {
			fmt.Fprintf(w, "\n  %s (%d copies)\n", shortHash(g.Hash), len(g.Paths))
			for _, p := range g.Paths {
				fmt.Fprintf(w, "    %s\n", p)
			}
		}
	}

	if len(index.Failures) > 0 {
		fmt.Fprintf(w, "\n%d files could not be hashed:\n", len(index.Failures))
		for _, fail := range index.Failures {
			fmt.Fprintf(w, "  %s (%s)\n", fail.Path, fail.Error)
		}
	}

	if len(conflicts) > 0 {
		fmt.Fprintf(w, "\n%d filenames appear in more than one source root:\n", len(conflicts))
		for _, c := range conflicts {
			fmt.Fprintf(w, "  %s:\n", c.BaseName)
			for _, rec := range c.Records {
				fmt.Fprintf(w, "    %s\n", rec.AbsolutePath)
			}
		}
	}

	return nil
}

// Manifest renders a planning summary for a written manifest
func (f *HumanFormatter) Manifest(w io.Writer, m *models.Manifest, path string) error {
	counts := m.CountByStatus()

	fmt.Fprintf(w, "Manifest written: %s\n", path)
	fmt.Fprintf(w, "  Run:      %s\n", m.RunID)
	fmt.Fprintf(w, "  Target:   %s\n", m.TargetRoot)
	fmt.Fprintf(w, "  Entries:  %d (%d planned, %d conflicts)\n",
		len(m.Entries), counts[models.StatusPlanned], counts[models.StatusConflict])

	if counts[models.StatusConflict] > 0 {
		fmt.Fprintln(w, "\nConflicts:")
		for _, e := range m.Entries {
			if e.Status == models.StatusConflict {
				fmt.Fprintf(w, "  %s -> %s (%s)\n", e.SourcePath, e.Destination, e.NoteText())
			}
		}
	}

	return nil
}

// Execution renders a commit report and optional verification
func (f *HumanFormatter) Execution(w io.Writer, report *models.ExecutionReport, verification *models.VerificationReport) error {
	fmt.Fprintf(w, "%s run completed in %s\n",
		titleCase(report.Direction), report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Moved:   %d (%s)\n", report.Moved, models.FormatSize(report.BytesMoved))
	fmt.Fprintf(w, "  Skipped: %d\n", report.Skipped)
	fmt.Fprintf(w, "  Failed:  %d\n", report.Failed)

	if report.Failed > 0 {
		fmt.Fprintln(w, "\nFailures:")
		for _, s := range report.Steps {
			if s.Outcome == models.OutcomeFailed {
				fmt.Fprintf(w, "  %s -> %s (%s)\n", s.SourcePath, s.Destination, s.Reason)
			}
		}
	}

	if verification != nil {
		fmt.Fprintf(w, "\nVerification: %d expected, %d found, %d missing\n",
			verification.Expected, verification.Found, verification.Missing)
		for _, p := range verification.MissingPaths {
			fmt.Fprintf(w, "  missing: %s\n", p)
		}
	}

	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
