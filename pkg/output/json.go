package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonScanRoot struct {
	Root  string `json:"root"`
	Files int    `json:"files"`
	Dirs  int    `json:"dirs"`
	Bytes int64  `json:"bytes"`
}

type jsonSkipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type jsonScanResult struct {
	TotalFiles int            `json:"total_files"`
	TotalBytes int64          `json:"total_bytes"`
	DurationMs int64          `json:"duration_ms"`
	Roots      []jsonScanRoot `json:"roots"`
	Skipped    []jsonSkipped  `json:"skipped,omitempty"`
}

// ScanResult renders an inventory scan summary
func (f *JSONFormatter) ScanResult(w io.Writer, result *models.ScanResult) error {
	out := jsonScanResult{
		TotalFiles: result.TotalFiles(),
		TotalBytes: result.TotalBytes(),
		DurationMs: result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	}
	for _, r := range result.Roots {
		out.Roots = append(out.Roots, jsonScanRoot{
			Root:  r.Root,
			Files: r.FilesFound,
			Dirs:  r.DirsFound,
			Bytes: r.BytesFound,
		})
	}
	for _, s := range result.Skipped {
		out.Skipped = append(out.Skipped, jsonSkipped{Path: s.Path, Reason: s.Reason})
	}
	return encode(w, out)
}

type jsonDuplicateGroup struct {
	Hash  string   `json:"hash"`
	Paths []string `json:"paths"`
}

type jsonConflictSet struct {
	BaseName string   `json:"base_name"`
	Paths    []string `json:"paths"`
}

type jsonDuplicates struct {
	Groups        []jsonDuplicateGroup `json:"groups"`
	HashFailures  []jsonSkipped        `json:"hash_failures,omitempty"`
	NameConflicts []jsonConflictSet    `json:"name_conflicts,omitempty"`
	BytesHashed   int64                `json:"bytes_hashed"`
}

// Duplicates renders duplicate groups and naming conflicts
func (f *JSONFormatter) Duplicates(w io.Writer, index *models.DuplicateIndex, conflicts []models.ConflictSet) error {
	out := jsonDuplicates{
		Groups:      []jsonDuplicateGroup{},
		BytesHashed: index.BytesHashed,
	}
	for _, g := range index.Groups {
		out.Groups = append(out.Groups, jsonDuplicateGroup{Hash: g.Hash, Paths: g.Paths})
	}
	for _, fail := range index.Failures {
		out.HashFailures = append(out.HashFailures, jsonSkipped{Path: fail.Path, Reason: fail.Error})
	}
	for _, c := range conflicts {
		set := jsonConflictSet{BaseName: c.BaseName}
		for _, rec := range c.Records {
			set.Paths = append(set.Paths, rec.AbsolutePath)
		}
		out.NameConflicts = append(out.NameConflicts, set)
	}
	return encode(w, out)
}

type jsonManifestEntry struct {
	Status      string `json:"status"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Notes       string `json:"notes,omitempty"`
}

type jsonManifest struct {
	Path        string              `json:"path"`
	RunID       string              `json:"run_id"`
	TargetRoot  string              `json:"target_root"`
	SourceRoots []string            `json:"source_roots"`
	GeneratedAt time.Time           `json:"generated_at"`
	Planned     int                 `json:"planned"`
	Conflicts   int                 `json:"conflicts"`
	Entries     []jsonManifestEntry `json:"entries"`
}

// Manifest renders a planning summary for a written manifest
func (f *JSONFormatter) Manifest(w io.Writer, m *models.Manifest, path string) error {
	counts := m.CountByStatus()
	out := jsonManifest{
		Path:        path,
		RunID:       m.RunID,
		TargetRoot:  m.TargetRoot,
		SourceRoots: m.SourceRoots,
		GeneratedAt: m.GeneratedAt,
		Planned:     counts[models.StatusPlanned],
		Conflicts:   counts[models.StatusConflict],
	}
	for _, e := range m.Entries {
		out.Entries = append(out.Entries, jsonManifestEntry{
			Status:      string(e.Status),
			Source:      e.SourcePath,
			Destination: e.Destination,
			Notes:       e.NoteText(),
		})
	}
	return encode(w, out)
}

type jsonStep struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Outcome     string `json:"outcome"`
	Reason      string `json:"reason,omitempty"`
}

type jsonExecution struct {
	RunID        string            `json:"run_id"`
	Manifest     string            `json:"manifest"`
	Direction    string            `json:"direction"`
	Status       string            `json:"status"`
	DurationMs   int64             `json:"duration_ms"`
	Moved        int               `json:"moved"`
	Skipped      int               `json:"skipped"`
	Failed       int               `json:"failed"`
	BytesMoved   int64             `json:"bytes_moved"`
	Steps        []jsonStep        `json:"steps"`
	Verification *jsonVerification `json:"verification,omitempty"`
}

type jsonVerification struct {
	Expected     int      `json:"expected"`
	Found        int      `json:"found"`
	Missing      int      `json:"missing"`
	MissingPaths []string `json:"missing_paths,omitempty"`
}

// Execution renders a commit report and optional verification
func (f *JSONFormatter) Execution(w io.Writer, report *models.ExecutionReport, verification *models.VerificationReport) error {
	out := jsonExecution{
		RunID:      report.RunID,
		Manifest:   report.ManifestPath,
		Direction:  report.Direction,
		Status:     string(report.Status),
		DurationMs: report.Duration.Milliseconds(),
		Moved:      report.Moved,
		Skipped:    report.Skipped,
		Failed:     report.Failed,
		BytesMoved: report.BytesMoved,
	}
	for _, s := range report.Steps {
		out.Steps = append(out.Steps, jsonStep{
			Source:      s.SourcePath,
			Destination: s.Destination,
			Outcome:     string(s.Outcome),
			Reason:      s.Reason,
		})
	}
	if verification != nil {
		out.Verification = &jsonVerification{
			Expected:     verification.Expected,
			Found:        verification.Found,
			Missing:      verification.Missing,
			MissingPaths: verification.MissingPaths,
		}
	}
	return encode(w, out)
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
