package output

import (
	"fmt"
	"io"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// Formatter is the presentation boundary. The planning and execution
// packages emit structured data only; formatters turn it into something
// for humans or for machines.
type Formatter interface {
	// ScanResult renders an inventory scan summary
	ScanResult(w io.Writer, result *models.ScanResult) error

	// Duplicates renders duplicate groups and naming conflicts
	Duplicates(w io.Writer, index *models.DuplicateIndex, conflicts []models.ConflictSet) error

	// Manifest renders a planning summary for a written manifest
	Manifest(w io.Writer, m *models.Manifest, path string) error

	// Execution renders a commit report and optional verification
	Execution(w io.Writer, report *models.ExecutionReport, verification *models.VerificationReport) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for a config format string
func New(format string) (Formatter, error) {
	switch format {
	case "human", "":
		return NewHumanFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use: human, json)", format)
	}
}
