package plan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// Manifest file format: line-oriented, pipe-delimited.
//
//	# comment
//	TARGET_DIR|<path>
//	SOURCE_DIRS|<space-separated paths>
//	GENERATED|<RFC3339 timestamp>
//	<STATUS>|<source>|<destination>|<notes>
//
// Blank lines and '#' comments are ignored by the parser. Body lines are
// split into at most four fields, so notes may themselves contain pipes;
// source and destination paths are carried literally, whitespace included.
// A pipe inside a path would corrupt the body fields on re-parse, so such
// paths are rejected at encode time.

const (
	headerTargetDir  = "TARGET_DIR"
	headerSourceDirs = "SOURCE_DIRS"
	headerGenerated  = "GENERATED"

	runCommentPrefix = "# run "
)

// Write persists a manifest into dir as a new file named after the
// generation time and run ID. Manifests are never overwritten; re-planning
// always yields a new file.
func Write(m *models.Manifest, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create manifest directory: %w", err)
	}

	name := fmt.Sprintf("manifest-%s-%s.txt",
		m.GeneratedAt.UTC().Format("20060102-150405"), shortID(m.RunID))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	if err := Encode(m, file); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return path, nil
}

// Encode writes a manifest in the pipe-delimited format. Entries whose
// source or destination path contains the field delimiter are rejected:
// they could not be read back faithfully.
func Encode(m *models.Manifest, w io.Writer) error {
	for i, e := range m.Entries {
		if strings.Contains(e.SourcePath, "|") || strings.Contains(e.Destination, "|") {
			return fmt.Errorf("entry %d: path contains '|', which the manifest format cannot carry", i+1)
		}
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# file-folder-cleanup-util migration manifest")
	fmt.Fprintf(bw, "%s%s\n", runCommentPrefix, m.RunID)
	fmt.Fprintf(bw, "%s|%s\n", headerTargetDir, m.TargetRoot)
	fmt.Fprintf(bw, "%s|%s\n", headerSourceDirs, strings.Join(m.SourceRoots, " "))
	fmt.Fprintf(bw, "%s|%s\n", headerGenerated, m.GeneratedAt.UTC().Format(time.RFC3339))

	for _, e := range m.Entries {
		fmt.Fprintf(bw, "%s|%s|%s|%s\n", e.Status, e.SourcePath, e.Destination, e.NoteText())
	}

	return bw.Flush()
}

// Read loads a manifest file from disk
func Read(path string) (*models.Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	m, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Decode parses the pipe-delimited manifest format
func Decode(r io.Reader) (*models.Manifest, error) {
	m := &models.Manifest{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if strings.HasPrefix(line, runCommentPrefix) {
				m.RunID = strings.TrimSpace(strings.TrimPrefix(line, runCommentPrefix))
			}
			continue
		}

		key, rest, found := strings.Cut(line, "|")
		if !found {
			return nil, fmt.Errorf("line %d: not pipe-delimited", lineNo)
		}

		switch key {
		case headerTargetDir:
			m.TargetRoot = rest
			continue
		case headerSourceDirs:
			if rest != "" {
				m.SourceRoots = strings.Split(rest, " ")
			}
			continue
		case headerGenerated:
			ts, err := time.Parse(time.RFC3339, rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad timestamp: %w", lineNo, err)
			}
			m.GeneratedAt = ts
			continue
		}

		status := models.PlanStatus(key)
		if !models.ValidStatus(status) {
			return nil, fmt.Errorf("line %d: unknown record %q", lineNo, key)
		}

		fields := strings.SplitN(rest, "|", 3)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected STATUS|source|destination|notes", lineNo)
		}

		entry := models.PlanEntry{
			Status:      status,
			SourcePath:  fields[0],
			Destination: fields[1],
		}
		if len(fields) == 3 && fields[2] != "" {
			entry.Notes = strings.Split(fields[2], "; ")
		}

		if entry.Status == models.StatusPlanned && (entry.SourcePath == "" || entry.Destination == "") {
			return nil, fmt.Errorf("line %d: PLANNED entry with empty source or destination", lineNo)
		}

		m.Entries = append(m.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return m, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
