package migrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

func testManifest(entries ...models.PlanEntry) *models.Manifest {
	return &models.Manifest{
		RunID:   "test-run",
		Entries: entries,
	}
}

func plannedEntry(source, destination string) models.PlanEntry {
	return models.PlanEntry{
		Status:      models.StatusPlanned,
		SourcePath:  source,
		Destination: destination,
	}
}

// ============== Confirmation Tests ==============

func TestConfirmation_ZeroValueFailsClosed(t *testing.T) {
	var token Confirmation
	if token.OK() {
		t.Error("zero-value Confirmation must not affirm")
	}
	if Confirm(false).OK() {
		t.Error("Confirm(false) must not affirm")
	}
	if !Confirm(true).OK() {
		t.Error("Confirm(true) should affirm")
	}
}

func TestCommit_RefusedWithoutConfirmation(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "file.txt")
	writeFile(t, source, "content")

	manifest := testManifest(plannedEntry(source, filepath.Join(dir, "target", "file.txt")))
	forward := NewForward(manifest, "manifest.txt", NewLocalMover(4096), nil)

	var token Confirmation
	if _, err := forward.Commit(context.Background(), token); !errors.Is(err, models.ErrNotConfirmed) {
		t.Fatalf("Commit() error = %v, want ErrNotConfirmed", err)
	}

	// Nothing moved
	if _, err := os.Stat(source); err != nil {
		t.Errorf("source was disturbed by an unconfirmed commit: %v", err)
	}
}

// ============== Forward Procedure Tests ==============

func TestForward_Commit(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "src", "a.txt")
	b := filepath.Join(dir, "src", "b.txt")
	writeFile(t, a, "aaa")
	writeFile(t, b, "bbb")

	manifest := testManifest(
		plannedEntry(a, filepath.Join(dir, "target", "Documents", "a.txt")),
		plannedEntry(b, filepath.Join(dir, "target", "Documents", "b.txt")),
		models.PlanEntry{Status: models.StatusConflict, SourcePath: filepath.Join(dir, "src", "c.txt"), Destination: filepath.Join(dir, "target", "c.txt")},
	)

	forward := NewForward(manifest, "manifest.txt", NewLocalMover(4096), nil)
	report, err := forward.Commit(context.Background(), Confirm(true))
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	// CONFLICT entries never execute
	if len(report.Steps) != 2 {
		t.Fatalf("Steps = %d, want 2", len(report.Steps))
	}
	if report.Moved != 2 || report.Skipped != 0 || report.Failed != 0 {
		t.Errorf("tally = %d/%d/%d, want 2/0/0", report.Moved, report.Skipped, report.Failed)
	}
	if report.Status != models.RunSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}
	if report.BytesMoved != 6 {
		t.Errorf("BytesMoved = %d, want 6", report.BytesMoved)
	}

	if got := readFile(t, filepath.Join(dir, "target", "Documents", "a.txt")); got != "aaa" {
		t.Errorf("moved content = %q", got)
	}
}

func TestForward_MissingSourceSkipped(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.txt")
	writeFile(t, present, "x")

	manifest := testManifest(
		plannedEntry(filepath.Join(dir, "gone.txt"), filepath.Join(dir, "target", "gone.txt")),
		plannedEntry(present, filepath.Join(dir, "target", "present.txt")),
	)

	forward := NewForward(manifest, "manifest.txt", NewLocalMover(4096), nil)
	report, err := forward.Commit(context.Background(), Confirm(true))
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	if report.Moved != 1 || report.Skipped != 1 || report.Failed != 0 {
		t.Fatalf("tally = %d/%d/%d, want 1/1/0", report.Moved, report.Skipped, report.Failed)
	}
	if report.Steps[0].Outcome != models.OutcomeSkipped || report.Steps[0].Reason != "source missing" {
		t.Errorf("step 0 = %+v", report.Steps[0])
	}
	if report.Status != models.RunSuccess {
		t.Errorf("Status = %s, skips alone should not degrade the run", report.Status)
	}
}

func TestForward_RepeatCommitIsSafe(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "file.txt")
	destination := filepath.Join(dir, "target", "file.txt")
	writeFile(t, source, "content")

	manifest := testManifest(plannedEntry(source, destination))
	forward := NewForward(manifest, "manifest.txt", NewLocalMover(4096), nil)

	if _, err := forward.Commit(context.Background(), Confirm(true)); err != nil {
		t.Fatalf("first Commit() error: %v", err)
	}

	report, err := forward.Commit(context.Background(), Confirm(true))
	if err != nil {
		t.Fatalf("second Commit() error: %v", err)
	}
	if report.Skipped != 1 || report.Failed != 0 {
		t.Errorf("second run tally = %d skipped / %d failed, want 1/0", report.Skipped, report.Failed)
	}
	if got := readFile(t, destination); got != "content" {
		t.Errorf("destination content = %q after re-run", got)
	}
}

func TestForward_OccupiedDestinationFails(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "file.txt")
	destination := filepath.Join(dir, "target", "file.txt")
	writeFile(t, source, "incoming")
	writeFile(t, destination, "already here")

	manifest := testManifest(plannedEntry(source, destination))
	forward := NewForward(manifest, "manifest.txt", NewLocalMover(4096), nil)
	report, err := forward.Commit(context.Background(), Confirm(true))
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	if report.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", report.Failed)
	}
	if report.Steps[0].Reason != "destination already exists" {
		t.Errorf("Reason = %q, want 'destination already exists'", report.Steps[0].Reason)
	}
	if report.Status != models.RunPartial {
		t.Errorf("Status = %s, want partial", report.Status)
	}
	if report.Status.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", report.Status.ExitCode())
	}

	// Source stays in place so the operator can resolve and re-run
	if got := readFile(t, source); got != "incoming" {
		t.Errorf("source = %q, should be untouched", got)
	}
	if got := readFile(t, destination); got != "already here" {
		t.Errorf("destination = %q, should be untouched", got)
	}
}

func TestForward_PreviewAndRender(t *testing.T) {
	manifest := testManifest(
		plannedEntry("/src/a.txt", "/target/a.txt"),
		plannedEntry("/src/b.txt", "/target/b.txt"),
	)

	forward := NewForward(manifest, "manifest.txt", NewLocalMover(4096), nil)
	steps := forward.Preview()
	if len(steps) != 2 {
		t.Fatalf("Preview() = %d steps, want 2", len(steps))
	}
	if steps[0].Index != 1 || steps[0].SourcePath != "/src/a.txt" {
		t.Errorf("step 0 = %+v", steps[0])
	}

	var buf strings.Builder
	if err := forward.Render(&buf); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "forward procedure for run test-run (2 moves)") {
		t.Errorf("render header missing: %q", out)
	}
	if !strings.Contains(out, "/src/a.txt -> /target/a.txt") {
		t.Errorf("render body missing: %q", out)
	}
}

// ============== Reverse Procedure Tests ==============

func TestReverse_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "src", "sub", "a.txt")
	b := filepath.Join(dir, "src", "b.txt")
	writeFile(t, a, "aaa")
	writeFile(t, b, "bbb")

	manifest := testManifest(
		plannedEntry(a, filepath.Join(dir, "target", "a.txt")),
		plannedEntry(b, filepath.Join(dir, "target", "b.txt")),
	)

	mover := NewLocalMover(4096)
	forward := NewForward(manifest, "manifest.txt", mover, nil)
	if _, err := forward.Commit(context.Background(), Confirm(true)); err != nil {
		t.Fatalf("forward Commit() error: %v", err)
	}
	if _, err := os.Stat(a); !os.IsNotExist(err) {
		t.Fatal("forward commit did not move a.txt")
	}

	reverse := NewReverse(manifest, "manifest.txt", mover, nil)
	report, err := reverse.Commit(context.Background(), Confirm(true))
	if err != nil {
		t.Fatalf("reverse Commit() error: %v", err)
	}

	if report.Moved != 2 || report.Failed != 0 {
		t.Fatalf("reverse tally = %d moved / %d failed, want 2/0", report.Moved, report.Failed)
	}
	// Last moved first restored
	if report.Steps[0].Destination != b {
		t.Errorf("reverse order wrong: first restore = %s, want %s", report.Steps[0].Destination, b)
	}
	if got := readFile(t, a); got != "aaa" {
		t.Errorf("restored content = %q", got)
	}
	if got := readFile(t, b); got != "bbb" {
		t.Errorf("restored content = %q", got)
	}
}

func TestReverse_MissingDestinationSkipped(t *testing.T) {
	dir := t.TempDir()
	manifest := testManifest(
		plannedEntry(filepath.Join(dir, "src", "a.txt"), filepath.Join(dir, "target", "a.txt")),
	)

	reverse := NewReverse(manifest, "manifest.txt", NewLocalMover(4096), nil)
	report, err := reverse.Commit(context.Background(), Confirm(true))
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if report.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", report.Skipped)
	}
	if report.Steps[0].Reason != "destination missing" {
		t.Errorf("Reason = %q", report.Steps[0].Reason)
	}
}

func TestReverse_OccupiedSourceFails(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "src", "a.txt")
	destination := filepath.Join(dir, "target", "a.txt")
	writeFile(t, source, "newcomer")
	writeFile(t, destination, "moved earlier")

	manifest := testManifest(plannedEntry(source, destination))
	reverse := NewReverse(manifest, "manifest.txt", NewLocalMover(4096), nil)
	report, err := reverse.Commit(context.Background(), Confirm(true))
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("Failed = %d, want 1", report.Failed)
	}
	if report.Steps[0].Reason != "original location already occupied" {
		t.Errorf("Reason = %q", report.Steps[0].Reason)
	}
}

func TestReverse_PreviewOrder(t *testing.T) {
	manifest := testManifest(
		plannedEntry("/src/a.txt", "/target/a.txt"),
		plannedEntry("/src/b.txt", "/target/b.txt"),
	)

	reverse := NewReverse(manifest, "manifest.txt", NewLocalMover(4096), nil)
	steps := reverse.Preview()
	if len(steps) != 2 {
		t.Fatalf("Preview() = %d steps, want 2", len(steps))
	}
	if steps[0].SourcePath != "/target/b.txt" || steps[0].Destination != "/src/b.txt" {
		t.Errorf("step 0 = %+v, want b.txt restored first", steps[0])
	}
	if steps[0].Index != 1 || steps[1].Index != 2 {
		t.Errorf("indices = %d,%d, want execution order numbering", steps[0].Index, steps[1].Index)
	}
}
