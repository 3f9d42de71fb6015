package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/logging"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
)

// Step is one previewed move
type Step struct {
	Index       int
	SourcePath  string
	Destination string
}

// ForwardProcedure performs the moves a manifest plans. It is derived
// deterministically from the manifest and acts only on PLANNED entries.
// Preview and Render are read-only; Commit needs a Confirmation token.
type ForwardProcedure struct {
	manifest     *models.Manifest
	manifestPath string
	mover        Mover
	logger       logging.Logger
}

// NewForward derives the forward procedure from a manifest
func NewForward(manifest *models.Manifest, manifestPath string, mover Mover, logger logging.Logger) *ForwardProcedure {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &ForwardProcedure{
		manifest:     manifest,
		manifestPath: manifestPath,
		mover:        mover,
		logger:       logger,
	}
}

// Preview lists the moves a commit would attempt, without touching anything
func (p *ForwardProcedure) Preview() []Step {
	return previewSteps(p.manifest.Planned(), false)
}

// Render writes a reviewable, storable representation of the procedure
func (p *ForwardProcedure) Render(w io.Writer) error {
	return renderSteps(w, "forward", p.manifest, p.Preview())
}

// Commit executes every PLANNED entry in manifest order. A missing source
// is SKIPPED, which makes repeated commits of the same manifest safe: files
// already moved are simply skipped on the next run. Failures are recorded
// per entry and never abort the batch.
func (p *ForwardProcedure) Commit(ctx context.Context, token Confirmation) (*models.ExecutionReport, error) {
	if !token.OK() {
		return nil, models.ErrNotConfirmed
	}

	report := &models.ExecutionReport{
		RunID:        p.manifest.RunID,
		ManifestPath: p.manifestPath,
		Direction:    "forward",
		StartTime:    time.Now(),
	}

	for _, entry := range p.manifest.Planned() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		step := models.StepResult{
			SourcePath:  entry.SourcePath,
			Destination: entry.Destination,
		}

		exists, err := p.mover.Exists(ctx, entry.SourcePath)
		if err != nil {
			step.Outcome = models.OutcomeFailed
			step.Reason = err.Error()
			p.record(ctx, report, step)
			continue
		}
		if !exists {
			step.Outcome = models.OutcomeSkipped
			step.Reason = "source missing"
			p.record(ctx, report, step)
			continue
		}

		size, _ := p.mover.Stat(ctx, entry.SourcePath)

		if err := p.mover.MkdirAll(ctx, parentDir(entry.Destination)); err != nil {
			step.Outcome = models.OutcomeFailed
			step.Reason = err.Error()
			p.record(ctx, report, step)
			continue
		}

		if err := p.mover.Move(ctx, entry.SourcePath, entry.Destination); err != nil {
			step.Outcome = models.OutcomeFailed
			if errors.Is(err, models.ErrDestinationExists) {
				step.Reason = "destination already exists"
			} else {
				step.Reason = err.Error()
			}
			p.record(ctx, report, step)
			continue
		}

		step.Outcome = models.OutcomeMoved
		report.BytesMoved += size
		p.record(ctx, report, step)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Tally()
	return report, nil
}

// ReverseProcedure undoes a completed forward run: the same PLANNED
// entries, walked in strict reverse of manifest order, each moved from its
// destination back to its original source location.
type ReverseProcedure struct {
	manifest     *models.Manifest
	manifestPath string
	mover        Mover
	logger       logging.Logger
}

// NewReverse derives the reverse procedure from a manifest
func NewReverse(manifest *models.Manifest, manifestPath string, mover Mover, logger logging.Logger) *ReverseProcedure {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &ReverseProcedure{
		manifest:     manifest,
		manifestPath: manifestPath,
		mover:        mover,
		logger:       logger,
	}
}

// Preview lists the restore moves in execution (reverse) order
func (p *ReverseProcedure) Preview() []Step {
	return previewSteps(p.manifest.Planned(), true)
}

// Render writes a reviewable, storable representation of the procedure
func (p *ReverseProcedure) Render(w io.Writer) error {
	return renderSteps(w, "reverse", p.manifest, p.Preview())
}

// Commit moves every currently-present destination back to its source.
// A destination that no longer exists is silently skipped: a file that was
// never moved (or was moved away since) has nothing to restore.
func (p *ReverseProcedure) Commit(ctx context.Context, token Confirmation) (*models.ExecutionReport, error) {
	if !token.OK() {
		return nil, models.ErrNotConfirmed
	}

	report := &models.ExecutionReport{
		RunID:        p.manifest.RunID,
		ManifestPath: p.manifestPath,
		Direction:    "reverse",
		StartTime:    time.Now(),
	}

	planned := p.manifest.Planned()
	for i := len(planned) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry := planned[i]

		step := models.StepResult{
			SourcePath:  entry.Destination,
			Destination: entry.SourcePath,
		}

		exists, err := p.mover.Exists(ctx, entry.Destination)
		if err != nil {
			step.Outcome = models.OutcomeFailed
			step.Reason = err.Error()
			p.record(ctx, report, step)
			continue
		}
		if !exists {
			step.Outcome = models.OutcomeSkipped
			step.Reason = "destination missing"
			p.record(ctx, report, step)
			continue
		}

		size, _ := p.mover.Stat(ctx, entry.Destination)

		if err := p.mover.MkdirAll(ctx, parentDir(entry.SourcePath)); err != nil {
			step.Outcome = models.OutcomeFailed
			step.Reason = err.Error()
			p.record(ctx, report, step)
			continue
		}

		if err := p.mover.Move(ctx, entry.Destination, entry.SourcePath); err != nil {
			step.Outcome = models.OutcomeFailed
			if errors.Is(err, models.ErrDestinationExists) {
				step.Reason = "original location already occupied"
			} else {
				step.Reason = err.Error()
			}
			p.record(ctx, report, step)
			continue
		}

		step.Outcome = models.OutcomeMoved
		report.BytesMoved += size
		p.record(ctx, report, step)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	report.Tally()
	return report, nil
}

func (p *ForwardProcedure) record(ctx context.Context, report *models.ExecutionReport, step models.StepResult) {
	report.Steps = append(report.Steps, step)
	logStep(ctx, p.logger, step)
}

func (p *ReverseProcedure) record(ctx context.Context, report *models.ExecutionReport, step models.StepResult) {
	report.Steps = append(report.Steps, step)
	logStep(ctx, p.logger, step)
}

func logStep(ctx context.Context, logger logging.Logger, step models.StepResult) {
	fields := logging.Fields{
		"source":      step.SourcePath,
		"destination": step.Destination,
		"outcome":     string(step.Outcome),
	}
	if step.Reason != "" {
		fields["reason"] = step.Reason
	}
	switch step.Outcome {
	case models.OutcomeFailed:
		logger.Error(ctx, "move failed", nil, fields)
	case models.OutcomeSkipped:
		logger.Warn(ctx, "move skipped", fields)
	default:
		logger.Info(ctx, "moved", fields)
	}
}

func previewSteps(planned []models.PlanEntry, reverse bool) []Step {
	steps := make([]Step, 0, len(planned))
	if reverse {
		for i := len(planned) - 1; i >= 0; i-- {
			steps = append(steps, Step{
				Index:       len(steps) + 1,
				SourcePath:  planned[i].Destination,
				Destination: planned[i].SourcePath,
			})
		}
		return steps
	}
	for i, e := range planned {
		steps = append(steps, Step{
			Index:       i + 1,
			SourcePath:  e.SourcePath,
			Destination: e.Destination,
		})
	}
	return steps
}

// renderSteps materializes a procedure as reviewable text. Paths are
// written literally; the listing round-trips through the manifest, which
// stays the source of truth.
func renderSteps(w io.Writer, direction string, m *models.Manifest, steps []Step) error {
	if _, err := fmt.Fprintf(w, "# %s procedure for run %s (%d moves)\n", direction, m.RunID, len(steps)); err != nil {
		return err
	}
	for _, s := range steps {
		if _, err := fmt.Fprintf(w, "%4d  %s -> %s\n", s.Index, s.SourcePath, s.Destination); err != nil {
			return err
		}
	}
	return nil
}
