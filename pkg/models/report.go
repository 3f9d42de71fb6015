package models

import (
	"time"
)

// StepOutcome classifies the result of one executed move
type StepOutcome string

const (
	// OutcomeMoved indicates the file was moved successfully
	OutcomeMoved StepOutcome = "MOVED"
	// OutcomeSkipped indicates the source no longer existed (or, on
	// reverse, the destination no longer existed)
	OutcomeSkipped StepOutcome = "SKIPPED"
	// OutcomeFailed indicates the move failed; the batch continues
	OutcomeFailed StepOutcome = "FAILED"
)

// StepResult records the outcome of one procedure step
type StepResult struct {
	SourcePath  string
	Destination string
	Outcome     StepOutcome
	Reason      string
}

// RunStatus represents the overall result of a commit run
type RunStatus string

const (
	// RunSuccess indicates every step moved or was skipped
	RunSuccess RunStatus = "success"
	// RunPartial indicates some steps failed
	RunPartial RunStatus = "partial"
	// RunFailed indicates the run aborted before acting
	RunFailed RunStatus = "failed"
)

// ExitCode returns the process exit code for the run status
func (s RunStatus) ExitCode() int {
	switch s {
	case RunSuccess:
		return 0
	case RunPartial:
		return 1
	case RunFailed:
		return 2
	default:
		return 2
	}
}

// ExecutionReport represents the results of one forward or reverse commit
type ExecutionReport struct {
	RunID        string
	ManifestPath string
	Direction    string // "forward" or "reverse"
	DryRun       bool

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Steps []StepResult

	Moved   int
	Skipped int
	Failed  int

	BytesMoved int64

	Status RunStatus
}

// Tally recomputes the counters and overall status from Steps
func (r *ExecutionReport) Tally() {
	r.Moved, r.Skipped, r.Failed = 0, 0, 0
	for _, s := range r.Steps {
		switch s.Outcome {
		case OutcomeMoved:
			r.Moved++
		case OutcomeSkipped:
			r.Skipped++
		case OutcomeFailed:
			r.Failed++
		}
	}
	if r.Failed > 0 {
		r.Status = RunPartial
	} else {
		r.Status = RunSuccess
	}
}

// VerificationReport aggregates the post-commit destination check.
// A non-zero Missing count is a warning, never an automatic rollback.
type VerificationReport struct {
	ManifestPath string
	Expected     int
	Found        int
	Missing      int
	MissingPaths []string
}
