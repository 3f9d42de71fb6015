package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/logging"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/plan"
)

// ApplyOptions configures one supervised forward run
type ApplyOptions struct {
	// BackupPath is the backup artifact whose existence is checked before
	// commit. The supervisor never creates backups, it only verifies one
	// is there.
	BackupPath string

	// BackupRequired enforces the backup check
	BackupRequired bool

	// BackupOverride lets the operator proceed without a backup artifact.
	// It needs its own explicit confirmation.
	BackupOverride Confirmation

	// ReclaimSourceDirs removes emptied source directories after commit
	ReclaimSourceDirs bool
}

// Supervisor drives a confirmed forward run end to end: backup preflight,
// commit, post-commit verification and optional reclamation of emptied
// source directories.
type Supervisor struct {
	mover  Mover
	logger logging.Logger
}

// NewSupervisor creates a supervisor
func NewSupervisor(mover Mover, logger logging.Logger) *Supervisor {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Supervisor{mover: mover, logger: logger}
}

// CheckBackup verifies the backup artifact exists. Returns
// models.ErrBackupMissing when required and absent.
func (s *Supervisor) CheckBackup(path string, required bool) error {
	if !required {
		return nil
	}
	if path == "" {
		return fmt.Errorf("%w: no backup path configured", models.ErrBackupMissing)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", models.ErrBackupMissing, path)
		}
		return fmt.Errorf("failed to check backup artifact: %w", err)
	}
	return nil
}

// Apply runs the forward procedure for a persisted manifest. The backup
// preflight happens before anything mutates; a missing artifact aborts
// unless the operator separately confirmed the override. After the commit
// the manifest is re-read from disk and every PLANNED destination is
// checked; missing destinations are a warning in the verification report,
// never an automatic rollback.
func (s *Supervisor) Apply(ctx context.Context, manifestPath string, token Confirmation, opts ApplyOptions) (*models.ExecutionReport, *models.VerificationReport, error) {
	manifest, err := plan.Read(manifestPath)
	if err != nil {
		return nil, nil, err
	}

	if err := s.CheckBackup(opts.BackupPath, opts.BackupRequired); err != nil {
		if !opts.BackupOverride.OK() {
			return nil, nil, err
		}
		s.logger.Warn(ctx, "proceeding without backup artifact", logging.Fields{
			"backup_path": opts.BackupPath,
		})
	}

	s.logger.Info(ctx, "starting forward run", logging.Fields{
		"manifest": manifestPath,
		"planned":  len(manifest.Planned()),
	})

	forward := NewForward(manifest, manifestPath, s.mover, s.logger)
	report, err := forward.Commit(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	verification, err := s.Verify(ctx, manifestPath)
	if err != nil {
		return report, nil, err
	}
	if verification.Missing > 0 {
		s.logger.Warn(ctx, "verification found missing destinations", logging.Fields{
			"expected": verification.Expected,
			"found":    verification.Found,
			"missing":  verification.Missing,
		})
	}

	if opts.ReclaimSourceDirs {
		for _, root := range manifest.SourceRoots {
			removed, reclaimErr := s.ReclaimEmptyDirs(ctx, root)
			if reclaimErr != nil {
				s.logger.Warn(ctx, "directory reclamation incomplete", logging.Fields{
					"root":  root,
					"error": reclaimErr.Error(),
				})
				continue
			}
			if len(removed) > 0 {
				s.logger.Info(ctx, "reclaimed empty directories", logging.Fields{
					"root":  root,
					"count": len(removed),
				})
			}
		}
	}

	return report, verification, nil
}

// Revert runs the reverse procedure for a persisted manifest
func (s *Supervisor) Revert(ctx context.Context, manifestPath string, token Confirmation) (*models.ExecutionReport, error) {
	manifest, err := plan.Read(manifestPath)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "starting reverse run", logging.Fields{
		"manifest": manifestPath,
		"planned":  len(manifest.Planned()),
	})

	reverse := NewReverse(manifest, manifestPath, s.mover, s.logger)
	return reverse.Commit(ctx, token)
}

// Verify re-reads the manifest from disk and checks that every PLANNED
// destination exists, aggregating expected/found/missing counts.
func (s *Supervisor) Verify(ctx context.Context, manifestPath string) (*models.VerificationReport, error) {
	manifest, err := plan.Read(manifestPath)
	if err != nil {
		return nil, err
	}

	report := &models.VerificationReport{ManifestPath: manifestPath}
	for _, entry := range manifest.Planned() {
		report.Expected++
		exists, err := s.mover.Exists(ctx, entry.Destination)
		if err != nil {
			return nil, fmt.Errorf("verification failed on %s: %w", entry.Destination, err)
		}
		if exists {
			report.Found++
		} else {
			report.Missing++
			report.MissingPaths = append(report.MissingPaths, entry.Destination)
		}
	}

	return report, nil
}

// ReclaimEmptyDirs removes empty directories under root, repeating until
// a fixed point: removing a directory may empty its parent. The root
// itself is never removed.
func (s *Supervisor) ReclaimEmptyDirs(ctx context.Context, root string) ([]string, error) {
	var removed []string

	for {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		var empties []string
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() || path == root {
				return nil
			}
			entries, readErr := os.ReadDir(path)
			if readErr == nil && len(entries) == 0 {
				empties = append(empties, path)
			}
			return nil
		})
		if err != nil {
			return removed, fmt.Errorf("failed to walk %s: %w", root, err)
		}
		if len(empties) == 0 {
			return removed, nil
		}

		// Deepest first so nested empties fall in one pass
		sort.Slice(empties, func(i, j int) bool {
			return len(empties[i]) > len(empties[j])
		})

		progress := false
		for _, dir := range empties {
			if err := os.Remove(dir); err == nil {
				removed = append(removed, dir)
				progress = true
			}
		}
		if !progress {
			return removed, nil
		}
	}
}
