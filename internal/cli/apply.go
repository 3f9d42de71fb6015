package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/migrate"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
	planpkg "github.com/gfreedman/file-folder-cleanup-util/pkg/plan"
)

// ApplyFlags holds apply command flags
type ApplyFlags struct {
	Commit  bool
	Yes     bool
	Reclaim bool
	Backup  string
	Output  string
}

var applyFlags ApplyFlags

// NewApplyCommand creates the apply command
func NewApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <manifest>",
		Short: "Preview or execute a migration manifest",
		Long: `Without --commit, list the moves a manifest plans and change nothing.
With --commit, verify a backup artifact exists, ask for confirmation, move
every PLANNED file, then re-check that each destination exists. Applying
the same manifest twice is safe: files already moved are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runApply,
	}

	cmd.Flags().BoolVar(&applyFlags.Commit, "commit", false, "actually move files (default: preview only)")
	cmd.Flags().BoolVarP(&applyFlags.Yes, "yes", "y", false, "confirm non-interactively")
	cmd.Flags().BoolVar(&applyFlags.Reclaim, "reclaim", false, "remove emptied source directories after commit")
	cmd.Flags().StringVar(&applyFlags.Backup, "backup", "", "backup artifact to check before commit (default from config)")
	cmd.Flags().StringVarP(&applyFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	manifestPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	formatter, err := newFormatter(cfg, applyFlags.Output)
	if err != nil {
		return err
	}

	manifest, err := planpkg.Read(manifestPath)
	if err != nil {
		return err
	}
	planned := len(manifest.Planned())

	commitMode := applyFlags.Commit || !cfg.Migration.DryRun
	if !commitMode {
		forward := migrate.NewForward(manifest, manifestPath, migrate.NewLocalMover(cfg.Performance.BufferSize), nil)
		return forward.Render(stdout())
	}

	logger, err := newRunLogger(cfg, manifestPath, manifest.RunID)
	if err != nil {
		return err
	}
	defer logger.Close()

	mover := migrate.NewLocalMover(cfg.Performance.BufferSize)
	supervisor := migrate.NewSupervisor(mover, logger)

	backupPath := applyFlags.Backup
	if backupPath == "" {
		backupPath = cfg.Backup.Path
	}

	// Backup preflight happens before the operator is asked anything, so
	// the override question can be asked on its own.
	var backupOverride migrate.Confirmation
	if err := supervisor.CheckBackup(backupPath, cfg.Backup.Required); err != nil {
		if !errors.Is(err, models.ErrBackupMissing) {
			return err
		}
		backupOverride, err = confirmOperation(
			"No backup artifact found",
			fmt.Sprintf("Expected a backup at %q. Proceed without one?", backupPath),
			false)
		if err != nil {
			return err
		}
		if !backupOverride.OK() {
			return fmt.Errorf("aborted: %w", models.ErrBackupMissing)
		}
	}

	token, err := confirmOperation(
		fmt.Sprintf("Move %d files?", planned),
		fmt.Sprintf("Manifest %s plans %d moves into %s.", manifestPath, planned, manifest.TargetRoot),
		applyFlags.Yes)
	if err != nil {
		return err
	}
	if !token.OK() {
		return models.ErrNotConfirmed
	}

	report, verification, err := supervisor.Apply(ctx, manifestPath, token, migrate.ApplyOptions{
		BackupPath:        backupPath,
		BackupRequired:    cfg.Backup.Required,
		BackupOverride:    backupOverride,
		ReclaimSourceDirs: applyFlags.Reclaim,
	})
	if err != nil {
		return err
	}

	if err := formatter.Execution(stdout(), report, verification); err != nil {
		return err
	}

	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code, Message: fmt.Sprintf("%d moves failed", report.Failed)}
	}
	return nil
}
