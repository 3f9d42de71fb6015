package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/migrate"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
	planpkg "github.com/gfreedman/file-folder-cleanup-util/pkg/plan"
)

// RevertFlags holds revert command flags
type RevertFlags struct {
	Commit bool
	Yes    bool
	Output string
}

var revertFlags RevertFlags

// NewRevertCommand creates the revert command
func NewRevertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revert <manifest>",
		Short: "Undo a committed migration manifest",
		Long: `Move every file a manifest placed back to its original location,
walking the manifest in reverse order. Destinations that no longer exist
are skipped silently. Without --commit this only previews the restores.`,
		Args: cobra.ExactArgs(1),
		RunE: runRevert,
	}

	cmd.Flags().BoolVar(&revertFlags.Commit, "commit", false, "actually move files back (default: preview only)")
	cmd.Flags().BoolVarP(&revertFlags.Yes, "yes", "y", false, "confirm non-interactively")
	cmd.Flags().StringVarP(&revertFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runRevert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	manifestPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	formatter, err := newFormatter(cfg, revertFlags.Output)
	if err != nil {
		return err
	}

	manifest, err := planpkg.Read(manifestPath)
	if err != nil {
		return err
	}

	mover := migrate.NewLocalMover(cfg.Performance.BufferSize)

	if !revertFlags.Commit {
		reverse := migrate.NewReverse(manifest, manifestPath, mover, nil)
		return reverse.Render(stdout())
	}

	token, err := confirmOperation(
		fmt.Sprintf("Restore %d files?", len(manifest.Planned())),
		fmt.Sprintf("Manifest %s will be undone in reverse order.", manifestPath),
		revertFlags.Yes)
	if err != nil {
		return err
	}
	if !token.OK() {
		return models.ErrNotConfirmed
	}

	logger, err := newRunLogger(cfg, manifestPath, manifest.RunID+"-revert")
	if err != nil {
		return err
	}
	defer logger.Close()

	supervisor := migrate.NewSupervisor(mover, logger)
	report, err := supervisor.Revert(ctx, manifestPath, token)
	if err != nil {
		return err
	}

	if err := formatter.Execution(stdout(), report, nil); err != nil {
		return err
	}

	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code, Message: fmt.Sprintf("%d restores failed", report.Failed)}
	}
	return nil
}
