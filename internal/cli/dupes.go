package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/dedupe"
)

// DupesFlags holds dupes command flags
type DupesFlags struct {
	Sources []string
	Exclude []string
	Output  string
}

var dupesFlags DupesFlags

// NewDupesCommand creates the dupes command
func NewDupesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dupes",
		Short: "Report duplicate files across the source directories",
		Long: `Hash every file under the source directories and report groups with
identical content, plus filenames that recur across source roots. Read-only;
this is the slow, I/O-bound stage on large trees.`,
		RunE: runDupes,
	}

	cmd.Flags().StringSliceVarP(&dupesFlags.Sources, "source", "s", nil, "source directory (repeatable, required)")
	cmd.MarkFlagRequired("source")
	cmd.Flags().StringSliceVar(&dupesFlags.Exclude, "exclude", nil, "additional glob patterns to exclude")
	cmd.Flags().StringVarP(&dupesFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runDupes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	formatter, err := newFormatter(cfg, dupesFlags.Output)
	if err != nil {
		return err
	}

	scanner := newScanner(cfg, dupesFlags.Exclude)
	result, err := scanner.Scan(dupesFlags.Sources)
	if err != nil {
		return err
	}

	detector := newDetector(ctx, cfg)
	index, err := hashWithProgress(ctx, cfg, detector, result)
	if err != nil {
		return err
	}

	conflicts := dedupe.FindNameConflicts(result.Records)

	return formatter.Duplicates(stdout(), index, conflicts)
}
