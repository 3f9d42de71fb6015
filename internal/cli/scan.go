package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	Sources []string
	Exclude []string
	Output  string
}

var scanFlags ScanFlags

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Inventory files under the source directories",
		Long: `Walk the source directory trees and report the files a migration
would consider, honoring the configured exclude patterns. Read-only.`,
		RunE: runScan,
	}

	cmd.Flags().StringSliceVarP(&scanFlags.Sources, "source", "s", nil, "source directory (repeatable, required)")
	cmd.MarkFlagRequired("source")
	cmd.Flags().StringSliceVar(&scanFlags.Exclude, "exclude", nil, "additional glob patterns to exclude")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	formatter, err := newFormatter(cfg, scanFlags.Output)
	if err != nil {
		return err
	}

	scanner := newScanner(cfg, scanFlags.Exclude)
	result, err := scanner.Scan(scanFlags.Sources)
	if err != nil {
		return err
	}

	return formatter.ScanResult(stdout(), result)
}
