package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/config"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
	planpkg "github.com/gfreedman/file-folder-cleanup-util/pkg/plan"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/rules"
)

// PlanFlags holds plan command flags
type PlanFlags struct {
	Sources   []string
	Target    string
	RulesFile string
	Exclude   []string
	OutDir    string
	SkipDupes bool
	Output    string
}

var planFlags PlanFlags

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a migration manifest",
		Long: `Scan the source directories, resolve a destination for every file and
write an ordered migration manifest. Planning never mutates the filesystem;
the manifest is reviewed first and applied separately. Re-planning always
writes a new manifest file.`,
		RunE: runPlan,
	}

	cmd.Flags().StringSliceVarP(&planFlags.Sources, "source", "s", nil, "source directory (repeatable, required)")
	cmd.MarkFlagRequired("source")
	cmd.Flags().StringVarP(&planFlags.Target, "target", "t", "", "target directory root")
	cmd.Flags().StringVar(&planFlags.RulesFile, "rules", "", "rules file (pattern|destination per line; default: built-in rules)")
	cmd.Flags().StringSliceVar(&planFlags.Exclude, "exclude", nil, "additional glob patterns to exclude")
	cmd.Flags().StringVar(&planFlags.OutDir, "out", "", "directory for the new manifest (default from config)")
	cmd.Flags().BoolVar(&planFlags.SkipDupes, "skip-dupes", false, "skip content hashing and duplicate annotations")
	cmd.Flags().StringVarP(&planFlags.Output, "output", "o", "", "output format: human, json")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	target := planFlags.Target
	if target == "" {
		target = cfg.Migration.TargetDir
	}
	if target == "" {
		return fmt.Errorf("no target directory: pass --target or set migration.target_dir")
	}

	formatter, err := newFormatter(cfg, planFlags.Output)
	if err != nil {
		return err
	}

	catalog, err := loadRules(cfg)
	if err != nil {
		return err
	}

	scanner := newScanner(cfg, planFlags.Exclude)
	result, err := scanner.Scan(planFlags.Sources)
	if err != nil {
		return err
	}

	var dups *models.DuplicateIndex
	if !planFlags.SkipDupes {
		detector := newDetector(ctx, cfg)
		dups, err = hashWithProgress(ctx, cfg, detector, result)
		if err != nil {
			return err
		}
	}

	builder := planpkg.NewBuilder(rules.NewResolver(catalog), cfg.Migration.LargeFileThreshold)
	manifest := builder.Build(result, dups, target)

	outDir := planFlags.OutDir
	if outDir == "" {
		outDir = cfg.Migration.ManifestDir
	}

	path, err := planpkg.Write(manifest, outDir)
	if err != nil {
		return err
	}

	return formatter.Manifest(stdout(), manifest, path)
}

// loadRules resolves the rule catalog: flag, then config, then built-ins
func loadRules(cfg *config.Config) ([]rules.Rule, error) {
	rulesFile := planFlags.RulesFile
	if rulesFile == "" {
		rulesFile = cfg.Migration.RulesFile
	}
	if rulesFile == "" {
		return rules.Defaults(), nil
	}
	return rules.Load(rulesFile)
}
