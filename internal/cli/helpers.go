package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"

	"github.com/gfreedman/file-folder-cleanup-util/pkg/config"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/dedupe"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/logging"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/models"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/output"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/ratelimit"
	"github.com/gfreedman/file-folder-cleanup-util/pkg/scan"
)

// loadConfig loads configuration, honoring the global --config flag
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// newScanner builds the inventory scanner from config plus extra patterns
func newScanner(cfg *config.Config, extraExcludes []string) *scan.Scanner {
	patterns := append([]string{}, cfg.Exclude...)
	patterns = append(patterns, extraExcludes...)
	return scan.New(patterns)
}

// newDetector builds the duplicate detector, wiring in the configured
// bandwidth limit for hashing reads
func newDetector(ctx context.Context, cfg *config.Config) *dedupe.Detector {
	detector := dedupe.NewDetector(cfg.Performance.BufferSize)

	if limiter := ratelimit.NewLimiter(cfg.Performance.BandwidthLimit); limiter != nil {
		detector.SetReaderWrapper(func(rc io.ReadCloser) io.ReadCloser {
			return ratelimit.NewReadCloser(ctx, rc, limiter)
		})
	}

	return detector
}

// hashWithProgress runs duplicate detection with a byte-based progress bar
// when the terminal output allows it
func hashWithProgress(ctx context.Context, cfg *config.Config, detector *dedupe.Detector, result *models.ScanResult) (*models.DuplicateIndex, error) {
	showBar := cfg.Output.Progress && !cfg.Output.Quiet && !globalFlags.Quiet && cfg.Output.Format != "json"

	if showBar && len(result.Records) > 0 {
		bar := pb.Full.Start64(result.TotalBytes())
		bar.Set(pb.Bytes, true)
		detector.SetProgressCallback(func(path string, bytesHashed int64) {
			bar.Add64(bytesHashed)
		})
		defer bar.Finish()
	}

	return detector.FindDuplicates(ctx, result.Records)
}

// newFormatter builds the output formatter, letting a per-command flag
// override the configured format
func newFormatter(cfg *config.Config, override string) (output.Formatter, error) {
	format := cfg.Output.Format
	if override != "" {
		format = override
	}
	return output.New(format)
}

// newRunLogger opens the fresh run-specific log for a commit or revert.
// Logs land next to the manifest unless config points elsewhere.
func newRunLogger(cfg *config.Config, manifestPath, runID string) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	dir := cfg.Logging.Dir
	if dir == "" {
		dir = filepath.Dir(manifestPath)
	}

	logger, err := logging.NewRunLogger(dir, runID,
		logging.Format(cfg.Logging.Format), logging.ParseLevel(cfg.Logging.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}
	return logger, nil
}

// stdout returns the writer for normal command output
func stdout() io.Writer {
	return os.Stdout
}

// ExitError carries a specific process exit code out of a command
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}
