package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/treediff/pkg/config"
	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/output"
	"github.com/sdejongh/treediff/pkg/storage"
	"github.com/sdejongh/treediff/pkg/sync"
)

// ExitError carries a non-zero exit status for a run that completed but
// must still be reported as failed
type ExitError struct {
	Code   int
	Status models.Status
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("run finished with status %s", e.Status)
}

// NewRootCommand creates the treediff command. Run with two arguments it
// diffs the trees; config and version are subcommands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "treediff <source> <destination>",
		Short: "Compare two directory trees",
		Long: `treediff compares a source tree with a destination tree and lists the
entries that were added, deleted, modified or moved. With --merge it applies
those differences so the destination matches the source.`,
		Version:       Version,
		Args:          cobra.ExactArgs(2),
		RunE:          runDiff,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd)
	addDiffFlags(cmd)

	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate flags
	if err := validateDiffFlags(); err != nil {
		return err
	}

	sourcePath, destPath, err := validateRoots(args[0], args[1])
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	applyFlagsToConfig(cmd, cfg)

	operation, err := cfg.NewOperation(sourcePath, destPath, diffFlags.Merge)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	formatter, err := output.NewFormatter(models.OutputFormat(cfg.Output.Format))
	if err != nil {
		return err
	}

	// Create storage backends
	source, err := storage.NewLocal(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to create source backend: %w", err)
	}
	defer source.Close()

	dest, err := storage.NewLocal(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination backend: %w", err)
	}
	defer dest.Close()

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	progress := output.NewProgress(operation.Merge && cfg.Output.Progress && !cfg.Output.Quiet)

	report, err := sync.NewEngine(source, dest, operation, logger, progress).Run(ctx)
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := formatter.Format(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if cfg.Output.Summary {
		output.WriteSummary(out, report)
	}

	if diffFlags.ReportFile != "" {
		if err := output.WriteDifferencesReport(report, diffFlags.ReportFile, models.OutputFormat(diffFlags.ReportFormat)); err != nil {
			return fmt.Errorf("failed to write differences report: %w", err)
		}
	}

	if code := report.Status.ExitCode(operation.FailOnError); code != 0 {
		return &ExitError{Code: code, Status: report.Status}
	}
	return nil
}

// createLogger creates a logger based on configuration. Diagnostics go to
// stderr unless a log file is configured or quiet mode is on.
func createLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	format := logging.FormatText
	if cfg.Logging.Format == "json" {
		format = logging.FormatJSON
	}
	level := logging.ParseLevel(cfg.Logging.Level)

	if cfg.Logging.File != "" {
		return logging.New(logging.Config{
			Path:   cfg.Logging.File,
			Format: format,
			Level:  level,
		})
	}

	if cfg.Output.Quiet {
		return logging.NewNullLogger(), nil
	}

	if stderr == nil {
		stderr = os.Stderr
	}
	return logging.New(logging.Config{
		Writer: stderr,
		Format: format,
		Level:  level,
		Color:  output.IsTerminal(stderr),
	})
}
