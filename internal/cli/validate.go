package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sdejongh/treediff/internal/platform"
	"github.com/sdejongh/treediff/pkg/config"
	"github.com/sdejongh/treediff/pkg/models"
)

// validateRoots checks that both roots are distinct, non-nested, existing
// directories and returns their absolute paths
func validateRoots(source, dest string) (string, string, error) {
	sourceAbs, err := resolveDir("source", source)
	if err != nil {
		return "", "", err
	}
	destAbs, err := resolveDir("destination", dest)
	if err != nil {
		return "", "", err
	}

	if sourceAbs == destAbs {
		return "", "", fmt.Errorf("source and destination cannot be the same: %s", sourceAbs)
	}

	// Validate paths are not nested
	if platform.Contains(sourceAbs, destAbs) {
		return "", "", fmt.Errorf("destination cannot be inside source directory")
	}
	if platform.Contains(destAbs, sourceAbs) {
		return "", "", fmt.Errorf("source cannot be inside destination directory")
	}

	return sourceAbs, destAbs, nil
}

func resolveDir(name, path string) (string, error) {
	abs, err := platform.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s path: %w", name, err)
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%s path does not exist: %s", name, path)
	} else if err != nil {
		return "", fmt.Errorf("failed to access %s path: %w", name, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s path is not a directory: %s", name, path)
	}

	return abs, nil
}

// validateDiffFlags checks the flags config.Validate does not cover
func validateDiffFlags() error {
	switch models.OutputFormat(diffFlags.ReportFormat) {
	case models.OutputHuman, models.OutputJSON:
	default:
		return fmt.Errorf("invalid report format: %s (valid: human, json)", diffFlags.ReportFormat)
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with the flags set on the
// command line. Unset flags never override the configuration file.
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("strict") {
		cfg.Diff.Strict = diffFlags.Strict
	}
	if flags.Changed("chunk-size") {
		cfg.Diff.ChunkSizeKiB = diffFlags.ChunkSize
	}
	if flags.Changed("exclude") {
		cfg.Diff.Exclude = diffFlags.Exclude
	}
	if flags.Changed("parallel") {
		cfg.Performance.MaxWorkers = diffFlags.Parallel
		if diffFlags.Parallel < 1 {
			cfg.Performance.MaxWorkers = runtime.NumCPU()
		}
	}
	if flags.Changed("bandwidth") {
		cfg.Performance.BandwidthLimit = diffFlags.Bandwidth
	}
	if flags.Changed("output") {
		cfg.Output.Format = diffFlags.Output
	}
	if flags.Changed("summary") {
		cfg.Output.Summary = diffFlags.Summary
	}
	if flags.Changed("fail-on-error") {
		cfg.Exit.FailOnError = diffFlags.FailOnError
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = diffFlags.LogFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = diffFlags.LogFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = diffFlags.LogLevel
	}

	if globalFlags.Verbose {
		cfg.Logging.Level = "debug"
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}
}
