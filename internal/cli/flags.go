package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/treediff/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose diagnostics (debug log level)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress diagnostics and progress on stderr",
	)
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}

// DiffFlags holds the root command flags
type DiffFlags struct {
	Strict       bool
	ChunkSize    int
	Merge        bool
	Parallel     int
	Bandwidth    string
	Exclude      []string
	Output       string
	ReportFile   string
	ReportFormat string
	Summary      bool
	FailOnError  bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var diffFlags DiffFlags

func addDiffFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&diffFlags.Strict, "strict", "s", false, "compare file contents, not only sizes")
	cmd.Flags().IntVarP(&diffFlags.ChunkSize, "chunk-size", "c", 16, "read size in KiB for content comparison")
	cmd.Flags().BoolVarP(&diffFlags.Merge, "merge", "m", false, "apply the differences to the destination")
	cmd.Flags().IntVarP(&diffFlags.Parallel, "parallel", "p", 0, "number of parallel workers (default: number of CPUs)")
	cmd.Flags().StringVarP(&diffFlags.Bandwidth, "bandwidth", "b", "", "copy bandwidth limit while merging (e.g., \"10MB\", \"1GiB\")")
	cmd.Flags().StringSliceVar(&diffFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&diffFlags.Output, "output", "o", "human", "output format: human, json")
	cmd.Flags().StringVar(&diffFlags.ReportFile, "report-file", "", "also write the differences to file")
	cmd.Flags().StringVar(&diffFlags.ReportFormat, "report-format", "human", "report file format: human, json")
	cmd.Flags().BoolVar(&diffFlags.Summary, "summary", false, "print a per-category summary table")
	cmd.Flags().BoolVar(&diffFlags.FailOnError, "fail-on-error", false, "exit with status 1 when any entry failed")

	// Logging flags
	cmd.Flags().StringVar(&diffFlags.LogFile, "log-file", "", "write logs to file instead of stderr")
	cmd.Flags().StringVar(&diffFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&diffFlags.LogLevel, "log-level", "warn", "log level: debug, info, warn, error")
}
