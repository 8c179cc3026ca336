/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for loghound. Provides the scan,
dict, analyze, anomalies, check and logs subcommands, configuration
management, and logging setup for the log-file anomaly detector.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/loghound/cmd/loghound/commands"
	"github.com/kleascm/loghound/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Global logger instance, initialized by PersistentPreRunE on every command.
var logger *logging.Logger

func main() {
	rootCmd := &cobra.Command{
		Use:   "loghound",
		Short: "loghound - byte-pattern and JSON-schema anomaly detector for log files",
		Long: `loghound analyzes newline-delimited log files for anomalous records using
two complementary signals: an LZ77-style byte-pattern match finder over the
raw bytes, and a JSON schema profiler/scorer for structured (JSON-per-line)
logs. A shared statistical detector flags outliers from either signal.`,
		Version: "1.0.0",
	}

	var (
		configFile  string
		logLevel    string
		logFormat   string
		logDir      string
		jsonLogs    bool
		metricsAddr string
	)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format (overrides --log-format)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus /metrics on (empty disables)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("metrics_addr", rootCmd.PersistentFlags().Lookup("metrics-addr"))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := commands.LoadConfig(configFile); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		l, err := commands.SetupLogging()
		if err != nil {
			return fmt.Errorf("failed to setup logging: %w", err)
		}
		logger = l
		commands.SetLogger(l)
		if addr := viper.GetString("metrics_addr"); addr != "" {
			commands.StartMetricsServer(addr, l)
		}
		return nil
	}

	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newDictCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newAnomaliesCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newLogsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(commands.ExitCodeFor(err))
	}
	if logger != nil {
		logger.Close()
	}
}

func newScanCmd() *cobra.Command {
	var opts commands.ScanFlags
	cmd := &cobra.Command{
		Use:   "scan <input>",
		Short: "Run the byte-pattern match finder over a log file and report token/coverage statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunScan(args[0], opts)
		},
	}
	bindCommonFlags(cmd, &opts.Common)
	cmd.Flags().IntVar(&opts.WindowSize, "window-size", 32768, "LZ77 sliding window size (power of two)")
	cmd.Flags().IntVar(&opts.MinMatch, "min-match", 4, "Minimum back-reference match length")
	return cmd
}

func newDictCmd() *cobra.Command {
	var opts commands.DictFlags
	cmd := &cobra.Command{
		Use:   "dict <input>",
		Short: "Build and display the frequency-ordered back-reference dictionary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunDict(args[0], opts)
		},
	}
	bindCommonFlags(cmd, &opts.Common)
	cmd.Flags().IntVar(&opts.WindowSize, "window-size", 32768, "LZ77 sliding window size (power of two)")
	cmd.Flags().IntVar(&opts.MinMatch, "min-match", 4, "Minimum back-reference match length")
	cmd.Flags().IntVar(&opts.MinCount, "min-count", 2, "Minimum occurrence count to keep a dictionary entry")
	cmd.Flags().IntVar(&opts.Top, "top", 20, "Number of top dictionary entries to display")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var opts commands.AnalyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze <input>",
		Short: "Score every record and report descriptive statistics, auto-detecting byte-pattern or JSON mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunAnalyze(args[0], opts)
		},
	}
	bindCommonFlags(cmd, &opts.Common)
	bindScoringFlags(cmd, &opts.Scoring)
	cmd.Flags().BoolVar(&opts.Extract, "extract", false, "Print the raw bytes of every flagged record")
	return cmd
}

func newAnomaliesCmd() *cobra.Command {
	var opts commands.AnomaliesFlags
	cmd := &cobra.Command{
		Use:   "anomalies <input>",
		Short: "Run full detection and report only the flagged records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunAnomalies(args[0], opts)
		},
	}
	bindCommonFlags(cmd, &opts.Common)
	bindScoringFlags(cmd, &opts.Scoring)
	cmd.Flags().BoolVar(&opts.Extract, "extract", false, "Print the raw bytes of every flagged record")
	cmd.Flags().StringVar(&opts.HTMLReport, "html-report", "", "Directory to write an HTML report into (empty disables)")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var opts commands.CheckFlags
	cmd := &cobra.Command{
		Use:   "check <input>",
		Short: "Validate input accessibility and output writability without running detection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunCheck(args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.ExtractDir, "extract-dir", "", "Output directory to validate as writable (--extract itself prints to stdout)")
	cmd.Flags().StringVar(&opts.HTMLReport, "html-report", "", "Directory --html-report would write into, to validate")
	return cmd
}

func newLogsCmd() *cobra.Command {
	var opts commands.LogsFlags
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect loghound's own log directory: file stats and level/event counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Dir == "" {
				opts.Dir = viper.GetString("log_dir")
			}
			return commands.RunLogs(opts)
		},
	}
	bindCommonFlags(cmd, &opts.Common)
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Log directory to inspect (defaults to --log-dir)")
	cmd.Flags().IntVar(&opts.MaxFiles, "max-files", 10, "Retention limit used for --cleanup")
	cmd.Flags().Int64Var(&opts.MaxSize, "max-size", 100*1024*1024, "Size threshold in bytes used by log rotation bookkeeping")
	cmd.Flags().BoolVar(&opts.Compress, "compress", false, "Compress rotated files during --rotate")
	cmd.Flags().BoolVar(&opts.Rotate, "rotate", false, "Rotate log files exceeding --max-size before reporting")
	cmd.Flags().BoolVar(&opts.Cleanup, "cleanup", false, "Remove log files beyond the retention limit before reporting")
	return cmd
}

// bindCommonFlags registers the -v/--verbose and --json flags shared by
// every subcommand that produces output.
func bindCommonFlags(cmd *cobra.Command, c *commands.CommonFlags) {
	cmd.Flags().BoolVarP(&c.Verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().BoolVar(&c.JSON, "json", false, "Machine-readable JSON output")
}

// bindScoringFlags registers the detection-method flags shared by analyze
// and anomalies.
func bindScoringFlags(cmd *cobra.Command, s *commands.ScoringFlags) {
	cmd.Flags().IntVar(&s.WindowSize, "window-size", 32768, "LZ77 sliding window size (power of two)")
	cmd.Flags().IntVar(&s.MinMatch, "min-match", 4, "Minimum back-reference match length")
	cmd.Flags().IntVar(&s.MinCount, "min-count", 2, "Minimum occurrence count to keep a dictionary entry")
	cmd.Flags().BoolVar(&s.Structured, "structured", false, "Force JSON schema scoring instead of auto-detection")
	cmd.Flags().StringVar(&s.Method, "method", "score", "Detection method: score, coverage, percentile, top")
	cmd.Flags().Float64Var(&s.Percentile, "percentile", 5, "Percentile for --method percentile (0,100]")
	cmd.Flags().IntVar(&s.TopN, "top-n", 10, "N for --method top")
}
