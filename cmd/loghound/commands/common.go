/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: common.go
Description: Shared configuration loading, logging setup, flag structs and
exit-code mapping used across every loghound subcommand.
*/

package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/kleascm/loghound/pkg/logging"
	"github.com/kleascm/loghound/pkg/metrics"
	"github.com/kleascm/loghound/pkg/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// CommonFlags are the -v/--verbose and --json flags every reporting
// subcommand exposes.
type CommonFlags struct {
	Verbose bool
	JSON    bool
}

// ScoringFlags configure both pipelines plus the detection method, shared
// by analyze and anomalies.
type ScoringFlags struct {
	WindowSize int
	MinMatch   int
	MinCount   int
	Structured bool
	Method     string
	Percentile float64
	TopN       int
}

// ScanFlags configure the scan subcommand.
type ScanFlags struct {
	Common     CommonFlags
	WindowSize int
	MinMatch   int
}

// DictFlags configure the dict subcommand.
type DictFlags struct {
	Common     CommonFlags
	WindowSize int
	MinMatch   int
	MinCount   int
	Top        int
}

// AnalyzeFlags configure the analyze subcommand.
type AnalyzeFlags struct {
	Common  CommonFlags
	Scoring ScoringFlags
	Extract bool
}

// AnomaliesFlags configure the anomalies subcommand.
type AnomaliesFlags struct {
	Common     CommonFlags
	Scoring    ScoringFlags
	Extract    bool
	HTMLReport string
}

// CheckFlags configure the check subcommand.
type CheckFlags struct {
	ExtractDir string
	HTMLReport string
}

// LoadConfig loads configuration from an optional file and the environment,
// mirroring the teacher's viper bootstrap.
func LoadConfig(configFile string) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	viper.SetEnvPrefix("LOGHOUND")
	viper.AutomaticEnv()
	return nil
}

// SetupLogging builds the Logger from viper-bound flags.
func SetupLogging() (*logging.Logger, error) {
	level := viper.GetString("log_level")
	format := viper.GetString("log_format")
	if viper.GetBool("json_logs") {
		format = "json"
	}

	cfg := &logging.LoggerConfig{
		Level:     logging.LogLevel(level),
		Format:    logging.LogFormat(format),
		OutputDir: viper.GetString("log_dir"),
		MaxFiles:  10,
		MaxSize:   100 * 1024 * 1024,
		Timestamp: true,
		Caller:    false,
		Colors:    true,
	}
	return logging.NewLogger(cfg)
}

var globalLogger *logging.Logger

// SetLogger records the logger built by SetupLogging for helpers in this
// package that need to emit domain log events outside a single RunXxx call.
func SetLogger(l *logging.Logger) {
	globalLogger = l
}

// StartMetricsServer launches the Prometheus /metrics endpoint in the
// background; failures are logged, not fatal, since metrics are optional.
func StartMetricsServer(addr string, l *logging.Logger) {
	go func() {
		if err := metrics.Serve(addr); err != nil {
			if l != nil {
				l.Error("metrics server exited", map[string]interface{}{"error": err.Error()})
			} else {
				logrus.WithError(err).Error("metrics server exited")
			}
		}
	}()
}

// ExitCodeFor maps a command error to the exit codes in the spec's external
// interface section: 1 for I/O or parse errors, 2 for invalid arguments.
func ExitCodeFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidOptions):
		return 2
	case errors.Is(err, types.ErrInputIO):
		return 1
	default:
		return 1
	}
}

// readInput reads the input file, wrapping any failure as ErrInputIO.
func readInput(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInputIO, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", types.ErrInputIO, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInputIO, err)
	}
	return b, nil
}

// scanOptions builds ScanOptions from the flags shared by every subcommand
// that runs the byte-pattern pipeline.
func scanOptions(windowSize, minMatch int) types.ScanOptions {
	opts := types.DefaultScanOptions()
	opts.WindowSize = windowSize
	opts.MinMatch = minMatch
	return opts
}

// parseMethod validates and converts the --method flag.
func parseMethod(s string) (types.Method, error) {
	switch types.Method(s) {
	case types.MethodScore, types.MethodCoverage, types.MethodPercentile, types.MethodTop:
		return types.Method(s), nil
	default:
		return "", fmt.Errorf("%w: unknown method %q", types.ErrInvalidOptions, s)
	}
}

// looksStructured decides byte-pattern vs JSON mode for the "auto" case:
// the core does not pick a mode, so the CLI (the external mode selector
// the system overview describes) decides by majority vote over parsed
// lines — structured if more than half parsed as JSON objects.
func looksStructured(lines []types.ParsedLine) bool {
	if len(lines) == 0 {
		return false
	}
	objects := 0
	for _, l := range lines {
		if l.Status == types.ParsedObject {
			objects++
		}
	}
	return float64(objects) > float64(len(lines))/2
}
