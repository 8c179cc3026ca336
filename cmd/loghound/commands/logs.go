/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logs.go
Description: logs subcommand. Inspects loghound's own log directory: file
counts and sizes via LogManager, and level/event counts via LogAnalyzer,
with optional rotation and retention cleanup passes.
*/

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kleascm/loghound/pkg/logging"
)

// LogsFlags configure the logs subcommand.
type LogsFlags struct {
	Common   CommonFlags
	Dir      string
	MaxFiles int
	MaxSize  int64
	Compress bool
	Rotate   bool
	Cleanup  bool
}

type logsReport struct {
	Stats    *logging.LogStats    `json:"stats"`
	Analysis *logging.LogAnalysis `json:"analysis"`
	Cleaned  bool                 `json:"cleaned"`
}

// RunLogs implements the logs subcommand.
func RunLogs(opts LogsFlags) error {
	manager := logging.NewLogManager(opts.Dir, opts.MaxFiles, opts.MaxSize, opts.Compress)
	analyzer := logging.NewLogAnalyzer(opts.Dir)

	if opts.Rotate {
		if err := manager.RotateLogs(); err != nil {
			return fmt.Errorf("failed to rotate log directory: %w", err)
		}
	}

	if opts.Cleanup {
		if err := manager.CleanupOldLogs(); err != nil {
			return fmt.Errorf("failed to clean up log directory: %w", err)
		}
	}

	stats, err := manager.GetLogStats()
	if err != nil {
		return fmt.Errorf("failed to collect log stats: %w", err)
	}

	analysis, err := analyzer.AnalyzeLogs()
	if err != nil {
		return fmt.Errorf("failed to analyze log directory: %w", err)
	}

	if opts.Common.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(logsReport{Stats: stats, Analysis: analysis, Cleaned: opts.Cleanup})
	}

	fmt.Printf("log directory: %s\n", opts.Dir)
	fmt.Printf("files:         %d (%d compressed, %d uncompressed)\n", stats.TotalFiles, stats.CompressedFiles, stats.UncompressedFiles)
	fmt.Printf("total size:    %d bytes\n", stats.TotalSize)
	if stats.TotalFiles > 0 {
		fmt.Printf("oldest:        %s\n", stats.OldestFile.Format("2006-01-02 15:04:05"))
		fmt.Printf("newest:        %s\n", stats.NewestFile.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()
	fmt.Println(analysis.GetLogSummary())
	if opts.Cleanup {
		fmt.Println("\ncleanup: removed files beyond --max-files retention")
	}
	return nil
}
