/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scan.go
Description: scan subcommand. Runs the LZ77 match finder over an input file
and reports token/coverage statistics without building a dictionary or
scoring records.
*/

package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kleascm/loghound/pkg/metrics"
	"github.com/kleascm/loghound/pkg/scanner"
	"github.com/kleascm/loghound/pkg/types"
)

type scanReport struct {
	InputPath    string  `json:"input_path"`
	Records      int     `json:"records"`
	Tokens       int     `json:"tokens"`
	Literals     int     `json:"literals"`
	BackRefs     int     `json:"back_refs"`
	TotalBytes   int     `json:"total_bytes"`
	RefBytes     int     `json:"ref_bytes"`
	CoverageMean float64 `json:"coverage_mean"`
}

// RunScan implements the scan subcommand.
func RunScan(path string, opts ScanFlags) error {
	scanOpts := scanOptions(opts.WindowSize, opts.MinMatch)
	if err := scanOpts.Validate(); err != nil {
		return err
	}

	b, err := readInput(path)
	if err != nil {
		return err
	}

	offsets := types.SplitRecords(b)

	start := time.Now()
	tokens := scanner.Scan(b, scanOpts)
	duration := time.Since(start)

	metrics.ScanDuration.WithLabelValues(path).Observe(duration.Seconds())

	var literals, backRefs, refBytes int
	for _, t := range tokens {
		if t.Kind == types.Literal {
			literals++
		} else {
			backRefs++
			refBytes += t.Length
		}
	}
	metrics.TokensEmitted.WithLabelValues(path, "literal").Add(float64(literals))
	metrics.TokensEmitted.WithLabelValues(path, "back_ref").Add(float64(backRefs))

	if globalLogger != nil {
		globalLogger.LogScan(path, duration, len(tokens), map[string]interface{}{
			"literals":  literals,
			"back_refs": backRefs,
		})
	}

	report := scanReport{
		InputPath:  path,
		Records:    offsets.Count(),
		Tokens:     len(tokens),
		Literals:   literals,
		BackRefs:   backRefs,
		TotalBytes: len(b),
		RefBytes:   refBytes,
	}
	if len(b) > 0 {
		report.CoverageMean = float64(refBytes) / float64(len(b))
	}

	if opts.Common.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("input:       %s\n", report.InputPath)
	fmt.Printf("records:     %d\n", report.Records)
	fmt.Printf("tokens:      %d (literals=%d, back_refs=%d)\n", report.Tokens, report.Literals, report.BackRefs)
	fmt.Printf("total bytes: %d\n", report.TotalBytes)
	fmt.Printf("ref bytes:   %d (%.2f%% of input)\n", report.RefBytes, report.CoverageMean*100)
	if opts.Common.Verbose {
		fmt.Printf("scan duration: %s\n", duration)
	}
	return nil
}
