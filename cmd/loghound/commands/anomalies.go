/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: anomalies.go
Description: anomalies subcommand. Runs full detection and reports only the
flagged records, optionally extracting their raw bytes and rendering an
HTML report.
*/

package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/kleascm/loghound/pkg/detector"
	"github.com/kleascm/loghound/pkg/metrics"
	"github.com/kleascm/loghound/pkg/reporting"
)

// RunAnomalies implements the anomalies subcommand.
func RunAnomalies(path string, opts AnomaliesFlags) error {
	start := time.Now()
	result, err := runPipeline(path, opts.Scoring)
	if err != nil {
		return err
	}

	method, err := parseMethod(opts.Scoring.Method)
	if err != nil {
		return err
	}

	detection, err := detector.DetectN(result.Triples, method, opts.Scoring.Percentile, opts.Scoring.TopN)
	if err != nil {
		return err
	}
	metrics.AnomaliesFlagged.WithLabelValues(path, string(method)).Add(float64(len(detection.Indices)))

	scores := make(map[int]float64, len(result.Triples))
	for _, t := range result.Triples {
		scores[t.Index] = t.Score
	}
	for _, idx := range detection.Indices {
		if globalLogger != nil {
			globalLogger.LogDetection(idx, string(method), scores[idx], nil)
		}
	}

	report := reporting.BuildReport(
		fmt.Sprintf("loghound anomalies (%s mode)", result.Mode),
		path, result.RecordCount, result.DictSize, detection, scores, result.Reasons,
	)

	if opts.Common.JSON {
		if err := reporting.WriteJSON(os.Stdout, report); err != nil {
			return err
		}
	} else {
		if err := reporting.WriteText(os.Stdout, report); err != nil {
			return err
		}
	}

	if opts.Extract {
		for _, idx := range detection.Indices {
			fmt.Printf("--- record %d ---\n%s\n", idx, extractRecord(result, idx))
		}
	}

	if opts.HTMLReport != "" {
		outFile, err := reporting.WriteHTML(opts.HTMLReport, report)
		if err != nil {
			return err
		}
		if opts.Common.Verbose {
			fmt.Fprintf(os.Stderr, "html report written to %s\n", outFile)
		}
	}

	if globalLogger != nil {
		duration := time.Since(start)
		var perSec float64
		if duration > 0 {
			perSec = float64(result.RecordCount) / duration.Seconds()
		}
		globalLogger.LogStats(int64(result.RecordCount), int64(len(detection.Indices)), perSec, nil)
	}

	return nil
}
