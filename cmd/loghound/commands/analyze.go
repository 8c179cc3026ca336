/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyze.go
Description: analyze subcommand. Scores every record with whichever pipeline
applies and reports descriptive statistics plus the flagged records for the
selected detection method.
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

// RunAnalyze implements the analyze subcommand.
func RunAnalyze(path string, opts AnalyzeFlags) error {
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

	flagged := make(map[int]bool, len(detection.Indices))
	for _, idx := range detection.Indices {
		flagged[idx] = true
	}

	scores := make(map[int]float64, len(result.Triples))
	for _, t := range result.Triples {
		scores[t.Index] = t.Score
		if globalLogger != nil && flagged[t.Index] {
			globalLogger.LogDetection(t.Index, string(method), t.Score, nil)
		}
	}

	report := reporting.BuildReport(
		fmt.Sprintf("loghound analyze (%s mode)", result.Mode),
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
