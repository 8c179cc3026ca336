/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Reporting system for loghound. Renders a run's byte-pattern and
structured anomaly results as a terminal summary, a machine-readable JSON
report, and an optional standalone HTML report. Adapted from the dashboard
generator this package started as: the same "prepare data, execute a single
html/template" shape, rebound from fuzzing metrics to detection results.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/loghound/pkg/types"
)

// Version is the report format version embedded in machine and HTML output.
const Version = "1.0.0"

// FlaggedRecord is one entry in a report's flagged-records list.
type FlaggedRecord struct {
	Index  int     `json:"index"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Report is the full result of a run, independent of output format.
type Report struct {
	RunID          string                  `json:"run_id"`
	Title          string                  `json:"title"`
	GeneratedAt    time.Time               `json:"generated_at"`
	Version        string                  `json:"version"`
	InputPath      string                  `json:"input_path"`
	RecordCount    int                     `json:"record_count"`
	DictionarySize int                     `json:"dictionary_size"`
	Detection      types.DetectionSummary  `json:"detection"`
	FlaggedRecords []FlaggedRecord         `json:"flagged_records"`
	RecordStats    []types.RecordStats     `json:"record_stats,omitempty"`
	Structured     []types.StructuredStats `json:"structured_stats,omitempty"`
}

// BuildReport assembles a Report from the pipeline outputs. scores and
// reasons are optional lookups from record index to the record's score and
// a human-readable explanation (e.g. structured-mode reasons serialized to
// text); the flagged list is always non-nil, so it encodes as a JSON array.
func BuildReport(title, inputPath string, recordCount, dictSize int, detection types.Detection, scores map[int]float64, reasons map[int]string) *Report {
	r := &Report{
		RunID:          uuid.New().String(),
		Title:          title,
		GeneratedAt:    time.Now(),
		Version:        Version,
		InputPath:      inputPath,
		RecordCount:    recordCount,
		DictionarySize: dictSize,
		Detection:      detection.Summary,
		FlaggedRecords: make([]FlaggedRecord, 0, len(detection.Indices)),
	}

	indices := make([]int, len(detection.Indices))
	copy(indices, detection.Indices)
	sort.Ints(indices)

	for _, idx := range indices {
		r.FlaggedRecords = append(r.FlaggedRecords, FlaggedRecord{
			Index:  idx,
			Score:  scores[idx],
			Reason: reasons[idx],
		})
	}

	return r
}

// WriteJSON writes the machine-readable report to w.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a human-readable terminal summary of r to w.
func WriteText(w io.Writer, r *Report) error {
	_, err := fmt.Fprintf(w, "%s\n", r.Title)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  run:        %s\n", r.RunID)
	fmt.Fprintf(w, "  input:      %s\n", r.InputPath)
	fmt.Fprintf(w, "  records:    %d\n", r.RecordCount)
	fmt.Fprintf(w, "  dictionary: %d entries\n", r.DictionarySize)
	fmt.Fprintf(w, "  method:     %s\n", r.Detection.Method)
	fmt.Fprintf(w, "  mean:       %.4f\n", r.Detection.Mean)
	fmt.Fprintf(w, "  stdev:      %.4f\n", r.Detection.StdDev)
	fmt.Fprintf(w, "  threshold:  %.4f\n", r.Detection.Threshold)
	fmt.Fprintf(w, "  flagged:    %d\n\n", r.Detection.Flagged)

	for _, fr := range r.FlaggedRecords {
		fmt.Fprintf(w, "  [%d] score=%.4f %s\n", fr.Index, fr.Score, fr.Reason)
	}
	return nil
}

// reportHTMLData adapts a Report to the field names the HTML template binds.
type reportHTMLData struct {
	RunID          string
	Title          string
	GeneratedAt    time.Time
	Version        string
	InputPath      string
	RecordCount    int
	DictionarySize int
	Detection      types.DetectionSummary
	FlaggedRecords []FlaggedRecord
}

// WriteHTML renders r as a standalone HTML report file under outputDir.
func WriteHTML(outputDir string, r *Report) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	outputFile := filepath.Join(outputDir, "report.html")
	file, err := os.Create(outputFile)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	data := reportHTMLData{
		RunID:          r.RunID,
		Title:          r.Title,
		GeneratedAt:    r.GeneratedAt,
		Version:        r.Version,
		InputPath:      r.InputPath,
		RecordCount:    r.RecordCount,
		DictionarySize: r.DictionarySize,
		Detection:      r.Detection,
		FlaggedRecords: r.FlaggedRecords,
	}

	if err := tmpl.Execute(file, data); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}

	return outputFile, nil
}
