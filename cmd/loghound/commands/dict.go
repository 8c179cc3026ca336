/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dict.go
Description: dict subcommand. Builds the frequency-ordered back-reference
dictionary and displays its top entries.
*/

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kleascm/loghound/pkg/dictionary"
	"github.com/kleascm/loghound/pkg/metrics"
	"github.com/kleascm/loghound/pkg/scanner"
)

type dictEntryReport struct {
	Content string `json:"content"`
	Count   uint64 `json:"count"`
	Rank    uint32 `json:"rank"`
}

type dictReport struct {
	InputPath string            `json:"input_path"`
	Size      int               `json:"size"`
	MinCount  int               `json:"min_count"`
	Top       []dictEntryReport `json:"top"`
}

// RunDict implements the dict subcommand.
func RunDict(path string, opts DictFlags) error {
	scanOpts := scanOptions(opts.WindowSize, opts.MinMatch)
	if err := scanOpts.Validate(); err != nil {
		return err
	}

	b, err := readInput(path)
	if err != nil {
		return err
	}

	tokens := scanner.Scan(b, scanOpts)
	dict := dictionary.Build(tokens, opts.MinCount)

	metrics.DictionarySize.WithLabelValues(path).Set(float64(dict.Len()))
	if globalLogger != nil {
		globalLogger.LogDictionaryBuilt(dict.Len(), opts.MinCount, nil)
	}

	top := opts.Top
	if top <= 0 || top > dict.Len() {
		top = dict.Len()
	}

	report := dictReport{
		InputPath: path,
		Size:      dict.Len(),
		MinCount:  opts.MinCount,
		Top:       make([]dictEntryReport, 0, top),
	}
	for _, e := range dict.Entries[:top] {
		report.Top = append(report.Top, dictEntryReport{
			Content: previewString(e.Content),
			Count:   e.Count,
			Rank:    e.Rank,
		})
	}

	if opts.Common.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("input:      %s\n", report.InputPath)
	fmt.Printf("dictionary: %d entries (min_count=%d)\n", report.Size, report.MinCount)
	for i, e := range report.Top {
		fmt.Printf("  %3d. rank=%-4d count=%-6d %q\n", i+1, e.Rank, e.Count, e.Content)
	}
	return nil
}

// previewString renders dictionary content for display, truncating long
// entries; escaping of non-printable bytes is left to the caller's %q.
func previewString(content []byte) string {
	const maxPreview = 64
	if len(content) > maxPreview {
		return string(content[:maxPreview]) + "..."
	}
	return string(content)
}
