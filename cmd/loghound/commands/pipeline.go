/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pipeline.go
Description: Shared byte-pattern/structured scoring pipeline used by the
analyze and anomalies subcommands. Builds the mode-agnostic triples the
detector consumes, plus per-record reasons for reporting.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/loghound/pkg/bytescore"
	"github.com/kleascm/loghound/pkg/dictionary"
	"github.com/kleascm/loghound/pkg/jsonlines"
	"github.com/kleascm/loghound/pkg/jsonscore"
	"github.com/kleascm/loghound/pkg/metrics"
	"github.com/kleascm/loghound/pkg/schema"
	"github.com/kleascm/loghound/pkg/scanner"
	"github.com/kleascm/loghound/pkg/types"
)

// pipelineResult carries everything analyze/anomalies need to report: the
// mode-agnostic triples for the detector, human-readable reasons per
// record, and bookkeeping for the report header.
type pipelineResult struct {
	Mode        string // "byte-pattern" or "structured"
	Triples     []types.Triple
	Reasons     map[int]string
	DictSize    int
	RecordCount int
	Raw         []byte
	Offsets     types.RecordOffsets
}

// runPipeline reads path, runs the byte-pattern pipeline, the structured
// pipeline, or both depending on s.Structured and an auto-detect vote over
// the parsed lines, and returns mode-agnostic triples for the detector.
func runPipeline(path string, s ScoringFlags) (pipelineResult, error) {
	scanOpts := scanOptions(s.WindowSize, s.MinMatch)
	if err := scanOpts.Validate(); err != nil {
		return pipelineResult{}, err
	}

	b, err := readInput(path)
	if err != nil {
		return pipelineResult{}, err
	}
	offsets := types.SplitRecords(b)
	lines := jsonlines.Parse(b, offsets)

	structured := s.Structured || looksStructured(lines)

	var result pipelineResult
	if structured {
		result, err = runStructuredPipeline(path, lines, offsets.Count())
	} else {
		result, err = runBytePipeline(path, b, offsets, scanOpts, s.MinCount)
	}
	if err != nil {
		return pipelineResult{}, err
	}
	result.Raw = b
	result.Offsets = offsets
	return result, nil
}

func runBytePipeline(path string, b []byte, offsets types.RecordOffsets, scanOpts types.ScanOptions, minCount int) (pipelineResult, error) {
	tokens := scanner.Scan(b, scanOpts)
	dict := dictionary.Build(tokens, minCount)
	metrics.DictionarySize.WithLabelValues(path).Set(float64(dict.Len()))
	if globalLogger != nil {
		globalLogger.LogDictionaryBuilt(dict.Len(), minCount, nil)
	}

	stats := bytescore.Score(tokens, dict, offsets)

	triples := make([]types.Triple, len(stats))
	reasons := make(map[int]string, len(stats))
	for i, st := range stats {
		triples[i] = types.Triple{Index: st.Index, Score: st.Score, Coverage: st.Coverage}
		reasons[st.Index] = fmt.Sprintf("coverage=%.3f rarity=%.3f refs=%d ref_bytes=%d",
			st.Coverage, st.Rarity, st.Refs, st.RefBytes)
	}
	metrics.RecordsProcessed.WithLabelValues(path, "byte-pattern").Add(float64(len(stats)))

	return pipelineResult{
		Mode:        "byte-pattern",
		Triples:     triples,
		Reasons:     reasons,
		DictSize:    dict.Len(),
		RecordCount: len(stats),
	}, nil
}

func runStructuredPipeline(path string, lines []types.ParsedLine, recordCount int) (pipelineResult, error) {
	profile := schema.Build(lines, types.DefaultSchemaOptions())
	if globalLogger != nil {
		globalLogger.LogSchemaBuild(profile.ObjectRecords, len(profile.Fields), nil)
	}

	stats := jsonscore.Score(lines, profile)

	triples := make([]types.Triple, len(stats))
	reasons := make(map[int]string, len(stats))
	for i, st := range stats {
		triples[i] = types.Triple{Index: st.Index, Score: st.Score, Coverage: 1 - st.Score}
		reasons[st.Index] = structuredReason(st.Reasons)
	}
	metrics.RecordsProcessed.WithLabelValues(path, "structured").Add(float64(len(stats)))

	return pipelineResult{
		Mode:        "structured",
		Triples:     triples,
		Reasons:     reasons,
		DictSize:    0,
		RecordCount: len(stats),
	}, nil
}

// extractRecord returns the raw bytes of record i, per the offsets runPipeline
// recorded, for --extract output.
func extractRecord(result pipelineResult, i int) []byte {
	if i < 0 || i >= result.Offsets.Count() {
		return nil
	}
	return result.Raw[result.Offsets.Starts[i]:result.Offsets.Ends[i]]
}

func structuredReason(r types.StructuredReasons) string {
	if r.ParseError != "" {
		return "parse_error=" + r.ParseError
	}
	parts := ""
	add := func(label string, fields []string) {
		if len(fields) == 0 {
			return
		}
		if parts != "" {
			parts += " "
		}
		parts += fmt.Sprintf("%s=%v", label, fields)
	}
	add("missing", r.Missing)
	add("rare_values", r.RareValues)
	add("rare_fields", r.RareFields)
	add("type_mismatches", r.TypeMismatches)
	if parts == "" {
		return "no anomaly signals"
	}
	return parts
}
