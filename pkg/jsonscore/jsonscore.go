/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: jsonscore.go
Description: Structured per-record scorer. Combines a parsed record against
the schema profile built by pkg/schema into a weighted anomaly score and its
supporting reasons, per §4.6. A record that failed to parse as an object
short-circuits to the maximal score with a parse_error reason, mirroring how
the fuzzer's analyzer treats a crashing input as automatically interesting.
*/

package jsonscore

import (
	"sort"

	"github.com/kleascm/loghound/pkg/jsonlines"
	"github.com/kleascm/loghound/pkg/parallel"
	"github.com/kleascm/loghound/pkg/types"
)

const (
	weightMissing      = 0.30
	weightRareValues   = 0.25
	weightNovelty      = 0.25
	weightRareFields   = 0.10
	weightTypeMismatch = 0.10

	presenceCommonThreshold = 0.5
	presenceRareThreshold   = 0.05
	valueRareThreshold      = 0.05
)

// Score computes the structured anomaly score for every parsed line
// against profile, in ascending index order. Each record is scored
// independently of every other, so the pass runs over parallel.DefaultWorkers
// goroutines per §5's explicit allowance to parallelize the per-record
// scorer while preserving output order.
func Score(lines []types.ParsedLine, profile *types.SchemaProfile) []types.StructuredStats {
	commonFields := commonFieldSet(profile)

	return parallel.Map(lines, parallel.DefaultWorkers(len(lines)), func(_ int, line types.ParsedLine) types.StructuredStats {
		return scoreOne(line, profile, commonFields)
	})
}

// commonFieldSet returns the fields with presence(f) > 0.5, sorted for
// deterministic reason ordering.
func commonFieldSet(profile *types.SchemaProfile) []string {
	var common []string
	if profile.ObjectRecords == 0 {
		return common
	}
	for name, fp := range profile.Fields {
		if float64(fp.PresentCount)/float64(profile.ObjectRecords) > presenceCommonThreshold {
			common = append(common, name)
		}
	}
	sort.Strings(common)
	return common
}

func scoreOne(line types.ParsedLine, profile *types.SchemaProfile, commonFields []string) types.StructuredStats {
	if line.Status != types.ParsedObject {
		msg := line.Err
		if msg == "" {
			msg = "not an object"
		}
		return types.StructuredStats{
			Index: line.Index,
			Score: 1.0,
			Reasons: types.StructuredReasons{
				ParseError: msg,
			},
		}
	}

	present := make(map[string]struct{}, len(line.Object))
	names := make([]string, 0, len(line.Object))
	for name := range line.Object {
		present[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	var missing, rareValues, rareFields, typeMismatches []string

	for _, f := range commonFields {
		if _, ok := present[f]; !ok {
			missing = append(missing, f)
		}
	}

	for _, name := range names {
		fp, ok := profile.Fields[name]
		if !ok || profile.ObjectRecords == 0 {
			continue
		}
		presence := float64(fp.PresentCount) / float64(profile.ObjectRecords)
		if presence < presenceRareThreshold {
			rareFields = append(rareFields, name)
		}
		if fp.CardinalityClass == "low" && fp.PresentCount > 0 {
			canon := jsonlines.Canon(line.Object[name])
			rate := float64(fp.ValueCounts[canon]) / float64(fp.PresentCount)
			if rate < valueRareThreshold {
				rareValues = append(rareValues, name)
			}
		}
		if jsonlines.Tag(line.Object[name]) != fp.DominantType {
			typeMismatches = append(typeMismatches, name)
		}
	}

	novelty := fieldSetNovelty(names, profile)

	var missingSignal float64
	if len(commonFields) > 0 {
		missingSignal = float64(len(missing)) / float64(len(commonFields))
	}

	var rareValuesSignal, rareFieldsSignal, typeMismatchSignal float64
	if len(names) > 0 {
		rareValuesSignal = float64(len(rareValues)) / float64(len(names))
		rareFieldsSignal = float64(len(rareFields)) / float64(len(names))
		typeMismatchSignal = float64(len(typeMismatches)) / float64(len(names))
	}

	score := weightMissing*missingSignal +
		weightRareValues*rareValuesSignal +
		weightNovelty*novelty +
		weightRareFields*rareFieldsSignal +
		weightTypeMismatch*typeMismatchSignal
	score = types.Clamp01(score)

	return types.StructuredStats{
		Index: line.Index,
		Score: score,
		Reasons: types.StructuredReasons{
			Missing:        missing,
			RareValues:     rareValues,
			RareFields:     rareFields,
			TypeMismatches: typeMismatches,
		},
	}
}

// fieldSetNovelty looks up the precomputed nearest-distance for this
// record's exact field set. Falls back to 1.0 if the profiler never saw
// this exact set (should not happen for a record that was part of the
// profiled corpus, but keeps this function total).
func fieldSetNovelty(sortedNames []string, profile *types.SchemaProfile) float64 {
	key := types.FieldSetKey(sortedNames)
	if d, ok := profile.NearestDistance[key]; ok {
		return d
	}
	return 1.0
}
