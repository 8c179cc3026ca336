/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: schema.go
Description: Schema profiler for structured-mode analysis. Builds a per-field
statistical profile across all records that parsed as JSON objects, the
analytical descendant of the fuzzer's JSONInferenceEngine: the same type-tag
counting and enum/value tracking, generalized from one-shot grammar synthesis
into the presence/type/value/cardinality statistics §4.5 requires.
*/

package schema

import (
	"sort"

	"github.com/kleascm/loghound/pkg/jsonlines"
	"github.com/kleascm/loghound/pkg/types"
)

// tagOrder fixes the arg-max tie-break order for dominant_type, per §3.
var tagOrder = []string{"null", "bool", "number", "string", "array", "object"}

// Build profiles the parsed lines into a SchemaProfile per §4.5. Only
// records whose top-level value is a JSON object contribute to field
// statistics; everything else is ignored here (the scorer handles
// non-object records as automatic score=1.0 cases).
func Build(lines []types.ParsedLine, opts types.SchemaOptions) *types.SchemaProfile {
	if opts.LowCardinalityMax <= 0 {
		opts = types.DefaultSchemaOptions()
	}

	profile := &types.SchemaProfile{
		TotalRecords:    len(lines),
		Fields:          make(map[string]*types.FieldProfile),
		FieldSetCounts:  make(map[string]int),
		FieldSets:       make(map[string][]string),
		NearestDistance: make(map[string]float64),
	}

	for _, line := range lines {
		if line.Status != types.ParsedObject {
			continue
		}
		profile.ObjectRecords++

		names := make([]string, 0, len(line.Object))
		for name := range line.Object {
			names = append(names, name)
		}
		sort.Strings(names)
		setKey := types.FieldSetKey(names)
		profile.FieldSetCounts[setKey]++
		if _, seen := profile.FieldSets[setKey]; !seen {
			profile.FieldSets[setKey] = names
		}

		for name, value := range line.Object {
			fp, ok := profile.Fields[name]
			if !ok {
				fp = &types.FieldProfile{
					Name:        name,
					TypeCounts:  make(map[string]int),
					ValueCounts: make(map[string]int),
				}
				profile.Fields[name] = fp
			}
			fp.PresentCount++
			fp.TypeCounts[jsonlines.Tag(value)]++
			fp.ValueCounts[jsonlines.Canon(value)]++
		}
	}

	for _, fp := range profile.Fields {
		fp.DominantType = dominantType(fp.TypeCounts)
		fp.CardinalityClass = classify(fp, opts)
		if fp.CardinalityClass == "high" {
			fp.ValueCounts = map[string]int{}
		}
	}

	computeNearestDistances(profile)

	return profile
}

// dominantType picks the arg-max type tag, ties broken by tagOrder.
func dominantType(counts map[string]int) string {
	best := ""
	bestCount := -1
	for _, tag := range tagOrder {
		if c := counts[tag]; c > bestCount {
			bestCount = c
			best = tag
		}
	}
	return best
}

// classify implements the §3 low/high cardinality rule.
func classify(fp *types.FieldProfile, opts types.SchemaOptions) string {
	distinct := len(fp.ValueCounts)
	if fp.PresentCount == 0 {
		return "low"
	}
	ratio := float64(distinct) / float64(fp.PresentCount)
	if distinct <= opts.LowCardinalityMax && ratio <= opts.LowCardinalityRatio {
		return "low"
	}
	return "high"
}

// Presence returns the fraction of object records in which field f was
// present, per §3. Returns 0 for a field never seen.
func Presence(profile *types.SchemaProfile, field string) float64 {
	fp, ok := profile.Fields[field]
	if !ok || profile.ObjectRecords == 0 {
		return 0
	}
	return float64(fp.PresentCount) / float64(profile.ObjectRecords)
}
