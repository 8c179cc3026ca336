/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Shared data model for the loghound anomaly detector. Defines the
token stream, dictionary, record statistics, schema profile, and detection
result types passed between the scanner, dictionary builder, scorers, and
the anomaly detector. Mirrors the fuzzer's pattern of a single shared-types
package that the algorithmic packages depend on without import cycles.
*/

package types

import (
	"encoding/json"
	"fmt"
	"math"
)

// TokenKind distinguishes the two token variants emitted by the scanner.
type TokenKind int

const (
	// Literal is a single uncompressed byte.
	Literal TokenKind = iota
	// BackRef is a copy of length bytes from pos-distance.
	BackRef
)

// Token is one element of the gapless cover of the input buffer produced
// by the scanner. Literal tokens only populate Pos and Byte; BackRef
// tokens populate Pos, Distance, Length and Content.
type Token struct {
	Kind     TokenKind
	Pos      int
	Byte     byte
	Distance int
	Length   int
	Content  []byte
}

// End returns the offset just past the last byte this token covers.
func (t Token) End() int {
	if t.Kind == Literal {
		return t.Pos + 1
	}
	return t.Pos + t.Length
}

// DictEntry is one row of the frequency-ordered dictionary.
type DictEntry struct {
	Content []byte
	Count   uint64
	Rank    uint32
}

// Dictionary is the ordered, ranked set of back-reference contents that
// passed the minimum-count filter, plus the rank lookup used by scorers.
type Dictionary struct {
	Entries []DictEntry
	RankOf  map[string]uint32
}

// Len returns K, the number of distinct dictionary entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}

// RecordStats is the per-record byte-pattern score produced by the
// byte-pattern scorer (§4.3 of the spec).
type RecordStats struct {
	Index        int
	LiteralBytes int
	RefBytes     int
	Refs         int
	Coverage     float64
	Rarity       float64
	Score        float64
}

// ParseStatus distinguishes a successfully parsed JSON line from one that
// failed to parse, or that parsed to something other than an object.
type ParseStatus int

const (
	// ParsedObject means the line decoded to a JSON object.
	ParsedObject ParseStatus = iota
	// ParsedOther means the line decoded but not to a top-level object
	// (a scalar or array); it contributes nothing to field statistics.
	ParsedOther
	// ParseFailed means the line did not decode as valid JSON at all.
	ParseFailed
)

// ParsedLine is the per-record result of the JSON line parser.
type ParsedLine struct {
	Index  int
	Status ParseStatus
	Value  interface{}            // decoded value (any top-level JSON type)
	Object map[string]interface{} // populated iff Status == ParsedObject
	Err    string                 // populated iff Status != ParsedObject ("not an object" for ParsedOther)
}

// FieldProfile holds the statistics the schema profiler accumulates for a
// single field name across all records that parsed as objects.
type FieldProfile struct {
	Name             string
	PresentCount     int
	TypeCounts       map[string]int
	DominantType     string
	ValueCounts      map[string]int
	CardinalityClass string // "low" or "high"
}

// SchemaProfile is the full per-field profile built from the input file,
// plus the bookkeeping the scorer needs for field_set_novelty.
type SchemaProfile struct {
	TotalRecords   int
	ObjectRecords  int
	Fields         map[string]*FieldProfile
	FieldSetCounts map[string]int      // exact field-set key -> times observed
	FieldSets      map[string][]string // exact field-set key -> sorted field names
	// NearestDistance holds, for every distinct field-set key, the Jaccard
	// distance to the closest *other* distinct field-set key. Precomputed
	// once by the profiler (§4.5) so the per-record scorer is a lookup.
	NearestDistance map[string]float64
}

// StructuredReasons carries the human-readable reason lists attached to a
// structured-mode record score.
type StructuredReasons struct {
	Missing        []string `json:"missing,omitempty"`
	RareValues     []string `json:"rare_values,omitempty"`
	RareFields     []string `json:"rare_fields,omitempty"`
	TypeMismatches []string `json:"type_mismatches,omitempty"`
	ParseError     string   `json:"parse_error,omitempty"`
}

// StructuredStats is the per-record structured-mode score (§4.6).
type StructuredStats struct {
	Index   int
	Score   float64
	Reasons StructuredReasons
}

// Triple is the mode-agnostic input to the anomaly detector (§4.7).
type Triple struct {
	Index    int
	Score    float64
	Coverage float64
}

// Method selects the anomaly detection strategy.
type Method string

const (
	MethodScore      Method = "score"
	MethodCoverage   Method = "coverage"
	MethodPercentile Method = "percentile"
	MethodTop        Method = "top"
)

// DetectionSummary carries the descriptive statistics behind a detection,
// useful for reporting regardless of which method was used.
type DetectionSummary struct {
	Method    Method  `json:"method"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stdev"`
	Threshold float64 `json:"threshold"`
	Flagged   int     `json:"flagged"`
}

// MarshalJSON encodes infinite thresholds (the degenerate cases in §4.7:
// fewer than 2 records, zero variance, or a zero top/percentile count) as
// null rather than letting encoding/json reject the non-finite float.
func (d DetectionSummary) MarshalJSON() ([]byte, error) {
	type alias struct {
		Method    Method   `json:"method"`
		Count     int      `json:"count"`
		Mean      float64  `json:"mean"`
		StdDev    float64  `json:"stdev"`
		Threshold *float64 `json:"threshold"`
		Flagged   int      `json:"flagged"`
	}
	a := alias{Method: d.Method, Count: d.Count, Mean: d.Mean, StdDev: d.StdDev, Flagged: d.Flagged}
	if !math.IsInf(d.Threshold, 0) && !math.IsNaN(d.Threshold) {
		a.Threshold = &d.Threshold
	}
	return json.Marshal(a)
}

// Detection is the output of detect_indices: the flagged record indices in
// ascending order, the cutoff that produced them, and the summary stats.
type Detection struct {
	Indices   []int
	Threshold float64
	Summary   DetectionSummary
}

// ScanOptions configures the LZ77 match finder (§4.1).
type ScanOptions struct {
	WindowSize     int
	MinMatch       int
	MaxMatch       int
	MaxChainLength int
	// HashBits sizes the hash table at 2^HashBits buckets (default 15,
	// i.e. 32768 buckets per §4.1).
	HashBits int
}

// DefaultScanOptions mirrors the spec's §4.1 defaults.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		WindowSize:     32768,
		MinMatch:       4,
		MaxMatch:       258,
		MaxChainLength: 256,
		HashBits:       15,
	}
}

// Validate checks ScanOptions against the invariants in §4.1/§7.
func (o ScanOptions) Validate() error {
	if o.MinMatch < 3 {
		return fmt.Errorf("%w: min_match must be >= 3, got %d", ErrInvalidOptions, o.MinMatch)
	}
	if o.MaxMatch < o.MinMatch {
		return fmt.Errorf("%w: max_match (%d) must be >= min_match (%d)", ErrInvalidOptions, o.MaxMatch, o.MinMatch)
	}
	if o.WindowSize <= 0 || o.WindowSize&(o.WindowSize-1) != 0 {
		return fmt.Errorf("%w: window_size must be a positive power of two, got %d", ErrInvalidOptions, o.WindowSize)
	}
	if o.MaxChainLength <= 0 {
		return fmt.Errorf("%w: max_chain_length must be positive, got %d", ErrInvalidOptions, o.MaxChainLength)
	}
	return nil
}

// SchemaOptions configures the schema profiler (§4.5).
type SchemaOptions struct {
	LowCardinalityMax   int
	LowCardinalityRatio float64
}

// DefaultSchemaOptions mirrors the spec's §4.5 defaults.
func DefaultSchemaOptions() SchemaOptions {
	return SchemaOptions{
		LowCardinalityMax:   32,
		LowCardinalityRatio: 0.25,
	}
}

// FieldSetKey joins a sorted slice of field names into the canonical key
// used to index SchemaProfile.FieldSetCounts/FieldSets/NearestDistance.
// Callers must pass names already sorted.
func FieldSetKey(sortedNames []string) string {
	key := ""
	for i, n := range sortedNames {
		if i > 0 {
			key += "\x00"
		}
		key += n
	}
	return key
}

// Clamp01 restricts x to the closed [0,1] interval, per the score/coverage/
// rarity invariant in §8.
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
