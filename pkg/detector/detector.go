/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: detector.go
Description: Shared anomaly detector. Dispatches to one of four selectable
methods over a sequence of {index, score, coverage} triples, grounded in the
same named-strategy dispatch shape as the fuzzer's Mutator interface and its
CompositeMutator: a small registry of interchangeable named strategies
chosen by string, here picking a threshold rule instead of a mutation.
*/

package detector

import (
	"fmt"
	"math"
	"sort"

	"github.com/kleascm/loghound/pkg/types"
)

// Detect runs the selected method over triples and returns the flagged
// indices in ascending order, the cutoff used, and summary statistics, per
// §4.7's shared detect_indices entrypoint.
func Detect(triples []types.Triple, method types.Method) (types.Detection, error) {
	return DetectN(triples, method, 0, 0)
}

// DetectN is Detect, extended with the extra parameters the percentile and
// top methods need (p and n respectively; ignored by the other methods).
func DetectN(triples []types.Triple, method types.Method, percentile float64, n int) (types.Detection, error) {
	switch method {
	case types.MethodScore, "":
		return detectByZScore(triples, types.MethodScore, func(t types.Triple) float64 { return t.Score }, false)
	case types.MethodCoverage:
		return detectByZScore(triples, types.MethodCoverage, func(t types.Triple) float64 { return t.Coverage }, true)
	case types.MethodPercentile:
		return detectByPercentile(triples, percentile)
	case types.MethodTop:
		return detectByTop(triples, n)
	default:
		return types.Detection{}, fmt.Errorf("%w: unknown method %q", types.ErrInvalidOptions, method)
	}
}

// mean returns the arithmetic mean of xs; 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdev returns the Bessel-corrected sample standard deviation of xs. Per
// §4.7, n < 2 is degenerate; stdev returns 0 for it.
func stdev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sumSq float64
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// detectByZScore implements both the score and coverage methods: flag
// records whose value is more than 1.5 sample-stdevs above the mean (score)
// or below the mean (coverage, via the below flag).
func detectByZScore(triples []types.Triple, method types.Method, value func(types.Triple) float64, below bool) (types.Detection, error) {
	n := len(triples)
	summary := types.DetectionSummary{Method: method, Count: n}

	if n < 2 {
		return types.Detection{Threshold: math.Inf(1), Summary: summary}, nil
	}

	xs := make([]float64, n)
	for i, t := range triples {
		xs[i] = value(t)
	}
	m := mean(xs)
	sd := stdev(xs, m)
	summary.Mean = m
	summary.StdDev = sd

	if sd == 0 {
		// Short-circuit to empty result with an infinite threshold per §4.7.
		summary.Threshold = math.Inf(1)
		return types.Detection{Threshold: math.Inf(1), Summary: summary}, nil
	}

	var threshold float64
	var indices []int
	if below {
		threshold = m - 1.5*sd
		for _, t := range triples {
			if value(t) < threshold {
				indices = append(indices, t.Index)
			}
		}
	} else {
		threshold = m + 1.5*sd
		for _, t := range triples {
			if value(t) > threshold {
				indices = append(indices, t.Index)
			}
		}
	}
	sort.Ints(indices)
	summary.Threshold = threshold
	summary.Flagged = len(indices)

	return types.Detection{Indices: indices, Threshold: threshold, Summary: summary}, nil
}

// detectByPercentile flags the top p% of records by score, p ∈ (0, 100].
// The flagged count is ceil(p*M/100); ties at the boundary are broken by
// ascending record index (i.e. the lower index wins a tie for inclusion).
func detectByPercentile(triples []types.Triple, p float64) (types.Detection, error) {
	m := len(triples)
	summary := types.DetectionSummary{Method: types.MethodPercentile, Count: m}
	if p <= 0 || p > 100 {
		return types.Detection{}, fmt.Errorf("%w: percentile must be in (0, 100], got %v", types.ErrInvalidOptions, p)
	}
	if m == 0 {
		summary.Threshold = math.Inf(1)
		return types.Detection{Threshold: math.Inf(1), Summary: summary}, nil
	}

	k := int(math.Ceil(p * float64(m) / 100))
	if k > m {
		k = m
	}

	order := rankByScoreDesc(triples)
	selected := order[:k]
	indices := make([]int, k)
	for i, t := range selected {
		indices[i] = t.Index
	}
	sort.Ints(indices)

	xs := scoresOf(triples)
	summary.Mean = mean(xs)
	summary.StdDev = stdev(xs, summary.Mean)
	summary.Flagged = k
	threshold := math.Inf(1)
	if k > 0 {
		threshold = selected[k-1].Score
	}
	summary.Threshold = threshold

	return types.Detection{Indices: indices, Threshold: threshold, Summary: summary}, nil
}

// detectByTop flags the n records with the largest score, ties broken by
// ascending record index.
func detectByTop(triples []types.Triple, n int) (types.Detection, error) {
	m := len(triples)
	summary := types.DetectionSummary{Method: types.MethodTop, Count: m}
	if n < 0 {
		return types.Detection{}, fmt.Errorf("%w: top n must be >= 0, got %d", types.ErrInvalidOptions, n)
	}
	if n > m {
		n = m
	}
	if m == 0 || n == 0 {
		summary.Threshold = math.Inf(1)
		return types.Detection{Threshold: math.Inf(1), Summary: summary}, nil
	}

	order := rankByScoreDesc(triples)
	selected := order[:n]
	indices := make([]int, n)
	for i, t := range selected {
		indices[i] = t.Index
	}
	sort.Ints(indices)

	xs := scoresOf(triples)
	summary.Mean = mean(xs)
	summary.StdDev = stdev(xs, summary.Mean)
	summary.Flagged = n
	summary.Threshold = selected[n-1].Score

	return types.Detection{Indices: indices, Threshold: summary.Threshold, Summary: summary}, nil
}

// rankByScoreDesc returns triples sorted by descending score, ties broken
// by ascending index, without mutating the input slice.
func rankByScoreDesc(triples []types.Triple) []types.Triple {
	out := make([]types.Triple, len(triples))
	copy(out, triples)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Index < out[j].Index
	})
	return out
}

func scoresOf(triples []types.Triple) []float64 {
	xs := make([]float64, len(triples))
	for i, t := range triples {
		xs[i] = t.Score
	}
	return xs
}
