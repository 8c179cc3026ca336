package detector_test

import (
	"math"
	"testing"

	"github.com/kleascm/loghound/pkg/detector"
	"github.com/kleascm/loghound/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triplesFromScores(scores []float64) []types.Triple {
	out := make([]types.Triple, len(scores))
	for i, s := range scores {
		out[i] = types.Triple{Index: i, Score: s, Coverage: 1 - s}
	}
	return out
}

// Concrete scenario 2: 100 near-identical low-score records plus one
// wildly different record. method=score must flag exactly the outlier.
func TestDetectScoreConcreteScenario(t *testing.T) {
	scores := make([]float64, 0, 101)
	for i := 0; i < 100; i++ {
		scores = append(scores, 0.01)
	}
	scores = append(scores, 0.95)

	det, err := detector.Detect(triplesFromScores(scores), types.MethodScore)
	require.NoError(t, err)
	assert.Equal(t, []int{100}, det.Indices)
	assert.Equal(t, types.MethodScore, det.Summary.Method)
	assert.Equal(t, 1, det.Summary.Flagged)
}

func TestDetectCoverageFlagsLowOutlier(t *testing.T) {
	scores := make([]float64, 0, 101)
	for i := 0; i < 100; i++ {
		scores = append(scores, 0.1) // coverage = 0.9
	}
	scores = append(scores, 0.99) // coverage = 0.01, an outlier below the rest

	det, err := detector.Detect(triplesFromScores(scores), types.MethodCoverage)
	require.NoError(t, err)
	assert.Equal(t, []int{100}, det.Indices)
}

// Concrete scenario 5: 1000 records, method=percentile 10 flags exactly
// ceil(0.10*1000) = 100 records, the 100 with the largest score, ties
// broken by ascending index.
func TestDetectPercentileConcreteScenario(t *testing.T) {
	scores := make([]float64, 1000)
	for i := range scores {
		scores[i] = float64(i) // strictly increasing, no ties
	}

	det, err := detector.DetectN(triplesFromScores(scores), types.MethodPercentile, 10, 0)
	require.NoError(t, err)
	require.Len(t, det.Indices, 100)
	assert.Equal(t, 100, det.Summary.Flagged)

	// The top 100 by score are indices 900..999.
	expected := make([]int, 100)
	for i := 0; i < 100; i++ {
		expected[i] = 900 + i
	}
	assert.Equal(t, expected, det.Indices)

	for i := 1; i < len(det.Indices); i++ {
		assert.Less(t, det.Indices[i-1], det.Indices[i])
	}
}

func TestDetectPercentileTiesBreakByAscendingIndex(t *testing.T) {
	// 10 records, all tied at the same score; percentile 30 -> ceil(3)=3.
	scores := make([]float64, 10)
	for i := range scores {
		scores[i] = 0.5
	}
	det, err := detector.DetectN(triplesFromScores(scores), types.MethodPercentile, 30, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, det.Indices)
}

func TestDetectPercentileInvalidRange(t *testing.T) {
	_, err := detector.DetectN(triplesFromScores([]float64{0.1, 0.2}), types.MethodPercentile, 0, 0)
	assert.ErrorIs(t, err, types.ErrInvalidOptions)

	_, err = detector.DetectN(triplesFromScores([]float64{0.1, 0.2}), types.MethodPercentile, 101, 0)
	assert.ErrorIs(t, err, types.ErrInvalidOptions)
}

func TestDetectPercentileEmptyInput(t *testing.T) {
	det, err := detector.DetectN(nil, types.MethodPercentile, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, det.Indices)
	assert.True(t, math.IsInf(det.Threshold, 1))
}

// Concrete scenario 6: method=top with n=0 flags nothing and reports an
// infinite threshold.
func TestDetectTopZeroConcreteScenario(t *testing.T) {
	scores := []float64{0.9, 0.1, 0.5}
	det, err := detector.DetectN(triplesFromScores(scores), types.MethodTop, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, det.Indices)
	assert.True(t, math.IsInf(det.Threshold, 1))
}

func TestDetectTopSelectsLargestScores(t *testing.T) {
	scores := []float64{0.1, 0.9, 0.3, 0.8, 0.2}
	det, err := detector.DetectN(triplesFromScores(scores), types.MethodTop, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, det.Indices)
}

func TestDetectTopTiesBreakByAscendingIndex(t *testing.T) {
	scores := []float64{0.5, 0.5, 0.5, 0.1}
	det, err := detector.DetectN(triplesFromScores(scores), types.MethodTop, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, det.Indices)
}

func TestDetectTopNGreaterThanRecordCountClampsToAll(t *testing.T) {
	scores := []float64{0.1, 0.2}
	det, err := detector.DetectN(triplesFromScores(scores), types.MethodTop, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, det.Indices)
}

func TestDetectTopNegativeIsInvalid(t *testing.T) {
	_, err := detector.DetectN(triplesFromScores([]float64{0.1}), types.MethodTop, 0, -1)
	assert.ErrorIs(t, err, types.ErrInvalidOptions)
}

// Fewer than 2 records is degenerate for the z-score methods: threshold is
// +Inf and nothing is flagged.
func TestDetectScoreFewerThanTwoRecords(t *testing.T) {
	det, err := detector.Detect(triplesFromScores([]float64{0.9}), types.MethodScore)
	require.NoError(t, err)
	assert.Empty(t, det.Indices)
	assert.True(t, math.IsInf(det.Threshold, 1))

	det, err = detector.Detect(nil, types.MethodScore)
	require.NoError(t, err)
	assert.Empty(t, det.Indices)
	assert.True(t, math.IsInf(det.Threshold, 1))
}

// Zero variance short-circuits to an empty result rather than dividing by
// a zero stdev.
func TestDetectScoreZeroVarianceIsEmpty(t *testing.T) {
	scores := []float64{0.5, 0.5, 0.5, 0.5}
	det, err := detector.Detect(triplesFromScores(scores), types.MethodScore)
	require.NoError(t, err)
	assert.Empty(t, det.Indices)
	assert.Equal(t, 0.0, det.Summary.StdDev)
}

func TestDetectUnknownMethodIsInvalid(t *testing.T) {
	_, err := detector.Detect(triplesFromScores([]float64{0.1, 0.2}), types.Method("bogus"))
	assert.ErrorIs(t, err, types.ErrInvalidOptions)
}

// detect_indices output must always be strictly ascending and a subset of
// 0..M-1, regardless of method.
func TestDetectIndicesAreAscendingAndInRange(t *testing.T) {
	scores := []float64{0.9, 0.1, 0.8, 0.05, 0.95, 0.2, 0.3, 0.88}
	methods := []struct {
		method types.Method
		p      float64
		n      int
	}{
		{types.MethodScore, 0, 0},
		{types.MethodCoverage, 0, 0},
		{types.MethodPercentile, 25, 0},
		{types.MethodTop, 0, 3},
	}
	for _, m := range methods {
		det, err := detector.DetectN(triplesFromScores(scores), m.method, m.p, m.n)
		require.NoError(t, err)
		for i, idx := range det.Indices {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, len(scores))
			if i > 0 {
				assert.Less(t, det.Indices[i-1], idx)
			}
		}
	}
}
