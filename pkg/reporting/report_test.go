package reporting_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/loghound/pkg/reporting"
	"github.com/kleascm/loghound/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDetection() types.Detection {
	return types.Detection{
		Indices:   []int{1, 3},
		Threshold: 0.8,
		Summary: types.DetectionSummary{
			Method:    types.MethodScore,
			Count:     4,
			Mean:      0.3,
			StdDev:    0.2,
			Threshold: 0.8,
			Flagged:   2,
		},
	}
}

func TestBuildReportOrdersFlaggedRecordsByIndex(t *testing.T) {
	det := sampleDetection()
	det.Indices = []int{3, 1}
	scores := map[int]float64{1: 0.9, 3: 0.85}
	reasons := map[int]string{1: "rare token", 3: "low coverage"}

	r := reporting.BuildReport("test report", "in.log", 4, 5, det, scores, reasons)

	require.Len(t, r.FlaggedRecords, 2)
	assert.Equal(t, 1, r.FlaggedRecords[0].Index)
	assert.Equal(t, 3, r.FlaggedRecords[1].Index)
	assert.Equal(t, 0.9, r.FlaggedRecords[0].Score)
	assert.Equal(t, "low coverage", r.FlaggedRecords[1].Reason)
	assert.Equal(t, reporting.Version, r.Version)
	assert.NotEmpty(t, r.RunID)
}

func TestBuildReportAssignsUniqueRunIDs(t *testing.T) {
	det := sampleDetection()
	a := reporting.BuildReport("a", "in.log", 1, 0, det, nil, nil)
	b := reporting.BuildReport("b", "in.log", 1, 0, det, nil, nil)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestBuildReportEmptyDetection(t *testing.T) {
	r := reporting.BuildReport("empty", "in.log", 0, 0, types.Detection{}, nil, nil)
	assert.Empty(t, r.FlaggedRecords)
}

func TestWriteJSONRoundTrips(t *testing.T) {
	r := reporting.BuildReport("json report", "in.log", 4, 5, sampleDetection(),
		map[int]float64{1: 0.9, 3: 0.85}, map[int]string{1: "a", 3: "b"})

	var buf bytes.Buffer
	require.NoError(t, reporting.WriteJSON(&buf, r))

	var decoded reporting.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.Title, decoded.Title)
	assert.Equal(t, r.InputPath, decoded.InputPath)
	require.Len(t, decoded.FlaggedRecords, 2)
	assert.Equal(t, r.FlaggedRecords[0].Index, decoded.FlaggedRecords[0].Index)
}

func TestWriteTextContainsSummaryFields(t *testing.T) {
	r := reporting.BuildReport("text report", "in.log", 4, 5, sampleDetection(),
		map[int]float64{1: 0.9, 3: 0.85}, map[int]string{1: "a", 3: "b"})

	var buf bytes.Buffer
	require.NoError(t, reporting.WriteText(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "text report")
	assert.Contains(t, out, "in.log")
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "[3]")
}

func TestWriteHTMLProducesReadableFile(t *testing.T) {
	r := reporting.BuildReport("html report", "in.log", 4, 5, sampleDetection(),
		map[int]float64{1: 0.9, 3: 0.85}, map[int]string{1: "a", 3: "b"})

	dir := t.TempDir()
	path, err := reporting.WriteHTML(dir, r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.html"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "html report")
	assert.Contains(t, string(content), "<!DOCTYPE html>")
}
