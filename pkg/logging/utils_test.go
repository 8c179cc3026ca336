package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/loghound/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLogFile(t *testing.T, dir, name string, size int, modTime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := make([]byte, size)
	for i := range content {
		content[i] = 'x'
	}
	require.NoError(t, os.WriteFile(path, content, 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

func TestCleanupOldLogsRemovesOldestBeyondMaxFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeLogFile(t, dir, "loghound_1.log", 10, now.Add(-3*time.Hour))
	writeLogFile(t, dir, "loghound_2.log", 10, now.Add(-2*time.Hour))
	writeLogFile(t, dir, "loghound_3.log", 10, now.Add(-1*time.Hour))

	lm := logging.NewLogManager(dir, 2, 1024, false)
	require.NoError(t, lm.CleanupOldLogs())

	remaining, err := filepath.Glob(filepath.Join(dir, "loghound_*.log*"))
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
	assert.NotContains(t, remaining, filepath.Join(dir, "loghound_1.log"))
}

func TestCleanupOldLogsNoopUnderLimit(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "loghound_1.log", 10, time.Now())

	lm := logging.NewLogManager(dir, 5, 1024, false)
	require.NoError(t, lm.CleanupOldLogs())

	remaining, err := filepath.Glob(filepath.Join(dir, "loghound_*.log*"))
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestRotateLogsRotatesOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "loghound_big.log", 2048, time.Now())

	lm := logging.NewLogManager(dir, 10, 1024, false)
	require.NoError(t, lm.RotateLogs())

	remaining, err := filepath.Glob(filepath.Join(dir, "loghound_big.log*"))
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.NotEqual(t, filepath.Join(dir, "loghound_big.log"), remaining[0])
}

func TestGetLogStatsCountsFilesAndSize(t *testing.T) {
	dir := t.TempDir()
	writeLogFile(t, dir, "loghound_a.log", 100, time.Now())
	writeLogFile(t, dir, "loghound_b.log", 200, time.Now())

	lm := logging.NewLogManager(dir, 10, 1024*1024, false)
	stats, err := lm.GetLogStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, int64(300), stats.TotalSize)
	assert.Equal(t, 2, stats.UncompressedFiles)
}

func TestAnalyzeLogsCountsLevelsAndEvents(t *testing.T) {
	dir := t.TempDir()
	content := "2026-08-06 INFO Byte-pattern scan completed input=x\n" +
		"2026-08-06 WARN Anomaly detected record_index=5\n" +
		"2026-08-06 INFO Dictionary built dictionary_size=3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "loghound_a.log"), []byte(content), 0644))

	la := logging.NewLogAnalyzer(dir)
	analysis, err := la.AnalyzeLogs()
	require.NoError(t, err)

	assert.Equal(t, int64(3), analysis.TotalLines)
	assert.Equal(t, int64(2), analysis.InfoCount)
	assert.Equal(t, int64(1), analysis.WarningCount)
	assert.Equal(t, int64(1), analysis.ScanCount)
	assert.Equal(t, int64(1), analysis.DetectionCount)
	assert.Equal(t, int64(1), analysis.DictionaryCount)
	assert.Contains(t, analysis.GetLogSummary(), "Scans: 1")
}
