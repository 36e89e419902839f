package state

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/lingua/config"
	"github.com/teranos/lingua/metadata"
	"github.com/teranos/lingua/validation"
)

func newTestStore(t *testing.T) *Store {
	dir := t.TempDir()
	s := NewStore(config.MetadataConfig{
		OutputPath:    filepath.Join(dir, "codebase_metadata.json"),
		StatusLogPath: filepath.Join(dir, "status_log.json"),
	})
	s.SetValidationLogPath(filepath.Join(dir, "validation_log.json"))
	return s
}

func TestMetadataRoundTrip(t *testing.T) {
	s := newTestStore(t)

	meta := &metadata.ProjectMetadata{
		ProjectName:  "demo",
		MainLanguage: "python",
		TotalFiles:   3,
		GeneratedAt:  time.Now().UTC().Truncate(time.Second),
		Languages: map[string]metadata.LanguageSummary{
			"python": {Files: 3, CodeLines: 120, SizeBytes: 4096},
		},
	}
	require.NoError(t, s.SaveMetadata(meta))

	loaded, err := s.LoadMetadata()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "demo", loaded.ProjectName)
	assert.Equal(t, 3, loaded.Languages["python"].Files)
}

func TestLoadMetadataMissing(t *testing.T) {
	s := newTestStore(t)

	loaded, err := s.LoadMetadata()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestAppendStatusTrimsToLimit(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < maxStatusEntries+20; i++ {
		require.NoError(t, s.AppendStatus(StatusEntry{
			Operation: "validate",
			Status:    "passed",
			Details:   map[string]interface{}{"seq": fmt.Sprint(i)},
		}))
	}

	entries, err := s.LoadStatusLog()
	require.NoError(t, err)
	require.Len(t, entries, maxStatusEntries)
	// oldest entries were dropped
	assert.Equal(t, "20", entries[0].Details["seq"])
	assert.Equal(t, fmt.Sprint(maxStatusEntries+19), entries[len(entries)-1].Details["seq"])
}

func TestSummary(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 15; i++ {
		status := "passed"
		if i%5 == 0 {
			status = "failed"
		}
		require.NoError(t, s.AppendStatus(StatusEntry{Operation: "validate", Status: status}))
	}

	summary, err := s.Summary()
	require.NoError(t, err)
	require.NotNil(t, summary.Latest)
	assert.Equal(t, 15, summary.Total)
	assert.Equal(t, statusSummaryWindow, summary.Recent)
	// window covers entries 5..14: failed at indices 5 and 10
	assert.Equal(t, 2, summary.Counts["failed"])
	assert.Equal(t, 8, summary.Counts["passed"])
}

func TestSummaryEmpty(t *testing.T) {
	s := newTestStore(t)

	summary, err := s.Summary()
	require.NoError(t, err)
	assert.Nil(t, summary.Latest)
	assert.Zero(t, summary.Total)
}

func TestValidationReportRoundTrip(t *testing.T) {
	s := newTestStore(t)

	report := &validation.Report{
		OverallStatus: validation.OverallFailed,
		Syntax: &validation.StageResult{
			Stage:  validation.StageSyntax,
			Status: validation.StatusInvalid,
			Issues: []validation.Issue{{File: "bad.py", Line: 3, Message: "invalid syntax", Severity: "error"}},
		},
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, s.SaveValidationReport(report))

	loaded, err := s.LoadValidationReport()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, validation.OverallFailed, loaded.OverallStatus)
	require.NotNil(t, loaded.Syntax)
	assert.Nil(t, loaded.Test, "absent stages stay absent through persistence")
	assert.Equal(t, "bad.py", loaded.Syntax.Issues[0].File)
}
