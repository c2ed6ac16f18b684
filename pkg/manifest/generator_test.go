package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/seo-tagger/pkg/storage"
)

var batchTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleResults() []DraftResult {
	return []DraftResult{
		{
			Source: "drafts/sleep.md", OutputPath: "out/sleep.md", RunID: "r1",
			Title: "10 Tips for Better Sleep", Slug: "10-tips-for-better-sleep",
			FocusKeyword: "sleep", Strategy: "rule-based", WordCount: 90,
			Keywords: []string{"sleep", "sleep quality", "bedtime"},
		},
		{
			Source: "drafts/naps.md", OutputPath: "out/naps.md", RunID: "r2",
			FocusKeyword: "naps", Strategy: "ai",
			Keywords: []string{"naps", "sleep"},
		},
		{Source: "drafts/old.md", Skipped: true, OutputPath: "out/old.md", RunID: "r0"},
		{Source: "drafts/empty.md", Error: errors.New("document is empty"), ErrorType: "input"},
	}
}

func TestBuild(t *testing.T) {
	m := Build("batch-1", []string{"drafts/*.md"}, sampleResults(), batchTime)

	assert.Equal(t, "2025-03-14T09:30:00Z", m.GeneratedAt)
	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 2, m.Generated)
	assert.Equal(t, 1, m.Skipped)
	assert.Equal(t, 1, m.Failed)
	assert.Equal(t, []string{"sleep:2", "bedtime:1", "naps:1", "sleep quality:1"}, m.AggregateKeywords)

	require.Len(t, m.Results, 4)
	assert.Equal(t, StatusGenerated, m.Results[0].Status)
	assert.Equal(t, "sleep", m.Results[0].FocusKeyword)
	assert.Equal(t, StatusSkipped, m.Results[2].Status)
	assert.Equal(t, "r0", m.Results[2].RunID)
	assert.Empty(t, m.Results[2].Keywords)
	assert.Equal(t, StatusFailed, m.Results[3].Status)
	assert.Equal(t, "document is empty", m.Results[3].ErrorMessage)
	assert.Empty(t, m.Results[3].OutputPath)
}

func TestGenerateSummaryWritesJSON(t *testing.T) {
	s, err := storage.New(t.TempDir())
	require.NoError(t, err)

	path, err := GenerateSummary("0123456789abcdef", []string{"drafts/*.md"}, sampleResults(), s, batchTime)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir, "manifest-2025-03-14-01234567.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got BatchManifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "0123456789abcdef", got.BatchID)
	assert.Equal(t, 2, got.Generated)
	assert.Len(t, got.Results, 4)
}

func TestBuildEmptyBatch(t *testing.T) {
	m := Build("b", nil, nil, batchTime)
	assert.Zero(t, m.Total)
	assert.Empty(t, m.AggregateKeywords)
	assert.NotNil(t, m.Results)
}
