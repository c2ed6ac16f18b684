package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dtnitsch/seo-tagger/pkg/mapreduce"
	"github.com/dtnitsch/seo-tagger/pkg/storage"
)

// aggregateLimit caps the batch-wide keyword list.
const aggregateLimit = 25

// DraftResult is the outcome of processing one draft in a batch.
type DraftResult struct {
	Source         string
	Skipped        bool
	OutputPath     string
	RunID          string
	Title          string
	Slug           string
	FocusKeyword   string
	Strategy       string
	FallbackReason string
	Keywords       []string
	WordCount      int
	Error          error
	ErrorType      string
	FileSizeBytes  int64
}

// Status reports the manifest status for r.
func (r DraftResult) Status() string {
	switch {
	case r.Error != nil:
		return StatusFailed
	case r.Skipped:
		return StatusSkipped
	default:
		return StatusGenerated
	}
}

// Build assembles the manifest for a batch without writing it.
func Build(batchID string, patterns []string, results []DraftResult, now time.Time) BatchManifest {
	m := BatchManifest{
		BatchID:     batchID,
		GeneratedAt: now.Format(time.RFC3339),
		Patterns:    patterns,
		Total:       len(results),
		Results:     make([]DraftSummary, 0, len(results)),
	}

	var intermediate []map[string]int
	for _, result := range results {
		summary := DraftSummary{
			Source: result.Source,
			Status: result.Status(),
		}

		switch summary.Status {
		case StatusFailed:
			m.Failed++
			summary.ErrorType = result.ErrorType
			summary.ErrorMessage = result.Error.Error()
		case StatusSkipped:
			m.Skipped++
			summary.OutputPath = result.OutputPath
			summary.RunID = result.RunID
		default:
			m.Generated++
			summary.OutputPath = result.OutputPath
			summary.RunID = result.RunID
			summary.Title = result.Title
			summary.Slug = result.Slug
			summary.FocusKeyword = result.FocusKeyword
			summary.Strategy = result.Strategy
			summary.FallbackReason = result.FallbackReason
			summary.WordCount = result.WordCount
			summary.SizeBytes = result.FileSizeBytes
			summary.Keywords = result.Keywords
			intermediate = append(intermediate, mapreduce.Map(result.Keywords))
		}

		m.Results = append(m.Results, summary)
	}

	m.AggregateKeywords = mapreduce.TopKeywords(mapreduce.Reduce(intermediate), aggregateLimit)
	return m
}

// GenerateSummary builds the batch manifest and saves it in the storage
// directory. Returns the path to the generated manifest file.
func GenerateSummary(batchID string, patterns []string, results []DraftResult, s *storage.Storage, now time.Time) (string, error) {
	m := Build(batchID, patterns, results, now)

	id := batchID
	if len(id) > 8 {
		id = id[:8]
	}
	manifestPath := filepath.Join(s.Dir, fmt.Sprintf("manifest-%s-%s.json", now.Format("2006-01-02"), id))
	manifestData, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := s.SaveFile(manifestPath, manifestData); err != nil {
		return "", fmt.Errorf("error saving manifest: %w", err)
	}

	return manifestPath, nil
}
