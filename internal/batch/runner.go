package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dtnitsch/seo-tagger/internal/common"
	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/db"
	"github.com/dtnitsch/seo-tagger/pkg/manifest"
)

// ExpandGlobs resolves doublestar patterns to a sorted, de-duplicated list
// of regular files.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: bad glob pattern %q", common.ErrNoInput, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Runner tags drafts one after another, pacing AI-backed requests and
// skipping drafts whose content already produced an output.
type Runner struct {
	App       *common.App
	BatchID   string
	Overrides models.Overrides
	// Interval is the minimum gap between generated drafts; 0 disables pacing.
	Interval time.Duration
	// Force regenerates drafts even when their content hash is known.
	Force bool
}

// Run processes files in order. A cancelled ctx marks the remaining files failed.
func (r *Runner) Run(ctx context.Context, files []string) []manifest.DraftResult {
	results := make([]manifest.DraftResult, 0, len(files))
	logger := r.App.Logger.With("component", "batch", "batch_id", r.BatchID)

	var ticker *time.Ticker
	if r.Interval > 0 {
		ticker = time.NewTicker(r.Interval)
		defer ticker.Stop()
	}

	generated := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			results = append(results, failed(file, err))
			continue
		}

		hash, skip := r.known(ctx, file)
		if skip != nil {
			logger.Info("Skipping unchanged draft", "source", file, "output", skip.OutputPath)
			results = append(results, *skip)
			r.App.Metrics.ObserveBatchItem(manifest.StatusSkipped)
			continue
		}

		if ticker != nil && generated > 0 {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				results = append(results, failed(file, ctx.Err()))
				continue
			}
		}

		res := r.process(ctx, file, hash)
		if res.Error != nil {
			logger.Error("Failed to generate document", "source", file, "error", res.Error)
		} else {
			generated++
		}
		r.App.Metrics.ObserveBatchItem(res.Status())
		results = append(results, res)
	}
	return results
}

// known hashes file and returns a skipped result when an earlier run
// produced an output that still exists.
func (r *Runner) known(ctx context.Context, file string) (string, *manifest.DraftResult) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return "", nil
	}
	hash := common.ContentHash(raw)
	if r.Force || r.App.DB == nil {
		return hash, nil
	}

	run, err := r.App.DB.LatestRunByHash(ctx, hash)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			r.App.Logger.Warn("Run history lookup failed", "source", file, "error", err)
		}
		return hash, nil
	}
	if run.OutputPath == "" || !r.App.Storage.HasFile(run.OutputPath) {
		return hash, nil
	}
	return hash, &manifest.DraftResult{
		Source:     file,
		Skipped:    true,
		OutputPath: run.OutputPath,
		RunID:      run.ID,
	}
}

func (r *Runner) process(ctx context.Context, file, hash string) manifest.DraftResult {
	doc, err := r.App.Ingester.File(file)
	if err != nil {
		return failed(file, err)
	}
	doc.Overrides = r.Overrides.Merge(doc.Overrides)

	p, err := r.App.Publish(ctx, doc, common.PublishOptions{BatchID: r.BatchID, Hash: hash})
	if err != nil {
		return failed(file, err)
	}

	meta := p.Output.Metadata
	return manifest.DraftResult{
		Source:         file,
		OutputPath:     p.Path,
		RunID:          p.RunID,
		Title:          meta.Title,
		Slug:           meta.Slug,
		FocusKeyword:   meta.FocusKeyword,
		Strategy:       p.Output.Strategy,
		FallbackReason: p.Output.FallbackReason,
		Keywords:       meta.Keywords,
		WordCount:      meta.WordCount,
		FileSizeBytes:  p.SizeBytes,
	}
}

func failed(file string, err error) manifest.DraftResult {
	return manifest.DraftResult{Source: file, Error: err, ErrorType: common.ErrorType(err)}
}
