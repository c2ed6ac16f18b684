package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/seo-tagger/internal/common"
	"github.com/dtnitsch/seo-tagger/pkg/db"
	"github.com/dtnitsch/seo-tagger/pkg/manifest"
	"github.com/dtnitsch/seo-tagger/pkg/mapreduce"
)

// Command returns the batch command.
func Command() *cli.Command {
	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "glob",
			Aliases: []string{"g"},
			Usage:   "Draft glob, ** allowed (repeatable); extra arguments are globs too",
		},
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Regenerate drafts whose content is unchanged since the last run",
		},
		&cli.IntFlag{
			Name:  "top",
			Value: 10,
			Usage: "How many aggregate keywords to print",
		},
	}
	return &cli.Command{
		Name:      "batch",
		Usage:     "Generate front matter for every draft matching the globs",
		ArgsUsage: "[GLOB...]",
		Flags:     append(flags, common.OverrideFlags(false)...),
		Action:    BatchAction,
	}
}

func BatchAction(c *cli.Context) error {
	patterns := append(c.StringSlice("glob"), c.Args().Slice()...)
	if len(patterns) == 0 {
		return cli.Exit("batch needs at least one --glob pattern", common.ExitInput)
	}
	files, err := ExpandGlobs(patterns)
	if err != nil {
		return common.Fail(err)
	}
	if len(files) == 0 {
		return common.Fail(fmt.Errorf("%w: no drafts match %v", common.ErrNoInput, patterns))
	}

	overrides, err := common.OverridesFromFlags(c)
	if err != nil {
		return common.Fail(err)
	}

	app, err := common.Bootstrap(c)
	if err != nil {
		return err
	}
	defer app.Close()

	batch := &db.Batch{ID: uuid.NewString(), Patterns: patterns, Total: len(files)}
	if app.DB != nil {
		if err := app.DB.CreateBatch(c.Context, batch); err != nil {
			return common.Fail(err)
		}
	}

	interval := app.Config.PacingInterval(app.AIActive)
	app.Logger.Info("Starting batch",
		"batch_id", batch.ID,
		"drafts", len(files),
		"ai", app.AIActive,
		"pacing", interval.String())

	runner := &Runner{
		App:       app,
		BatchID:   batch.ID,
		Overrides: overrides,
		Interval:  interval,
		Force:     c.Bool("force"),
	}
	results := runner.Run(c.Context, files)

	now := time.Now()
	manifestPath, err := manifest.GenerateSummary(batch.ID, patterns, results, app.Storage, now)
	if err != nil {
		return common.Fail(err)
	}
	m := manifest.Build(batch.ID, patterns, results, now)

	if app.DB != nil {
		batch.Generated, batch.Skipped, batch.Failed = m.Generated, m.Skipped, m.Failed
		batch.ManifestPath = manifestPath
		if err := app.DB.FinishBatch(c.Context, *batch); err != nil {
			app.Logger.Warn("Failed to record batch totals", "batch_id", batch.ID, "error", err)
		}
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Batch %s: %d generated, %d skipped, %d failed\n", batch.ID[:8], m.Generated, m.Skipped, m.Failed)
	fmt.Fprintf(w, "Manifest: %s\n", manifestPath)
	for _, r := range m.Results {
		if r.Status == manifest.StatusFailed {
			fmt.Fprintf(w, "  failed: %s: %s\n", r.Source, r.ErrorMessage)
		}
	}
	if m.Generated > 0 {
		var counts []map[string]int
		for _, r := range results {
			if r.Status() == manifest.StatusGenerated {
				counts = append(counts, mapreduce.Map(r.Keywords))
			}
		}
		fmt.Fprintln(w, "\nTop keywords:")
		mapreduce.PrintTopKeywords(w, mapreduce.Reduce(counts), c.Int("top"))
	}

	switch {
	case m.Failed == 0:
		return nil
	case m.Failed == m.Total:
		return cli.Exit(fmt.Sprintf("all %d drafts failed", m.Total), common.ExitInfra)
	default:
		return cli.Exit(fmt.Sprintf("%d of %d drafts failed", m.Failed, m.Total), common.ExitInput)
	}
}
