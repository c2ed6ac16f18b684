package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/seo-tagger/internal/common"
	dbpkg "github.com/dtnitsch/seo-tagger/pkg/db"
)

const displayTime = "2006-01-02 15:04:05"

// Command returns the history command and its subcommands. Without a
// subcommand it behaves like list.
func Command() *cli.Command {
	return &cli.Command{
		Name:   "history",
		Usage:  "Show generated documents recorded in the run history",
		Flags:  listFlags(),
		Action: ListAction,
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recent runs, newest first",
				Flags:  listFlags(),
				Action: ListAction,
			},
			{
				Name:      "show",
				Usage:     "Show one run by ID or unique ID prefix (latest when omitted)",
				ArgsUsage: "[ID]",
				Flags:     []cli.Flag{jsonFlag()},
				Action:    ShowAction,
			},
			{
				Name:      "batch",
				Usage:     "Show a batch and the runs it produced",
				ArgsUsage: "ID",
				Flags:     []cli.Flag{jsonFlag()},
				Action:    BatchAction,
			},
			{
				Name:   "stats",
				Usage:  "Count runs per analysis strategy",
				Action: StatsAction,
			},
		},
	}
}

func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:  "limit",
			Value: 20,
			Usage: "Maximum number of runs to show (0 for all)",
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "Only runs generated from this source",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Usage: "Only runs produced by this strategy (rule-based or ai)",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Only runs newer than a duration (24h) or date (2026-01-31)",
		},
		jsonFlag(),
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Print JSON instead of a table",
	}
}

func openDB(c *cli.Context) (*dbpkg.DB, func(), error) {
	app, err := common.Bootstrap(c, common.WithoutAI())
	if err != nil {
		return nil, nil, err
	}
	if app.DB == nil {
		app.Close()
		return nil, nil, cli.Exit("run history is disabled (database.enabled is false)", common.ExitInfra)
	}
	return app.DB, func() { app.Close() }, nil
}

func lookupFailed(err error) error {
	if errors.Is(err, dbpkg.ErrNotFound) || errors.Is(err, dbpkg.ErrAmbiguousID) {
		return cli.Exit(err.Error(), common.ExitInput)
	}
	return cli.Exit(err.Error(), common.ExitInfra)
}

func ListAction(c *cli.Context) error {
	since, err := common.Since(c.String("since"), time.Now())
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid --since: %v", err), common.ExitInput)
	}

	database, closeDB, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := database.ListRuns(c.Context, dbpkg.RunFilter{
		Limit:    c.Uint64("limit"),
		Source:   c.String("source"),
		Strategy: c.String("strategy"),
		Since:    since,
	})
	if err != nil {
		return cli.Exit(err.Error(), common.ExitInfra)
	}

	w := c.App.Writer
	if c.Bool("json") {
		return writeJSON(w, toRecords(runs))
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}
	printRunTable(w, runs)
	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'seo-tagger history show <id>' to see details\n")
	return nil
}

func ShowAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("history show takes at most one run ID", common.ExitInput)
	}
	database, closeDB, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB()

	run, err := runOrLatest(c, database)
	if err != nil {
		return lookupFailed(err)
	}

	w := c.App.Writer
	if c.Bool("json") {
		return writeJSON(w, toRecord(*run))
	}
	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Created:         %s\n", run.CreatedAt.Local().Format(displayTime))
	fmt.Fprintf(w, "Source:          %s\n", run.Source)
	fmt.Fprintf(w, "Output:          %s\n", orNone(run.OutputPath))
	fmt.Fprintf(w, "Title:           %s\n", run.Title)
	fmt.Fprintf(w, "Slug:            %s\n", run.Slug)
	fmt.Fprintf(w, "Focus keyword:   %s\n", run.FocusKeyword)
	fmt.Fprintf(w, "Content intent:  %s\n", run.ContentIntent)
	fmt.Fprintf(w, "Strategy:        %s\n", run.Strategy)
	if run.FallbackReason != "" {
		fmt.Fprintf(w, "Fallback reason: %s\n", run.FallbackReason)
	}
	fmt.Fprintf(w, "Word count:      %d\n", run.WordCount)
	fmt.Fprintf(w, "Content hash:    %s\n", run.ContentHash)
	if run.BatchID != "" {
		fmt.Fprintf(w, "Batch:           %s\n", run.BatchID)
	}
	return nil
}

// runOrLatest returns the run named by the first argument, or the newest
// run when no argument is given.
func runOrLatest(c *cli.Context, database *dbpkg.DB) (*dbpkg.Run, error) {
	if c.NArg() == 1 {
		return database.GetRun(c.Context, c.Args().First())
	}
	runs, err := database.ListRuns(c.Context, dbpkg.RunFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs recorded yet, run 'seo-tagger generate' first: %w", dbpkg.ErrNotFound)
	}
	return &runs[0], nil
}

func BatchAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("history batch takes exactly one batch ID", common.ExitInput)
	}
	database, closeDB, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB()

	batch, err := database.GetBatch(c.Context, c.Args().First())
	if err != nil {
		return lookupFailed(err)
	}
	runs, err := database.ListRuns(c.Context, dbpkg.RunFilter{BatchID: batch.ID})
	if err != nil {
		return cli.Exit(err.Error(), common.ExitInfra)
	}

	w := c.App.Writer
	if c.Bool("json") {
		return writeJSON(w, struct {
			BatchID      string      `json:"batch_id"`
			CreatedAt    time.Time   `json:"created_at"`
			Patterns     []string    `json:"patterns"`
			Total        int         `json:"total"`
			Generated    int         `json:"generated"`
			Skipped      int         `json:"skipped"`
			Failed       int         `json:"failed"`
			ManifestPath string      `json:"manifest_path,omitempty"`
			Runs         []runRecord `json:"runs"`
		}{batch.ID, batch.CreatedAt, batch.Patterns, batch.Total, batch.Generated,
			batch.Skipped, batch.Failed, batch.ManifestPath, toRecords(runs)})
	}
	fmt.Fprintf(w, "Batch %s\n", batch.ID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Created:   %s\n", batch.CreatedAt.Local().Format(displayTime))
	fmt.Fprintf(w, "Patterns:  %s\n", strings.Join(batch.Patterns, ", "))
	fmt.Fprintf(w, "Drafts:    %d total (%d generated, %d skipped, %d failed)\n",
		batch.Total, batch.Generated, batch.Skipped, batch.Failed)
	fmt.Fprintf(w, "Manifest:  %s\n", orNone(batch.ManifestPath))
	if len(runs) > 0 {
		fmt.Fprintf(w, "\nRuns (%d):\n", len(runs))
		printRunTable(w, runs)
	}
	return nil
}

func StatsAction(c *cli.Context) error {
	database, closeDB, err := openDB(c)
	if err != nil {
		return err
	}
	defer closeDB()

	counts, err := database.StrategyCounts(c.Context)
	if err != nil {
		return cli.Exit(err.Error(), common.ExitInfra)
	}
	names := make([]string, 0, len(counts))
	total := 0
	for name, n := range counts {
		names = append(names, name)
		total += n
	}
	sort.Strings(names)

	w := c.App.Writer
	for _, name := range names {
		fmt.Fprintf(w, "%-12s %d\n", name, counts[name])
	}
	fmt.Fprintf(w, "%-12s %d\n", "total", total)
	return nil
}

func printRunTable(w io.Writer, runs []dbpkg.Run) {
	fmt.Fprintf(w, "%-8s %-19s %-10s %-30s %-24s %s\n",
		"ID", "Created", "Strategy", "Slug", "Focus Keyword", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 120))
	for _, r := range runs {
		fmt.Fprintf(w, "%-8s %-19s %-10s %-30s %-24s %s\n",
			shortID(r.ID),
			r.CreatedAt.Local().Format(displayTime),
			r.Strategy,
			truncate(r.Slug, 30),
			truncate(r.FocusKeyword, 24),
			r.Source,
		)
	}
}

// runRecord is the JSON shape of a run.
type runRecord struct {
	ID             string    `json:"run_id"`
	CreatedAt      time.Time `json:"created_at"`
	Source         string    `json:"source"`
	OutputPath     string    `json:"output_path,omitempty"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	FocusKeyword   string    `json:"focus_keyword"`
	ContentIntent  string    `json:"content_intent"`
	Strategy       string    `json:"strategy"`
	FallbackReason string    `json:"fallback_reason,omitempty"`
	ContentHash    string    `json:"content_hash"`
	WordCount      int       `json:"word_count"`
	BatchID        string    `json:"batch_id,omitempty"`
}

func toRecord(r dbpkg.Run) runRecord {
	return runRecord(r)
}

func toRecords(runs []dbpkg.Run) []runRecord {
	out := make([]runRecord, 0, len(runs))
	for _, r := range runs {
		out = append(out, toRecord(r))
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
