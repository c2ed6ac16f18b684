package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no row matches a lookup.
var ErrNotFound = errors.New("not found")

// ErrAmbiguousID is returned when a run ID prefix matches more than one run.
var ErrAmbiguousID = errors.New("ambiguous run id")

// Fixed width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one generated document.
type Run struct {
	ID             string
	CreatedAt      time.Time
	Source         string
	OutputPath     string
	Title          string
	Slug           string
	FocusKeyword   string
	ContentIntent  string
	Strategy       string
	FallbackReason string
	ContentHash    string
	WordCount      int
	BatchID        string
}

// RunFilter narrows ListRuns. Zero values match everything.
type RunFilter struct {
	Limit    uint64
	Source   string
	Strategy string
	BatchID  string
	Since    time.Time
}

var runColumns = []string{
	"run_id", "created_at", "source", "output_path", "title", "slug",
	"focus_keyword", "content_intent", "strategy", "fallback_reason",
	"content_hash", "word_count", "batch_id",
}

// InsertRun records r, assigning an ID and timestamp when they are unset.
func (db *DB) InsertRun(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := db.sb.Insert("runs").
		Columns(runColumns...).
		Values(
			r.ID, r.CreatedAt.UTC().Format(timeLayout), r.Source, nullString(r.OutputPath),
			r.Title, r.Slug, r.FocusKeyword, r.ContentIntent, r.Strategy,
			nullString(r.FallbackReason), r.ContentHash, r.WordCount, nullString(r.BatchID),
		).
		RunWith(db.DB).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// GetRun returns the run whose ID equals or starts with id.
func (db *DB) GetRun(ctx context.Context, id string) (*Run, error) {
	prefix := escapeLike(strings.TrimSpace(id))
	if prefix == "" {
		return nil, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}

	runs, err := db.queryRuns(ctx, db.sb.Select(runColumns...).
		From("runs").
		Where(sq.Like{"run_id": prefix + "%"}).
		Limit(2))
	if err != nil {
		return nil, err
	}
	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	case 1:
		return &runs[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

// ListRuns returns runs newest first.
func (db *DB) ListRuns(ctx context.Context, f RunFilter) ([]Run, error) {
	q := db.sb.Select(runColumns...).From("runs").OrderBy("created_at DESC", "run_id")
	if f.Source != "" {
		q = q.Where(sq.Eq{"source": f.Source})
	}
	if f.Strategy != "" {
		q = q.Where(sq.Eq{"strategy": f.Strategy})
	}
	if f.BatchID != "" {
		q = q.Where(sq.Eq{"batch_id": f.BatchID})
	}
	if !f.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": f.Since.UTC().Format(timeLayout)})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return db.queryRuns(ctx, q)
}

// LatestRunByHash returns the newest run produced from content with hash.
func (db *DB) LatestRunByHash(ctx context.Context, hash string) (*Run, error) {
	runs, err := db.queryRuns(ctx, db.sb.Select(runColumns...).
		From("runs").
		Where(sq.Eq{"content_hash": hash}).
		OrderBy("created_at DESC").
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("run with hash %s: %w", hash, ErrNotFound)
	}
	return &runs[0], nil
}

// StrategyCounts returns how many runs each strategy produced.
func (db *DB) StrategyCounts(ctx context.Context) (map[string]int, error) {
	query, args, err := db.sb.Select("strategy", "COUNT(*)").From("runs").GroupBy("strategy").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

func (db *DB) queryRuns(ctx context.Context, q sq.SelectBuilder) ([]Run, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                             Run
			created                       string
			outputPath, fallback, batchID sql.NullString
		)
		if err := rows.Scan(
			&r.ID, &created, &r.Source, &outputPath, &r.Title, &r.Slug,
			&r.FocusKeyword, &r.ContentIntent, &r.Strategy, &fallback,
			&r.ContentHash, &r.WordCount, &batchID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp %q: %w", created, err)
		}
		r.OutputPath = outputPath.String
		r.FallbackReason = fallback.String
		r.BatchID = batchID.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// escapeLike drops LIKE wildcards from user input; run IDs never contain them.
func escapeLike(s string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(s)
}
