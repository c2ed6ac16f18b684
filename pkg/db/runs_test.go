package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: MemoryPath, sb: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
	var err error
	database.DB, err = openDB(MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func sampleRun(source, hash string, at time.Time) *Run {
	return &Run{
		CreatedAt:     at,
		Source:        source,
		OutputPath:    "out/" + hash + ".md",
		Title:         "10 Tips for Better Sleep",
		Slug:          "10-tips-for-better-sleep",
		FocusKeyword:  "sleep",
		ContentIntent: "informational",
		Strategy:      "rule-based",
		ContentHash:   hash,
		WordCount:     120,
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}

	// Reopening an initialised database must not fail.
	db2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	db2.Close()
}

func TestInsertAndGetRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	at := time.Date(2025, 3, 14, 9, 30, 0, 123, time.UTC)
	r := sampleRun("drafts/sleep.md", "abc123", at)
	r.FallbackReason = "timeout"
	r.Strategy = "rule-based"

	if err := db.InsertRun(ctx, r); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if r.ID == "" {
		t.Fatal("InsertRun() did not assign an ID")
	}

	got, err := db.GetRun(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, at)
	}
	if got.FallbackReason != "timeout" {
		t.Errorf("FallbackReason = %q, want timeout", got.FallbackReason)
	}
	if got.BatchID != "" {
		t.Errorf("BatchID = %q, want empty", got.BatchID)
	}
	if got.WordCount != 120 || got.Slug != "10-tips-for-better-sleep" {
		t.Errorf("unexpected run: %+v", got)
	}

	// A unique prefix resolves to the same run.
	byPrefix, err := db.GetRun(ctx, r.ID[:8])
	if err != nil {
		t.Fatalf("GetRun(prefix) error = %v", err)
	}
	if byPrefix.ID != r.ID {
		t.Errorf("GetRun(prefix) = %s, want %s", byPrefix.ID, r.ID)
	}
}

func TestGetRunErrors(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := db.GetRun(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := db.GetRun(ctx, "  "); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun(blank) error = %v, want ErrNotFound", err)
	}

	for _, id := range []string{"aaaa-1", "aaaa-2"} {
		r := sampleRun("a.md", id, time.Now())
		r.ID = id
		if err := db.InsertRun(ctx, r); err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
	}
	if _, err := db.GetRun(ctx, "aaaa"); !errors.Is(err, ErrAmbiguousID) {
		t.Errorf("GetRun(ambiguous) error = %v, want ErrAmbiguousID", err)
	}
	if _, err := db.GetRun(ctx, "%"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun(wildcard) error = %v, want ErrNotFound", err)
	}
}

func TestListRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, src := range []string{"a.md", "b.md", "a.md"} {
		r := sampleRun(src, src, base.Add(time.Duration(i)*time.Hour))
		if i == 1 {
			r.Strategy = "ai"
		}
		if err := db.InsertRun(ctx, r); err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
	}

	all, err := db.ListRuns(ctx, RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListRuns() returned %d runs, want 3", len(all))
	}
	if !all[0].CreatedAt.After(all[1].CreatedAt) || !all[1].CreatedAt.After(all[2].CreatedAt) {
		t.Error("ListRuns() not ordered newest first")
	}

	limited, _ := db.ListRuns(ctx, RunFilter{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("Limit 1 returned %d runs", len(limited))
	}

	bySource, _ := db.ListRuns(ctx, RunFilter{Source: "a.md"})
	if len(bySource) != 2 {
		t.Errorf("Source filter returned %d runs, want 2", len(bySource))
	}

	byStrategy, _ := db.ListRuns(ctx, RunFilter{Strategy: "ai"})
	if len(byStrategy) != 1 || byStrategy[0].Source != "b.md" {
		t.Errorf("Strategy filter returned %+v", byStrategy)
	}

	since, _ := db.ListRuns(ctx, RunFilter{Since: base.Add(90 * time.Minute)})
	if len(since) != 1 {
		t.Errorf("Since filter returned %d runs, want 1", len(since))
	}

	counts, err := db.StrategyCounts(ctx)
	if err != nil {
		t.Fatalf("StrategyCounts() error = %v", err)
	}
	if counts["rule-based"] != 2 || counts["ai"] != 1 {
		t.Errorf("StrategyCounts() = %v", counts)
	}
}

func TestLatestRunByHash(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := db.LatestRunByHash(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LatestRunByHash(missing) error = %v, want ErrNotFound", err)
	}

	older := sampleRun("a.md", "same", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := sampleRun("a.md", "same", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	newer.OutputPath = "out/newer.md"
	for _, r := range []*Run{older, newer} {
		if err := db.InsertRun(ctx, r); err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
	}

	got, err := db.LatestRunByHash(ctx, "same")
	if err != nil {
		t.Fatalf("LatestRunByHash() error = %v", err)
	}
	if got.ID != newer.ID || got.OutputPath != "out/newer.md" {
		t.Errorf("LatestRunByHash() = %+v, want newer run", got)
	}
}

func TestBatches(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	b := &Batch{Patterns: []string{"drafts/**/*.md", "notes/*.txt"}, Total: 3}
	if err := db.CreateBatch(ctx, b); err != nil {
		t.Fatalf("CreateBatch() error = %v", err)
	}

	r := sampleRun("drafts/a.md", "h1", time.Now())
	r.BatchID = b.ID
	if err := db.InsertRun(ctx, r); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	b.Generated, b.Skipped, b.Failed = 1, 1, 1
	b.ManifestPath = "out/manifest.json"
	if err := db.FinishBatch(ctx, *b); err != nil {
		t.Fatalf("FinishBatch() error = %v", err)
	}

	got, err := db.GetBatch(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBatch() error = %v", err)
	}
	if got.Generated != 1 || got.Skipped != 1 || got.Failed != 1 || got.ManifestPath != "out/manifest.json" {
		t.Errorf("GetBatch() = %+v", got)
	}
	if len(got.Patterns) != 2 || got.Patterns[1] != "notes/*.txt" {
		t.Errorf("Patterns = %v", got.Patterns)
	}

	runs, _ := db.ListRuns(ctx, RunFilter{BatchID: b.ID})
	if len(runs) != 1 {
		t.Errorf("ListRuns(batch) returned %d runs, want 1", len(runs))
	}

	if err := db.FinishBatch(ctx, Batch{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("FinishBatch(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := db.GetBatch(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBatch(missing) error = %v, want ErrNotFound", err)
	}
}
