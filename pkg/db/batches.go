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

// Batch is one batch command invocation.
type Batch struct {
	ID           string
	CreatedAt    time.Time
	Patterns     []string
	Total        int
	Generated    int
	Skipped      int
	Failed       int
	ManifestPath string
}

// CreateBatch records b, assigning an ID and timestamp when they are unset.
func (db *DB) CreateBatch(ctx context.Context, b *Batch) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	_, err := db.sb.Insert("batches").
		Columns("batch_id", "created_at", "patterns", "total").
		Values(b.ID, b.CreatedAt.UTC().Format(timeLayout), strings.Join(b.Patterns, "\n"), b.Total).
		RunWith(db.DB).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	return nil
}

// FinishBatch stores the final counts and manifest path of b.
func (db *DB) FinishBatch(ctx context.Context, b Batch) error {
	res, err := db.sb.Update("batches").
		SetMap(map[string]interface{}{
			"total":         b.Total,
			"generated":     b.Generated,
			"skipped":       b.Skipped,
			"failed":        b.Failed,
			"manifest_path": nullString(b.ManifestPath),
		}).
		Where(sq.Eq{"batch_id": b.ID}).
		RunWith(db.DB).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("batch %s: %w", b.ID, ErrNotFound)
	}
	return nil
}

// GetBatch returns the batch with id.
func (db *DB) GetBatch(ctx context.Context, id string) (*Batch, error) {
	query, args, err := db.sb.Select("batch_id", "created_at", "patterns", "total", "generated", "skipped", "failed", "COALESCE(manifest_path, '')").
		From("batches").
		Where(sq.Eq{"batch_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var (
		b                 Batch
		created, patterns string
	)
	err = db.QueryRowContext(ctx, query, args...).Scan(&b.ID, &created, &patterns, &b.Total, &b.Generated, &b.Skipped, &b.Failed, &b.ManifestPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("batch %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	if b.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return nil, fmt.Errorf("failed to parse batch timestamp %q: %w", created, err)
	}
	if patterns != "" {
		b.Patterns = strings.Split(patterns, "\n")
	}
	return &b, nil
}
