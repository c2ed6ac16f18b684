package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Batches: one row per batch command invocation
CREATE TABLE IF NOT EXISTS batches (
    batch_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    patterns TEXT NOT NULL,
    total INTEGER DEFAULT 0,
    generated INTEGER DEFAULT 0,
    skipped INTEGER DEFAULT 0,
    failed INTEGER DEFAULT 0,
    manifest_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_batches_created ON batches(created_at DESC);

-- Runs: every generated document
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    source TEXT NOT NULL,
    output_path TEXT,
    title TEXT NOT NULL,
    slug TEXT NOT NULL,
    focus_keyword TEXT NOT NULL,
    content_intent TEXT NOT NULL,
    strategy TEXT NOT NULL,
    fallback_reason TEXT,
    content_hash TEXT NOT NULL,
    word_count INTEGER DEFAULT 0,
    batch_id TEXT,
    FOREIGN KEY (batch_id) REFERENCES batches(batch_id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(content_hash);
CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_runs_batch ON runs(batch_id);
`
