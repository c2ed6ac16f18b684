package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/seo-tagger/internal/common"
	"github.com/dtnitsch/seo-tagger/internal/config"
	"github.com/dtnitsch/seo-tagger/pkg/manifest"
)

const sleepDraft = `# 10 Tips for Better Sleep

Good sleep quality starts with a consistent schedule. Sleep experts agree that
better sleep comes from routine.
`

const coffeeDraft = `# Brewing Better Espresso

Espresso rewards patience. Dial in the grinder before changing anything else
about the espresso shot.
`

func writeDrafts(t *testing.T, dir string, drafts map[string]string) {
	t.Helper()
	for name, body := range drafts {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SEO_TAGGER_CONFIG", "GEMINI_API_KEY", "OPENAI_API_KEY", "SEO_TAGGER_PROVIDER", "SEO_TAGGER_MODEL"} {
		t.Setenv(k, "")
	}
}

func runBatch(t *testing.T, dir string, out *bytes.Buffer, args ...string) error {
	t.Helper()
	app := &cli.App{
		Name:           "seo-tagger",
		Flags:          common.GlobalFlags(),
		Commands:       []*cli.Command{Command()},
		Writer:         out,
		ErrWriter:      io.Discard,
		ExitErrHandler: func(*cli.Context, error) {},
	}
	argv := []string{"seo-tagger",
		"--output-dir", filepath.Join(dir, "out"),
		"--db", filepath.Join(dir, "history.db"),
		"--no-ai",
		"batch"}
	return app.Run(append(argv, args...))
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	writeDrafts(t, dir, map[string]string{
		"drafts/a.md":        "a",
		"drafts/nested/b.md": "b",
		"drafts/c.txt":       "c",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "drafts", "dir.md"), 0o755))

	files, err := ExpandGlobs([]string{
		filepath.Join(dir, "drafts", "**", "*.md"),
		filepath.Join(dir, "drafts", "a.md"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "drafts", "a.md"),
		filepath.Join(dir, "drafts", "nested", "b.md"),
	}, files)

	_, err = ExpandGlobs([]string{"drafts/[unclosed"})
	assert.ErrorIs(t, err, common.ErrNoInput)
}

func TestBatchCommand(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeDrafts(t, dir, map[string]string{
		"drafts/sleep.md":  sleepDraft,
		"drafts/coffee.md": coffeeDraft,
		"drafts/empty.md":  "   \n",
	})
	glob := filepath.Join(dir, "drafts", "*.md")

	var out bytes.Buffer
	err := runBatch(t, dir, &out, "--glob", glob, "--category", "Lifestyle")
	var ec cli.ExitCoder
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, common.ExitInput, ec.ExitCode(), "one draft failed")
	assert.Contains(t, out.String(), "2 generated, 0 skipped, 1 failed")
	assert.Contains(t, out.String(), "Top keywords:")

	for _, name := range []string{"10-tips-for-better-sleep.md", "brewing-better-espresso.md"} {
		data, err := os.ReadFile(filepath.Join(dir, "out", name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "category: Lifestyle")
	}

	manifests, err := filepath.Glob(filepath.Join(dir, "out", "manifest-*.json"))
	require.NoError(t, err)
	require.Len(t, manifests, 1)
	data, err := os.ReadFile(manifests[0])
	require.NoError(t, err)
	var m manifest.BatchManifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 3, m.Total)
	assert.Equal(t, 2, m.Generated)

	// Unchanged drafts are skipped on the next run.
	out.Reset()
	require.NoError(t, os.Remove(filepath.Join(dir, "drafts", "empty.md")))
	require.NoError(t, runBatch(t, dir, &out, glob))
	assert.Contains(t, out.String(), "0 generated, 2 skipped, 0 failed")

	out.Reset()
	require.NoError(t, runBatch(t, dir, &out, "--force", glob))
	assert.Contains(t, out.String(), "2 generated, 0 skipped, 0 failed")
}

func TestBatchNoMatches(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	var out bytes.Buffer

	err := runBatch(t, dir, &out, "--glob", filepath.Join(dir, "*.md"))
	var ec cli.ExitCoder
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, common.ExitInput, ec.ExitCode())

	err = runBatch(t, dir, &out)
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, common.ExitInput, ec.ExitCode())
}

func newApp(t *testing.T) *common.App {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	cfg.Database.Enabled = false
	cfg.Cache.Enabled = false
	cfg.Metadata.DetectLanguage = false
	app, err := common.NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), common.WithoutAI())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestRunnerPacing(t *testing.T) {
	dir := t.TempDir()
	writeDrafts(t, dir, map[string]string{"a.md": sleepDraft, "b.md": coffeeDraft, "c.md": strings.Replace(sleepDraft, "Sleep", "Rest", 1)})

	r := &Runner{App: newApp(t), Interval: 40 * time.Millisecond}
	start := time.Now()
	results := r.Run(context.Background(), []string{
		filepath.Join(dir, "a.md"), filepath.Join(dir, "b.md"), filepath.Join(dir, "c.md"),
	})
	elapsed := time.Since(start)

	require.Len(t, results, 3)
	for _, res := range results {
		assert.NoError(t, res.Error)
	}
	assert.GreaterOrEqual(t, elapsed, 70*time.Millisecond, "two paced gaps")
}

func TestRunnerCancelled(t *testing.T) {
	dir := t.TempDir()
	writeDrafts(t, dir, map[string]string{"a.md": sleepDraft, "b.md": coffeeDraft})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{App: newApp(t)}
	results := r.Run(ctx, []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "b.md")})

	require.Len(t, results, 2)
	for _, res := range results {
		assert.ErrorIs(t, res.Error, context.Canceled)
		assert.Equal(t, manifest.StatusFailed, res.Status())
	}
}
