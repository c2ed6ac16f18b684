package common

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dtnitsch/seo-tagger/internal/config"
	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/caching"
	"github.com/dtnitsch/seo-tagger/pkg/db"
	"github.com/dtnitsch/seo-tagger/pkg/fetcher"
	"github.com/dtnitsch/seo-tagger/pkg/ingest"
	"github.com/dtnitsch/seo-tagger/pkg/language"
	"github.com/dtnitsch/seo-tagger/pkg/llm"
	"github.com/dtnitsch/seo-tagger/pkg/metadata"
	"github.com/dtnitsch/seo-tagger/pkg/metrics"
	"github.com/dtnitsch/seo-tagger/pkg/storage"
	"github.com/dtnitsch/seo-tagger/pkg/strategy"
	"github.com/dtnitsch/seo-tagger/pkg/tagger"
	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

// App is the wired set of components every command shares.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Tagger   *tagger.Tagger
	Ingester *ingest.Ingester
	Storage  *storage.Storage
	// DB is nil when run history is disabled.
	DB       *db.DB
	AIActive bool
}

// Option adjusts App construction.
type Option func(*options)

type options struct {
	noAI       bool
	completer  strategy.Completer
	httpClient *http.Client
	clock      func() time.Time
}

// WithoutAI forces the rule-based strategy.
func WithoutAI() Option {
	return func(o *options) { o.noAI = true }
}

// WithCompleter replaces the LLM client used by the AI strategy.
func WithCompleter(c strategy.Completer) Option {
	return func(o *options) { o.completer = c }
}

// WithHTTPClient sets the client used for provider calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithClock fixes the generation date.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// NewApp wires the tagger pipeline from cfg. The caller must Close the App.
func NewApp(cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics.New(),
		Ingester: ingest.New(fetcher.NewFetcher(0)),
	}

	var detector metadata.LanguageDetector
	if cfg.Metadata.DetectLanguage {
		detector = language.New(cfg.Languages...)
	}
	synth := metadata.New(cfg.Metadata, cfg.Extraction, detector)

	stratCfg := cfg.Strategy(o.noAI)
	var ai strategy.Analyzer
	if stratCfg.UseAI && stratCfg.Credential != "" {
		completer := o.completer
		if completer == nil {
			client, err := app.newLLMClient(o.httpClient)
			if err != nil {
				return nil, err
			}
			completer = client
		}
		ai = strategy.NewAI(completer, cfg.AI.MaxInputChars)
	}

	selector := strategy.NewSelector(stratCfg, strategy.NewRuleBased(synth), ai,
		strategy.WithLogger(logger),
		strategy.WithMetrics(app.Metrics))
	app.AIActive = selector.AIEnabled()

	taggerOpts := []tagger.Option{tagger.WithLogger(logger), tagger.WithMetrics(app.Metrics)}
	if o.clock != nil {
		taggerOpts = append(taggerOpts, tagger.WithClock(o.clock))
	}
	app.Tagger = tagger.New(tokenizer.New(tokenizer.Options{}), synth, selector, taggerOpts...)

	st, err := storage.New(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	app.Storage = st

	if cfg.Database.Enabled {
		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		app.DB = database
	}

	return app, nil
}

func (a *App) newLLMClient(httpClient *http.Client) (*llm.Client, error) {
	cfg := a.Config.AI
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout + 5*time.Second}
	}
	provider, err := llm.NewProvider(cfg.Provider, cfg.APIKey, cfg.Endpoint, httpClient)
	if err != nil {
		return nil, err
	}

	clientOpts := []llm.ClientOption{
		llm.WithRetryConfig(cfg.Retry),
		llm.WithLogger(a.Logger),
		llm.WithMetrics(a.Metrics),
	}
	if a.Config.Cache.Enabled {
		cache, err := caching.NewCache(a.Config.Cache.Dir, a.Config.Cache.TTL)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, llm.WithCache(cache))
	}
	return llm.NewClient(provider, cfg.Model, clientOpts...), nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// Published is the outcome of tagging and saving one draft.
type Published struct {
	Output    *tagger.Output
	Path      string
	RunID     string
	Hash      string
	SizeBytes int64
}

// PublishOptions controls how a generated document is saved.
type PublishOptions struct {
	// Stdout skips writing a file; the caller prints Output.Document.
	Stdout  bool
	BatchID string
	// Hash identifies the draft in run history; defaults to the body hash.
	Hash string
}

// Publish tags doc, writes <output.dir>/<slug>.md and records the run.
func (a *App) Publish(ctx context.Context, doc models.Document, opts PublishOptions) (*Published, error) {
	out, err := a.Tagger.Generate(ctx, doc)
	if err != nil {
		return nil, err
	}

	p := &Published{
		Output:    out,
		Hash:      opts.Hash,
		SizeBytes: int64(len(out.Document)),
	}
	if p.Hash == "" {
		p.Hash = ContentHash([]byte(doc.Body))
	}
	if !opts.Stdout {
		path, err := a.Storage.SaveDocument(out.Metadata.Slug, out.Document)
		if err != nil {
			return nil, err
		}
		p.Path = path
	}

	if a.DB != nil {
		run := &db.Run{
			Source:         doc.Source,
			OutputPath:     p.Path,
			Title:          out.Metadata.Title,
			Slug:           out.Metadata.Slug,
			FocusKeyword:   out.Metadata.FocusKeyword,
			ContentIntent:  string(out.Metadata.ContentIntent),
			Strategy:       out.Strategy,
			FallbackReason: out.FallbackReason,
			ContentHash:    p.Hash,
			WordCount:      metadata.WordCount(doc.Body),
			BatchID:        opts.BatchID,
		}
		if err := a.DB.InsertRun(ctx, run); err != nil {
			return nil, err
		}
		p.RunID = run.ID
	}

	a.Logger.Info("Generated document",
		"source", doc.Source,
		"path", p.Path,
		"slug", out.Metadata.Slug,
		"strategy", out.Strategy,
		"fallback_reason", out.FallbackReason)
	return p, nil
}
