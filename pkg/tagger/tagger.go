// Package tagger is the entry point of the pipeline: validate the draft,
// tokenize it, pick an analysis strategy, synthesize the metadata and render
// the tagged document.
package tagger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/metadata"
	"github.com/dtnitsch/seo-tagger/pkg/metrics"
	"github.com/dtnitsch/seo-tagger/pkg/render"
	"github.com/dtnitsch/seo-tagger/pkg/strategy"
	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

const maxOverrideLen = 200

var (
	// ErrEmptyDocument is returned when the draft has no extractable words.
	ErrEmptyDocument = tokenizer.ErrEmptyDocument

	// ErrInvalidOverride is wrapped by every *OverrideError.
	ErrInvalidOverride = errors.New("invalid override")
)

// OverrideError names the override that failed validation.
type OverrideError struct {
	Field  string
	Reason string
}

func (e *OverrideError) Error() string {
	return fmt.Sprintf("invalid %s override: %s", e.Field, e.Reason)
}

func (e *OverrideError) Unwrap() error {
	return ErrInvalidOverride
}

// Output is one tagged document.
type Output struct {
	Metadata       models.Metadata
	Document       []byte
	Strategy       string
	FallbackReason string
}

// Tagger runs the pipeline. It holds only immutable collaborators and is
// safe for concurrent use.
type Tagger struct {
	tokenizer *tokenizer.Tokenizer
	synth     *metadata.Synthesizer
	selector  *strategy.Selector
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures a Tagger.
type Option func(*Tagger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tagger) {
		t.logger = logger
	}
}

// WithMetrics counts generated documents per strategy.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tagger) {
		t.metrics = m
	}
}

// WithClock replaces time.Now, which supplies the default date.
func WithClock(now func() time.Time) Option {
	return func(t *Tagger) {
		t.now = now
	}
}

// New assembles a Tagger.
func New(tok *tokenizer.Tokenizer, synth *metadata.Synthesizer, selector *strategy.Selector, opts ...Option) *Tagger {
	t := &Tagger{
		tokenizer: tok,
		synth:     synth,
		selector:  selector,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With("component", "tagger")
	return t
}

// Generate tags one draft. Only ErrEmptyDocument and *OverrideError (and a
// cancelled ctx) are returned; AI failures fall back silently.
func (t *Tagger) Generate(ctx context.Context, doc models.Document) (*Output, error) {
	if err := ValidateOverrides(doc.Overrides); err != nil {
		return nil, err
	}

	tokens, err := t.tokenizer.Tokenize(doc.Body)
	if err != nil {
		return nil, err
	}

	sel, err := t.selector.Select(ctx, strategy.Input{Document: doc, Tokens: tokens})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze document: %w", err)
	}

	meta := t.synth.Build(doc, tokens, sel.Analysis, t.now())

	rendered, err := render.Render(meta, doc.Body)
	if err != nil {
		return nil, err
	}

	t.metrics.ObserveGeneration(sel.Strategy)
	t.logger.Debug("Generated metadata",
		"source", doc.Source,
		"strategy", sel.Strategy,
		"focus_keyword", meta.FocusKeyword,
		"slug", meta.Slug)

	return &Output{
		Metadata:       meta,
		Document:       rendered,
		Strategy:       sel.Strategy,
		FallbackReason: sel.FallbackReason,
	}, nil
}

// ValidateOverrides checks the shape of caller-supplied overrides. A
// supplied string must be non-blank, single-line and reasonably short.
func ValidateOverrides(o models.Overrides) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"title", o.Title},
		{"author", o.Author},
		{"category", o.Category},
		{"audience", o.Audience},
	}

	for _, f := range fields {
		if f.value == nil {
			continue
		}
		v := *f.value
		switch {
		case strings.TrimSpace(v) == "":
			return &OverrideError{Field: f.name, Reason: "must not be empty"}
		case strings.ContainsAny(v, "\r\n"):
			return &OverrideError{Field: f.name, Reason: "must be a single line"}
		case utf8.RuneCountInString(v) > maxOverrideLen:
			return &OverrideError{Field: f.name, Reason: fmt.Sprintf("must be at most %d characters", maxOverrideLen)}
		}
	}

	if o.Date != nil && o.Date.IsZero() {
		return &OverrideError{Field: "date", Reason: "must be a valid date"}
	}
	return nil
}
