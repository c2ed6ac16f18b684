package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/metrics"
)

// DefaultTimeout bounds one AI analysis call.
const DefaultTimeout = 30 * time.Second

// Fallback reasons, used as the metrics label.
const (
	ReasonNoCredential      = "no_credential"
	ReasonUnavailable       = "unavailable"
	ReasonTimeout           = "timeout"
	ReasonMalformedResponse = "malformed_response"
	ReasonServiceError      = "service_error"
)

var errNoCredential = fmt.Errorf("%w: no API credential configured", ErrAIServiceUnavailable)

// Config decides which strategy runs. It is resolved once from configuration
// and never changes afterwards.
type Config struct {
	UseAI      bool
	Credential string
	Timeout    time.Duration
}

// Result is the analysis plus which strategy produced it.
type Result struct {
	Analysis       models.Analysis
	Strategy       string
	FallbackReason string // empty unless the AI path was wanted and failed
}

// Selector runs the AI analyzer when configured and falls back to the rules
// on any failure. It is safe for concurrent use.
type Selector struct {
	cfg     Config
	rules   Analyzer
	ai      Analyzer
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

// WithMetrics counts fallbacks.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Selector) {
		s.metrics = m
	}
}

// NewSelector builds a Selector. ai may be nil when no provider is set up.
func NewSelector(cfg Config, rules, ai Analyzer, opts ...Option) *Selector {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	s := &Selector{
		cfg:    cfg,
		rules:  rules,
		ai:     ai,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "strategy")
	return s
}

// AIEnabled reports whether the AI path will be attempted.
func (s *Selector) AIEnabled() bool {
	return s.cfg.UseAI && s.cfg.Credential != "" && s.ai != nil
}

// Select analyzes in with exactly one strategy. AI failures never surface;
// only a failure of the rule-based path is returned.
func (s *Selector) Select(ctx context.Context, in Input) (Result, error) {
	if s.cfg.UseAI {
		a, err := s.tryAI(ctx, in)
		if err == nil {
			return Result{Analysis: *a, Strategy: s.ai.Name()}, nil
		}

		reason := fallbackReason(err)
		s.logger.Warn("AI analysis failed, using rule-based analysis",
			"source", in.Document.Source,
			"reason", reason,
			"error", err)
		s.metrics.ObserveFallback(reason)

		res, err := s.runRules(ctx, in)
		res.FallbackReason = reason
		return res, err
	}

	return s.runRules(ctx, in)
}

func (s *Selector) tryAI(ctx context.Context, in Input) (*models.Analysis, error) {
	if s.cfg.Credential == "" || s.ai == nil {
		return nil, errNoCredential
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	return s.ai.Analyze(ctx, in)
}

func (s *Selector) runRules(ctx context.Context, in Input) (Result, error) {
	a, err := s.rules.Analyze(ctx, in)
	if err != nil {
		return Result{}, fmt.Errorf("rule-based analysis: %w", err)
	}
	return Result{Analysis: *a, Strategy: s.rules.Name()}, nil
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, errNoCredential):
		return ReasonNoCredential
	case errors.Is(err, ErrAIServiceUnavailable):
		return ReasonUnavailable
	case errors.Is(err, errMalformedResponse):
		return ReasonMalformedResponse
	default:
		return ReasonServiceError
	}
}
