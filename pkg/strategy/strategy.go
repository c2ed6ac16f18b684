// Package strategy chooses between the AI-backed and rule-based analysis of
// a post and falls back to the rules whenever the AI path fails.
package strategy

import (
	"context"
	"errors"

	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/metadata"
	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

// Strategy names.
const (
	NameRuleBased = "rule-based"
	NameAI        = "ai"
)

var (
	// ErrAIServiceUnavailable means the AI path cannot be attempted at all,
	// typically because no credential is configured.
	ErrAIServiceUnavailable = errors.New("AI service unavailable")

	// ErrAIServiceError means the AI call was made and failed or returned
	// something unusable.
	ErrAIServiceError = errors.New("AI service error")
)

// Input is what an Analyzer sees of one post.
type Input struct {
	Document models.Document
	Tokens   *tokenizer.Result
}

// Analyzer produces the strategy-dependent part of the metadata.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, in Input) (*models.Analysis, error)
}

// RuleBased analyzes posts with frequency statistics only. It never fails.
type RuleBased struct {
	synth *metadata.Synthesizer
}

// NewRuleBased returns the rule-based analyzer.
func NewRuleBased(synth *metadata.Synthesizer) *RuleBased {
	return &RuleBased{synth: synth}
}

// Name implements Analyzer.
func (r *RuleBased) Name() string {
	return NameRuleBased
}

// Analyze implements Analyzer.
func (r *RuleBased) Analyze(_ context.Context, in Input) (*models.Analysis, error) {
	a := r.synth.Analyze(in.Tokens)
	return &a, nil
}
