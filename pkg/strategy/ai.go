package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/llm"
)

// DefaultMaxInputChars bounds the post text sent to the model.
const DefaultMaxInputChars = 12000

var errMalformedResponse = fmt.Errorf("%w: malformed response", ErrAIServiceError)

const aiSystemPrompt = `You are an expert SEO specialist. Analyze the blog post you are given and return ONLY a JSON object with these fields:

- focus_keyword: the single most important keyword or short phrase, lowercase
- keywords: up to 10 keywords or phrases, most relevant first, lowercase, starting with focus_keyword
- semantic_keywords: up to 5 related two or three word phrases, lowercase
- meta_description: a compelling summary of at most 155 characters
- category: one broad blog category
- target_audience: who the post is written for
- content_intent: exactly one of "informational", "commercial", "transactional", "navigational"
- readability_level: exactly one of "easy", "standard", "difficult"
- faq_questions: up to 5 questions the post answers
- key_takeaways: up to 5 short takeaways

Do not wrap the JSON in markdown. Do not add commentary.`

const aiUserPrompt = `Title hint: %s

Blog post:
%s`

// Completer is the subset of *llm.Client the AI analyzer needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// AI delegates the analysis to a hosted language model.
type AI struct {
	client        Completer
	maxInputChars int
}

// NewAI returns the AI analyzer. A nil client makes every call fail with
// ErrAIServiceUnavailable.
func NewAI(client Completer, maxInputChars int) *AI {
	if maxInputChars <= 0 {
		maxInputChars = DefaultMaxInputChars
	}
	return &AI{client: client, maxInputChars: maxInputChars}
}

// Name implements Analyzer.
func (a *AI) Name() string {
	return NameAI
}

type aiAnalysis struct {
	FocusKeyword     string   `json:"focus_keyword"`
	Keywords         []string `json:"keywords"`
	SemanticKeywords []string `json:"semantic_keywords"`
	MetaDescription  string   `json:"meta_description"`
	Category         string   `json:"category"`
	TargetAudience   string   `json:"target_audience"`
	ContentIntent    string   `json:"content_intent"`
	ReadabilityLevel string   `json:"readability_level"`
	FAQQuestions     []string `json:"faq_questions"`
	KeyTakeaways     []string `json:"key_takeaways"`
}

// Analyze implements Analyzer.
func (a *AI) Analyze(ctx context.Context, in Input) (*models.Analysis, error) {
	if a.client == nil {
		return nil, ErrAIServiceUnavailable
	}

	title := "(none)"
	if t := in.Document.Overrides.Title; t != nil {
		title = *t
	}

	temp := 0.2
	resp, err := a.client.Complete(ctx, llm.Request{
		System:      aiSystemPrompt,
		Prompt:      fmt.Sprintf(aiUserPrompt, title, truncateForAnalysis(in.Document.Body, a.maxInputChars)),
		Temperature: &temp,
		MaxTokens:   1024,
		JSON:        true,
		Validate: func(r *llm.Response) error {
			_, err := parseAnalysis(r.Content)
			return err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAIServiceError, err)
	}

	return parseAnalysis(resp.Content)
}

// parseAnalysis decodes the model answer. Keywords are required; every other
// field may be missing and is filled in later by the synthesizer.
func parseAnalysis(content string) (*models.Analysis, error) {
	raw := llm.ExtractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON object found", errMalformedResponse)
	}

	var out aiAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedResponse, err)
	}
	if strings.TrimSpace(out.FocusKeyword) == "" && len(out.Keywords) == 0 {
		return nil, fmt.Errorf("%w: no keywords", errMalformedResponse)
	}

	return &models.Analysis{
		FocusKeyword:     out.FocusKeyword,
		Keywords:         out.Keywords,
		SemanticKeywords: out.SemanticKeywords,
		MetaDescription:  out.MetaDescription,
		Category:         out.Category,
		TargetAudience:   out.TargetAudience,
		ContentIntent:    models.ContentIntent(strings.ToLower(strings.TrimSpace(out.ContentIntent))),
		ReadabilityLevel: out.ReadabilityLevel,
		FAQQuestions:     out.FAQQuestions,
		KeyTakeaways:     out.KeyTakeaways,
	}, nil
}

// truncateForAnalysis cuts content to maxChars, preferring a paragraph break.
func truncateForAnalysis(content string, maxChars int) string {
	if len(content) <= maxChars {
		return content
	}

	truncated := strings.ToValidUTF8(content[:maxChars], "")
	if lastPara := strings.LastIndex(truncated, "\n\n"); lastPara > maxChars/2 {
		truncated = truncated[:lastPara]
	}
	return truncated + "\n\n[Content truncated for analysis...]"
}
