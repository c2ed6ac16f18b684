// Package metadata derives the SEO front matter of a post from its tokens
// and an analysis produced by either strategy.
package metadata

import (
	"strings"
	"time"

	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/keywords"
	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

const (
	dateLayout    = "2006-01-02"
	fallbackTitle = "Untitled"
	fallbackSlug  = "post"
)

// LanguageDetector names the language of a text as an ISO 639-1 code, or ""
// when unsure.
type LanguageDetector interface {
	Detect(text string) string
}

// Synthesizer turns tokens plus an Analysis into Metadata. It holds only
// configuration and is safe for concurrent use.
type Synthesizer struct {
	opts Options
	kw   keywords.Options
	lang LanguageDetector
}

// New returns a Synthesizer. lang may be nil to skip language detection.
func New(opts Options, kw keywords.Options, lang LanguageDetector) *Synthesizer {
	return &Synthesizer{
		opts: opts.withDefaults(),
		kw:   kw.WithDefaults(),
		lang: lang,
	}
}

// Options returns the effective options.
func (s *Synthesizer) Options() Options {
	return s.opts
}

// Analyze is the rule-based analysis: keywords by frequency statistics, the
// description from the lead sentences and intent from marker vocabulary.
// The audience is never inferred.
func (s *Synthesizer) Analyze(doc *tokenizer.Result) models.Analysis {
	kw := keywords.Extract(doc.Tokens, doc.Headings, s.kw)

	sentences := doc.Sentences
	if len(sentences) == 0 {
		sentences = doc.Headings
	}

	return models.Analysis{
		FocusKeyword:     kw.Focus,
		Keywords:         kw.Keywords,
		SemanticKeywords: kw.Semantic,
		MetaDescription:  Describe(doc.Sentences, s.opts.MinSentenceLen, s.opts.DescriptionMaxLen),
		Category:         s.opts.DefaultCategory,
		TargetAudience:   s.opts.DefaultAudience,
		ContentIntent:    ClassifyIntent(doc.Normalized, s.opts.Intent),
		ReadabilityLevel: ReadabilityLevel(FleschReadingEase(sentences)),
		FAQQuestions:     FAQQuestions(doc, s.opts.MaxFAQ),
		KeyTakeaways:     KeyTakeaways(doc, s.opts.MaxTakeaways),
	}
}

// Build computes every front matter field. Caller overrides win over the
// analysis, and analysis values that are missing or out of shape are
// replaced by rule-based values so the result is always complete.
func (s *Synthesizer) Build(doc models.Document, res *tokenizer.Result, a models.Analysis, now time.Time) models.Metadata {
	o := s.opts

	title := s.title(doc.Overrides, res)
	metaTitle := clip(title, o.MetaTitleMaxLen)

	focus, kws := s.keywordList(res, a)

	description := Truncate(a.MetaDescription, o.DescriptionMaxLen)
	if description == "" {
		description = Describe(res.Sentences, o.MinSentenceLen, o.DescriptionMaxLen)
	}
	if description == "" {
		description = Truncate(title, o.DescriptionMaxLen)
	}

	slug := Slugify(title, o.SlugMaxLen)
	if slug == "" {
		slug = Slugify(focus, o.SlugMaxLen)
	}
	if slug == "" {
		slug = fallbackSlug
	}

	date := now.Format(dateLayout)
	if doc.Overrides.Date != nil {
		date = doc.Overrides.Date.Format(dateLayout)
	}

	intent := a.ContentIntent
	if !intent.Valid() {
		intent = ClassifyIntent(res.Normalized, o.Intent)
	}

	readability := strings.ToLower(strings.TrimSpace(a.ReadabilityLevel))
	if readability == "" {
		readability = ReadabilityLevel(FleschReadingEase(res.Sentences))
	}

	topics := append([]string{}, res.Headings...)
	if len(topics) == 0 {
		topics = []string{title}
	}

	wordCount := WordCount(doc.Body)

	meta := models.Metadata{
		Title:            title,
		MetaTitle:        metaTitle,
		Description:      description,
		Date:             date,
		Author:           pick(doc.Overrides.Author, "", o.DefaultAuthor),
		Category:         pick(doc.Overrides.Category, a.Category, o.DefaultCategory),
		Slug:             slug,
		Canonical:        "/" + slug,
		Robots:           models.DefaultRobots,
		FocusKeyword:     focus,
		Keywords:         kws,
		Tags:             s.tags(kws),
		SemanticKeywords: phrases(a.SemanticKeywords, s.kw.MaxSemantic, focus),
		OGTitle:          metaTitle,
		OGDescription:    description,
		OGType:           models.DefaultOGType,
		TwitterCard:      models.DefaultTwitterCard,
		SchemaType:       models.DefaultSchemaType,
		ReadingTime:      ReadingTime(wordCount, o.WordsPerMinute),
		WordCount:        wordCount,
		TargetAudience:   pick(doc.Overrides.Audience, a.TargetAudience, o.DefaultAudience),
		ContentIntent:    intent,
		ReadabilityLevel: readability,
		Topics:           topics,
		FAQQuestions:     clean(a.FAQQuestions, o.MaxFAQ),
		KeyTakeaways:     clean(a.KeyTakeaways, o.MaxTakeaways),
	}

	if s.lang != nil && o.DetectLanguage {
		text := strings.Join(res.Sentences, " ")
		if text == "" {
			text = res.Normalized
		}
		meta.Language = s.lang.Detect(text)
	}

	return meta
}

// title resolves the override, then the first heading, then the first
// sentence.
func (s *Synthesizer) title(o models.Overrides, res *tokenizer.Result) string {
	if o.Title != nil && strings.TrimSpace(*o.Title) != "" {
		return strings.TrimSpace(*o.Title)
	}
	if len(res.Headings) > 0 {
		return res.Headings[0]
	}
	if len(res.Sentences) > 0 {
		if t := clip(strings.TrimRight(res.Sentences[0], ".!?"), s.opts.TitleMaxLen); t != "" {
			return t
		}
	}
	return fallbackTitle
}

// keywordList normalizes the analysis keywords and guarantees the focus
// keyword leads a non-empty list. With nothing usable from the analysis the
// rule-based keywords are used.
func (s *Synthesizer) keywordList(res *tokenizer.Result, a models.Analysis) (string, []string) {
	kws := clean(lowerAll(a.Keywords), 0)
	focus := strings.ToLower(strings.Join(strings.Fields(a.FocusKeyword), " "))

	if focus == "" && len(kws) == 0 {
		kw := keywords.Extract(res.Tokens, res.Headings, s.kw)
		focus, kws = kw.Focus, kw.Keywords
	}
	if focus == "" && len(kws) > 0 {
		focus = kws[0]
	}

	out := []string{focus}
	for _, k := range kws {
		if k != focus {
			out = append(out, k)
		}
	}
	if len(out) > s.kw.MaxKeywords {
		out = out[:s.kw.MaxKeywords]
	}
	return focus, out
}

func (s *Synthesizer) tags(kws []string) []string {
	tags := make([]string, 0, s.opts.MaxTags)
	seen := make(map[string]struct{})
	for _, k := range kws {
		if len(tags) == s.opts.MaxTags {
			break
		}
		t := TitleCase(k)
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// phrases keeps distinct two and three word phrases other than focus.
func phrases(in []string, limit int, focus string) []string {
	out := make([]string, 0, limit)
	for _, p := range clean(lowerAll(in), 0) {
		if len(out) == limit {
			break
		}
		if n := len(strings.Fields(p)); n < 2 || n > 3 || p == focus {
			continue
		}
		out = append(out, p)
	}
	return out
}

// clean trims, drops empties and duplicates, and caps at limit when limit > 0.
func clean(in []string, limit int) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.Join(strings.Fields(v), " ")
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.ToLower(v)
	}
	return out
}

// pick returns the override, else the analysis value, else the default.
func pick(override *string, value, def string) string {
	if override != nil {
		if v := strings.TrimSpace(*override); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}

// clip is Truncate that falls back to a hard cut for a single overlong word.
func clip(s string, max int) string {
	if t := Truncate(s, max); t != "" || s == "" {
		return t
	}
	r := []rune(strings.TrimSpace(s))
	if len(r) > max {
		r = r[:max]
	}
	return string(r)
}
