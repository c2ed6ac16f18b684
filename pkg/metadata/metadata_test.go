package metadata

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/keywords"
	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type stubDetector string

func (s stubDetector) Detect(string) string { return string(s) }

func tokenize(t *testing.T, text string) *tokenizer.Result {
	t.Helper()
	res, err := tokenizer.New(tokenizer.Options{}).Tokenize(text)
	require.NoError(t, err)
	return res
}

func build(t *testing.T, s *Synthesizer, doc models.Document) models.Metadata {
	t.Helper()
	res := tokenize(t, doc.Body)
	return s.Build(doc, res, s.Analyze(res), fixedNow)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short enough", "Short text", 20, "Short text"},
		{"cut at word boundary", "The quick brown fox jumps", 12, "The quick"},
		{"boundary exactly at max", "abc def ghi", 7, "abc def"},
		{"trailing punctuation dropped", "Alpha, beta gamma", 8, "Alpha"},
		{"single long word", "Supercalifragilistic", 10, ""},
		{"whitespace collapsed", "a   b", 3, "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.max))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"10 Tips for Better Sleep", 60, "10-tips-for-better-sleep"},
		{"  Hello,   World!!  ", 60, "hello-world"},
		{"Café Crème & Brûlée", 60, "cafe-creme-brulee"},
		{"one-two three-four", 12, "one-two"},
		{"abcdefghijklmnop", 5, "abcde"},
		{"日本語", 60, "日本語"},
		{"Советы для лучшего сна", 60, "советы-для-лучшего-сна"},
		{"更好的睡眠: 10 个技巧", 60, "更好的睡眠-10-个技巧"},
		{"Ёлка и йогурт", 60, "ёлка-и-йогурт"},
		{"नमस्ते दुनिया", 60, "नमस्ते-दुनिया"},
		{"Сон и качество сна", 8, "сон-и"},
		{"!!!", 60, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in, tt.max), tt.in)
	}
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, "1 min read", ReadingTime(0, 200))
	assert.Equal(t, "1 min read", ReadingTime(199, 200))
	assert.Equal(t, "1 min read", ReadingTime(200, 200))
	assert.Equal(t, "2 min read", ReadingTime(201, 200))
}

func TestDescribe(t *testing.T) {
	sentences := []string{
		"Too short.",
		"Good sleep quality starts with a steady routine.",
		"Keep the bedroom dark.",
		"This one is never reached.",
	}
	assert.Equal(t,
		"Good sleep quality starts with a steady routine. Keep the bedroom dark.",
		Describe(sentences, 20, 160))

	assert.Equal(t, "Good sleep quality starts with a steady routine.", Describe(sentences, 20, 60))
	assert.Equal(t, "Tiny.", Describe([]string{"Tiny."}, 20, 160))
	assert.Empty(t, Describe(nil, 20, 160))
}

func TestClassifyIntent(t *testing.T) {
	markers := DefaultIntentMarkers()
	markers.BrandNames = []string{"Acme Cloud"}

	tests := []struct {
		name string
		text string
		want models.ContentIntent
	}{
		{"pricing heading with buy now", "# Pricing Plans\n\nReady? Buy now and save.", models.IntentTransactional},
		{"transactional beats commercial", "The best plan. Buy it today.", models.IntentTransactional},
		{"comparison", "Postgres vs MySQL: an honest comparison", models.IntentCommercial},
		{"how to", "How to brew coffee at home", models.IntentInformational},
		{"navigational", "Sign in to your account here", models.IntentNavigational},
		{"brand name", "Welcome to Acme Cloud", models.IntentNavigational},
		{"no markers", "Coffee beans roast slowly", models.IntentInformational},
		{"whole words only", "Buyers and bestsellers", models.IntentInformational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIntent(tt.text, markers))
		})
	}
}

func TestReadability(t *testing.T) {
	easy := FleschReadingEase([]string{"The cat sat.", "The dog ran."})
	hard := FleschReadingEase([]string{
		"Institutional interoperability necessitates comprehensive organizational standardization methodologies.",
	})

	assert.Equal(t, ReadabilityEasy, ReadabilityLevel(easy))
	assert.Equal(t, ReadabilityDifficult, ReadabilityLevel(hard))
	assert.Equal(t, ReadabilityStandard, ReadabilityLevel(60))
	assert.Zero(t, FleschReadingEase(nil))
}

func TestFAQAndTakeaways(t *testing.T) {
	res := tokenize(t, `# Sleep Guide

## How much sleep do adults need

Most adults need seven hours. Do naps count? Short naps help.

- Keep a schedule
- Avoid late caffeine
`)

	assert.Equal(t, []string{"How much sleep do adults need?", "Do naps count?"}, FAQQuestions(res, 5))
	assert.Equal(t, []string{"How much sleep do adults need?"}, FAQQuestions(res, 1))
	assert.Equal(t, []string{"Keep a schedule"}, KeyTakeaways(res, 1))
}

func TestBuildSleepScenario(t *testing.T) {
	body := `# 10 Tips for Better Sleep

## Sleep Quality Basics

Good sleep quality starts with a steady routine. Better sleep quality follows when the bedroom stays dark and cool. Keep a regular sleep schedule every day.
`
	s := New(DefaultOptions(), keywords.DefaultOptions(), stubDetector("en"))
	meta := build(t, s, models.Document{Body: body})

	assert.Equal(t, "10 Tips for Better Sleep", meta.Title)
	assert.Equal(t, meta.Title, meta.MetaTitle)
	assert.Equal(t, "10-tips-for-better-sleep", meta.Slug)
	assert.Equal(t, "/10-tips-for-better-sleep", meta.Canonical)
	assert.Equal(t, "1 min read", meta.ReadingTime)
	assert.Equal(t, len(strings.Fields(body)), meta.WordCount)
	assert.Equal(t, "2025-03-14", meta.Date)
	assert.Equal(t, "sleep", meta.FocusKeyword)
	assert.Equal(t, meta.FocusKeyword, meta.Keywords[0])
	assert.Equal(t, []string{"sleep", "quality", "better", "tips", "basics"}, meta.Keywords)
	assert.Equal(t, []string{"Sleep", "Quality", "Better", "Tips", "Basics"}, meta.Tags)
	assert.Equal(t, []string{"10 Tips for Better Sleep", "Sleep Quality Basics"}, meta.Topics)
	assert.Equal(t, "Content Team", meta.Author)
	assert.Equal(t, "General", meta.Category)
	assert.Equal(t, "general readers", meta.TargetAudience)
	assert.Equal(t, models.IntentInformational, meta.ContentIntent, "\"tips\" is an informational marker")
	assert.Equal(t, "en", meta.Language)
	assert.Equal(t, models.DefaultRobots, meta.Robots)
	assert.Equal(t, models.DefaultOGType, meta.OGType)
	assert.Equal(t, models.DefaultTwitterCard, meta.TwitterCard)
	assert.Equal(t, models.DefaultSchemaType, meta.SchemaType)
	assert.Equal(t, meta.Description, meta.OGDescription)
	assert.True(t, strings.HasPrefix(meta.Description, "Good sleep quality starts with a steady routine."))
}

func TestBuildNonLatinTitle(t *testing.T) {
	s := New(DefaultOptions(), keywords.DefaultOptions(), nil)

	ru := build(t, s, models.Document{Body: "# Советы для лучшего сна\n\nКачество сна зависит от режима. Качество сна важно."})
	assert.Equal(t, "советы-для-лучшего-сна", ru.Slug)
	assert.Equal(t, "/советы-для-лучшего-сна", ru.Canonical)

	zh := build(t, s, models.Document{Body: "# 更好的睡眠\n\n睡眠质量 很重要。 睡眠质量 需要规律。"})
	assert.Equal(t, "更好的睡眠", zh.Slug)
	assert.NotEqual(t, ru.Slug, zh.Slug, "distinct drafts must not share an output file")
}

func TestBuildOverrides(t *testing.T) {
	date := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	doc := models.Document{
		Body: "# Heading\n\nSome coffee text about coffee.",
		Overrides: models.Overrides{
			Title:    models.StringPtr("Custom Title"),
			Author:   models.StringPtr("Jane"),
			Category: models.StringPtr("Food"),
			Audience: models.StringPtr("baristas"),
			Date:     &date,
		},
	}

	meta := build(t, New(DefaultOptions(), keywords.DefaultOptions(), nil), doc)

	assert.Equal(t, "Custom Title", meta.Title)
	assert.Equal(t, "custom-title", meta.Slug)
	assert.Equal(t, "Jane", meta.Author)
	assert.Equal(t, "Food", meta.Category)
	assert.Equal(t, "baristas", meta.TargetAudience)
	assert.Equal(t, "2024-12-01", meta.Date)
	assert.Empty(t, meta.Language)
}

func TestBuildWithoutHeadings(t *testing.T) {
	body := "Espresso machines need regular descaling to keep espresso tasting right. Use filtered water."
	meta := build(t, New(DefaultOptions(), keywords.DefaultOptions(), nil), models.Document{Body: body})

	assert.Equal(t, "Espresso machines need regular descaling to keep espresso", meta.Title)
	assert.LessOrEqual(t, utf8.RuneCountInString(meta.Title), 60)
	assert.Equal(t, []string{meta.Title}, meta.Topics)
	assert.Equal(t, "espresso", meta.FocusKeyword)
}

func TestBuildNormalizesForeignAnalysis(t *testing.T) {
	s := New(DefaultOptions(), keywords.DefaultOptions(), nil)
	res := tokenize(t, "# Pricing Plans\n\nBuy now to save on coffee. Coffee ships free.")

	a := models.Analysis{
		FocusKeyword:     "Coffee Subscriptions",
		Keywords:         []string{"coffee", " Coffee ", "", "beans"},
		SemanticKeywords: []string{"coffee", "fresh coffee beans", "coffee subscriptions", "a b c d"},
		MetaDescription:  strings.Repeat("word ", 60),
		ContentIntent:    "mystery",
		FAQQuestions:     []string{"Q1?", "Q1?", "Q2?"},
	}
	meta := s.Build(models.Document{Body: "x"}, res, a, fixedNow)

	assert.Equal(t, "coffee subscriptions", meta.FocusKeyword)
	assert.Equal(t, []string{"coffee subscriptions", "coffee", "beans"}, meta.Keywords)
	assert.Equal(t, []string{"fresh coffee beans"}, meta.SemanticKeywords)
	assert.LessOrEqual(t, utf8.RuneCountInString(meta.Description), 160)
	assert.False(t, strings.HasSuffix(meta.Description, " "))
	assert.Equal(t, models.IntentTransactional, meta.ContentIntent)
	assert.Equal(t, "general readers", meta.TargetAudience)
	assert.Equal(t, "General", meta.Category)
	assert.Equal(t, []string{"Q1?", "Q2?"}, meta.FAQQuestions)
	assert.NotEmpty(t, meta.ReadabilityLevel)
}

func TestBuildEmptyAnalysisUsesRules(t *testing.T) {
	s := New(DefaultOptions(), keywords.DefaultOptions(), nil)
	res := tokenize(t, "Tea tea tea. Milk milk.")

	meta := s.Build(models.Document{Body: "Tea tea tea. Milk milk."}, res, models.Analysis{}, fixedNow)
	assert.Equal(t, "tea", meta.FocusKeyword)
	assert.Contains(t, meta.Keywords, "milk")
	assert.Equal(t, models.IntentInformational, meta.ContentIntent)
}

func TestDescriptionNeverExceedsMax(t *testing.T) {
	long := strings.Repeat("Sleep research keeps finding that consistent routines matter more than duration alone ", 5) + "."
	opts := DefaultOptions()

	for _, max := range []int{40, 80, 120, 160} {
		opts.DescriptionMaxLen = max
		meta := build(t, New(opts, keywords.DefaultOptions(), nil), models.Document{Body: long})

		assert.LessOrEqual(t, utf8.RuneCountInString(meta.Description), max)
		assert.True(t, strings.HasPrefix(long, meta.Description), "description %q is a word-aligned prefix", meta.Description)
		next := long[len(meta.Description)]
		assert.Equal(t, byte(' '), next)
	}
}
