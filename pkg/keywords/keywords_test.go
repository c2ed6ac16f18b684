package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

const sleepDoc = `# 10 Tips for Better Sleep

## Sleep Quality Basics

Good sleep quality starts with a steady routine. Better sleep quality follows when the bedroom stays dark and cool. Keep a regular sleep schedule every day.
`

func tokenize(t *testing.T, text string) *tokenizer.Result {
	t.Helper()
	res, err := tokenizer.New(tokenizer.Options{}).Tokenize(text)
	require.NoError(t, err)
	return res
}

func candidate(res Result, text string) (Candidate, bool) {
	for _, c := range res.Candidates {
		if c.Text == text {
			return c, true
		}
	}
	return Candidate{}, false
}

func TestExtractSleepScenario(t *testing.T) {
	doc := tokenize(t, sleepDoc)
	res := Extract(doc.Tokens, doc.Headings, DefaultOptions())

	assert.Equal(t, "sleep", res.Focus)
	require.NotEmpty(t, res.Keywords)
	assert.Equal(t, res.Focus, res.Keywords[0])
	assert.Equal(t, []string{"sleep", "quality", "better", "tips", "basics"}, res.Keywords,
		"phrases sharing a root with a stronger keyword are skipped")

	sleep, ok := candidate(res, "sleep")
	require.True(t, ok)
	assert.Equal(t, 5, sleep.Frequency)
	assert.InDelta(t, 6.0, sleep.Score, 1e-9)

	phrase, ok := candidate(res, "sleep quality")
	require.True(t, ok)
	assert.Equal(t, 3, phrase.Frequency)
	assert.True(t, phrase.InHeading)
	assert.InDelta(t, 4.375, phrase.Score, 1e-9)

	assert.Equal(t, []string{
		"better sleep", "sleep quality", "quality basics", "good sleep", "quality starts",
	}, res.Semantic)
}

func TestExtractDeterministic(t *testing.T) {
	doc := tokenize(t, sleepDoc)
	first := Extract(doc.Tokens, doc.Headings, DefaultOptions())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Extract(doc.Tokens, doc.Headings, DefaultOptions()))
	}
}

func TestExtractSingleOccurrencesDropped(t *testing.T) {
	doc := tokenize(t, "Coffee beans roast slowly. Coffee tastes better fresh.")
	res := Extract(doc.Tokens, doc.Headings, DefaultOptions())

	assert.Equal(t, []string{"coffee"}, res.Keywords)
	_, ok := candidate(res, "beans")
	assert.False(t, ok)
}

func TestExtractHeadingQualifiesSingleOccurrence(t *testing.T) {
	doc := tokenize(t, "# Pricing Plans\n\nWe explain costs clearly. Costs change yearly.")
	res := Extract(doc.Tokens, doc.Headings, DefaultOptions())

	assert.Contains(t, res.Keywords, "pricing plans")
	assert.Contains(t, res.Keywords, "costs")
	assert.NotContains(t, res.Keywords, "yearly")
}

func TestExtractFallsBackToUnigrams(t *testing.T) {
	doc := tokenize(t, "Quick brown foxes jump.")
	res := Extract(doc.Tokens, doc.Headings, DefaultOptions())

	require.NotEmpty(t, res.Keywords)
	assert.Equal(t, "quick", res.Focus, "earliest occurrence wins ties")
	for _, k := range res.Keywords {
		assert.NotContains(t, k, " ")
	}
}

func TestExtractMaxKeywordsNeverPadded(t *testing.T) {
	doc := tokenize(t, "Tea tea. Milk milk. Sugar sugar.")
	opts := DefaultOptions()
	opts.MaxKeywords = 2

	res := Extract(doc.Tokens, doc.Headings, opts)
	assert.Len(t, res.Keywords, 2)

	opts.MaxKeywords = 50
	res = Extract(doc.Tokens, doc.Headings, opts)
	assert.Len(t, res.Keywords, 3, "single-occurrence bigrams never qualify")
	for _, k := range res.Keywords {
		assert.NotEmpty(t, k)
	}
}

func TestExtractRootDeduplication(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"inflections", "Garden tips. Garden tip. Tips help. Tip works.", []string{"garden", "tips"}},
		{"phrase after its words", "Garden tips help. Garden tips work. Garden tools matter. Tip jars.", []string{"garden", "tips"}},
		{"words after their phrase", "Garden tips. Garden tips. Tips help. Tip works.", []string{"garden tips"}},
		{"disjoint phrases kept", "Solar panels. Solar panels. Wind farms. Wind farms.", []string{"solar panels", "wind farms"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tokenize(t, tt.text)
			res := Extract(doc.Tokens, doc.Headings, DefaultOptions())
			assert.Equal(t, tt.want, res.Keywords)
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"sleep", "sleep quality", true},
		{"sleep quality", "sleep", true},
		{"better sleep", "sleeping better", true},
		{"sleep quality", "better sleep", false},
		{"quality", "sleep", false},
		{"tips", "tip", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, overlaps(rootSet(tt.a), rootSet(tt.b)), "%s / %s", tt.a, tt.b)
	}
}

func TestExtractNGramsRespectGaps(t *testing.T) {
	doc := tokenize(t, "Solar power. Power solar. Solar and power.")
	res := Extract(doc.Tokens, doc.Headings, DefaultOptions())

	_, ok := candidate(res, "solar power")
	assert.False(t, ok, "only one contiguous occurrence")
	for _, c := range res.Candidates {
		assert.LessOrEqual(t, c.N, 3)
	}
}

func TestExtractLengthBonusPromotesPhrases(t *testing.T) {
	doc := tokenize(t, "Machine learning works. Machine learning scales. Learning matters.")

	opts := DefaultOptions()
	opts.LengthBonus = 1.0
	res := Extract(doc.Tokens, doc.Headings, opts)
	assert.Equal(t, "machine learning", res.Focus)

	opts.LengthBonus = 0
	res = Extract(doc.Tokens, doc.Headings, opts)
	assert.Equal(t, "learning", res.Focus)
}

func TestExtractEmpty(t *testing.T) {
	assert.Equal(t, Result{}, Extract(nil, nil, DefaultOptions()))
}

func TestRoot(t *testing.T) {
	tests := map[string]string{
		"tips":          "tip",
		"stories":       "story",
		"sleeping":      "sleep",
		"stopped":       "stop",
		"boxes":         "box",
		"glass":         "glass",
		"sleep habits":  "sleep habit",
		"focus":         "focus",
		"analysis":      "analysis",
		"running shoes": "run shoe",
	}
	for in, want := range tests {
		assert.Equal(t, want, Root(in), in)
	}
}
