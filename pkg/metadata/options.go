package metadata

import "github.com/dtnitsch/seo-tagger/models"

// Options are the length caps and defaults applied while building metadata.
type Options struct {
	TitleMaxLen       int    `yaml:"title_max_len"`
	MetaTitleMaxLen   int    `yaml:"meta_title_max_len"`
	SlugMaxLen        int    `yaml:"slug_max_len"`
	DescriptionMaxLen int    `yaml:"description_max_len"`
	MinSentenceLen    int    `yaml:"min_sentence_len"`
	WordsPerMinute    int    `yaml:"words_per_minute"`
	MaxTags           int    `yaml:"max_tags"`
	MaxFAQ            int    `yaml:"max_faq"`
	MaxTakeaways      int    `yaml:"max_takeaways"`
	DefaultAuthor     string `yaml:"default_author"`
	DefaultCategory   string `yaml:"default_category"`
	DefaultAudience   string `yaml:"default_audience"`
	DetectLanguage    bool   `yaml:"detect_language"`

	Intent IntentMarkers `yaml:"-"`
}

// DefaultOptions returns the standard SEO field limits.
func DefaultOptions() Options {
	return Options{
		TitleMaxLen:       60,
		MetaTitleMaxLen:   60,
		SlugMaxLen:        60,
		DescriptionMaxLen: 160,
		MinSentenceLen:    20,
		WordsPerMinute:    200,
		MaxTags:           8,
		MaxFAQ:            5,
		MaxTakeaways:      5,
		DefaultAuthor:     "Content Team",
		DefaultCategory:   "General",
		DefaultAudience:   "general readers",
		DetectLanguage:    true,
		Intent:            DefaultIntentMarkers(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	setInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setInt(&o.TitleMaxLen, d.TitleMaxLen)
	setInt(&o.MetaTitleMaxLen, d.MetaTitleMaxLen)
	setInt(&o.SlugMaxLen, d.SlugMaxLen)
	setInt(&o.DescriptionMaxLen, d.DescriptionMaxLen)
	setInt(&o.MinSentenceLen, d.MinSentenceLen)
	setInt(&o.WordsPerMinute, d.WordsPerMinute)
	setInt(&o.MaxTags, d.MaxTags)
	setInt(&o.MaxFAQ, d.MaxFAQ)
	setInt(&o.MaxTakeaways, d.MaxTakeaways)
	if o.DefaultAuthor == "" {
		o.DefaultAuthor = d.DefaultAuthor
	}
	if o.DefaultCategory == "" {
		o.DefaultCategory = d.DefaultCategory
	}
	if o.DefaultAudience == "" {
		o.DefaultAudience = d.DefaultAudience
	}
	if o.Intent.empty() {
		o.Intent = d.Intent
	}
	return o
}

// IntentMarkers is the marker vocabulary per content intent. Markers are
// matched as whole words or phrases against the normalized document.
type IntentMarkers struct {
	Transactional []string `yaml:"transactional"`
	Commercial    []string `yaml:"commercial"`
	Informational []string `yaml:"informational"`
	Navigational  []string `yaml:"navigational"`
	// BrandNames are site or product names that also mark navigational intent.
	BrandNames []string `yaml:"brand_names"`
}

// DefaultIntentMarkers returns the built-in English marker vocabulary.
func DefaultIntentMarkers() IntentMarkers {
	return IntentMarkers{
		Transactional: []string{
			"buy", "buy now", "pricing", "price", "prices", "purchase", "order now",
			"discount", "coupon", "checkout", "free trial", "subscribe", "add to cart",
		},
		Commercial: []string{
			"best", "vs", "versus", "review", "reviews", "comparison", "compare",
			"alternatives", "pros and cons", "top rated",
		},
		Informational: []string{
			"how to", "what is", "what are", "why", "guide", "tutorial", "tips",
			"learn", "explained", "introduction",
		},
		Navigational: []string{
			"login", "log in", "sign in", "official site", "homepage", "contact us",
		},
	}
}

func (m IntentMarkers) empty() bool {
	return len(m.Transactional) == 0 && len(m.Commercial) == 0 &&
		len(m.Informational) == 0 && len(m.Navigational) == 0 && len(m.BrandNames) == 0
}

// ordered returns the marker lists in classification priority order.
func (m IntentMarkers) ordered() []struct {
	intent  models.ContentIntent
	markers []string
} {
	navigational := append(append([]string{}, m.Navigational...), m.BrandNames...)
	return []struct {
		intent  models.ContentIntent
		markers []string
	}{
		{models.IntentTransactional, m.Transactional},
		{models.IntentCommercial, m.Commercial},
		{models.IntentInformational, m.Informational},
		{models.IntentNavigational, navigational},
	}
}
