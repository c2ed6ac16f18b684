package models

// ContentIntent classifies the searcher's presumed goal.
type ContentIntent string

const (
	IntentInformational ContentIntent = "informational"
	IntentCommercial    ContentIntent = "commercial"
	IntentTransactional ContentIntent = "transactional"
	IntentNavigational  ContentIntent = "navigational"
)

// Valid reports whether i is one of the fixed intent values.
func (i ContentIntent) Valid() bool {
	switch i {
	case IntentInformational, IntentCommercial, IntentTransactional, IntentNavigational:
		return true
	}
	return false
}

// Front matter defaults.
const (
	DefaultRobots      = "index, follow"
	DefaultOGType      = "article"
	DefaultTwitterCard = "summary_large_image"
	DefaultSchemaType  = "BlogPosting"
)

// Analysis is the strategy-dependent slice of the metadata. The rule-based
// and AI-backed analyzers both return exactly this shape.
type Analysis struct {
	FocusKeyword     string        `json:"focus_keyword"`
	Keywords         []string      `json:"keywords"`
	SemanticKeywords []string      `json:"semantic_keywords"`
	MetaDescription  string        `json:"meta_description"`
	Category         string        `json:"category"`
	TargetAudience   string        `json:"target_audience"`
	ContentIntent    ContentIntent `json:"content_intent"`
	ReadabilityLevel string        `json:"readability_level"`
	FAQQuestions     []string      `json:"faq_questions"`
	KeyTakeaways     []string      `json:"key_takeaways"`
}

// Metadata is the complete front matter of a tagged document. Field order is
// the rendered key order and must not change.
type Metadata struct {
	Title            string        `json:"title" yaml:"title"`
	MetaTitle        string        `json:"meta_title" yaml:"meta_title"`
	Description      string        `json:"description" yaml:"description"`
	Date             string        `json:"date" yaml:"date"`
	Author           string        `json:"author" yaml:"author"`
	Category         string        `json:"category" yaml:"category"`
	Slug             string        `json:"slug" yaml:"slug"`
	Canonical        string        `json:"canonical" yaml:"canonical"`
	Robots           string        `json:"robots" yaml:"robots"`
	FocusKeyword     string        `json:"focus_keyword" yaml:"focus_keyword"`
	Keywords         []string      `json:"keywords" yaml:"keywords"`
	Tags             []string      `json:"tags" yaml:"tags"`
	SemanticKeywords []string      `json:"semantic_keywords" yaml:"semantic_keywords"`
	OGTitle          string        `json:"og_title" yaml:"og_title"`
	OGDescription    string        `json:"og_description" yaml:"og_description"`
	OGType           string        `json:"og_type" yaml:"og_type"`
	TwitterCard      string        `json:"twitter_card" yaml:"twitter_card"`
	SchemaType       string        `json:"schema_type" yaml:"schema_type"`
	ReadingTime      string        `json:"reading_time" yaml:"reading_time"`
	WordCount        int           `json:"word_count" yaml:"word_count"`
	TargetAudience   string        `json:"target_audience" yaml:"target_audience"`
	ContentIntent    ContentIntent `json:"content_intent" yaml:"content_intent"`
	ReadabilityLevel string        `json:"readability_level" yaml:"readability_level"`
	Topics           []string      `json:"topics" yaml:"topics"`

	// Optional keys, omitted from the front matter when empty.
	Language     string   `json:"language,omitempty" yaml:"language,omitempty"`
	FAQQuestions []string `json:"faq_questions,omitempty" yaml:"faq_questions,omitempty"`
	KeyTakeaways []string `json:"key_takeaways,omitempty" yaml:"key_takeaways,omitempty"`
}
