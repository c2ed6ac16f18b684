package manifest

// Draft statuses recorded in a batch manifest.
const (
	StatusGenerated = "generated"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// BatchManifest is the summary JSON written at the end of a batch run. It
// lists every draft the globs matched, what happened to it and the keywords
// the batch has in common.
type BatchManifest struct {
	BatchID           string         `json:"batch_id"`
	GeneratedAt       string         `json:"generated_at"`
	Patterns          []string       `json:"patterns"`
	Total             int            `json:"total"`
	Generated         int            `json:"generated"`
	Skipped           int            `json:"skipped"`
	Failed            int            `json:"failed"`
	AggregateKeywords []string       `json:"aggregate_keywords"`
	Results           []DraftSummary `json:"results"`
}

// DraftSummary is one draft's entry in a BatchManifest.
type DraftSummary struct {
	Source         string   `json:"source"`
	Status         string   `json:"status"`
	OutputPath     string   `json:"output_path,omitempty"`
	RunID          string   `json:"run_id,omitempty"`
	Title          string   `json:"title,omitempty"`
	Slug           string   `json:"slug,omitempty"`
	FocusKeyword   string   `json:"focus_keyword,omitempty"`
	Strategy       string   `json:"strategy,omitempty"`
	FallbackReason string   `json:"fallback_reason,omitempty"`
	ErrorType      string   `json:"error_type,omitempty"`
	ErrorMessage   string   `json:"error_message,omitempty"`
	WordCount      int      `json:"word_count,omitempty"`
	SizeBytes      int64    `json:"size_bytes,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
}
