// Package models defines the documents and metadata passed through the tagger.
package models

import "time"

// Overrides are caller-supplied values that take precedence over anything the
// analysis derives. A nil field means "not supplied".
type Overrides struct {
	Title    *string    `json:"title,omitempty" yaml:"title,omitempty"`
	Author   *string    `json:"author,omitempty" yaml:"author,omitempty"`
	Category *string    `json:"category,omitempty" yaml:"category,omitempty"`
	Audience *string    `json:"audience,omitempty" yaml:"audience,omitempty"`
	Date     *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
}

// Document is one blog post draft. It is never mutated by the pipeline.
type Document struct {
	Body      string
	Source    string // file path, URL or "stdin"; informational only
	Overrides Overrides
}

// StringPtr returns a pointer to s, for building Overrides literals.
func StringPtr(s string) *string {
	return &s
}

// Merge returns o with every nil field filled from fallback.
func (o Overrides) Merge(fallback Overrides) Overrides {
	if o.Title == nil {
		o.Title = fallback.Title
	}
	if o.Author == nil {
		o.Author = fallback.Author
	}
	if o.Category == nil {
		o.Category = fallback.Category
	}
	if o.Audience == nil {
		o.Audience = fallback.Audience
	}
	if o.Date == nil {
		o.Date = fallback.Date
	}
	return o
}
