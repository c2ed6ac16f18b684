package metadata

import (
	"strings"

	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

var questionWords = map[string]struct{}{
	"what": {}, "why": {}, "how": {}, "when": {}, "where": {}, "who": {}, "which": {},
	"can": {}, "should": {}, "does": {}, "do": {}, "is": {}, "are": {},
}

// FAQQuestions collects questions the post answers: headings phrased as
// questions first, then body sentences ending in "?".
func FAQQuestions(doc *tokenizer.Result, limit int) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(q string) bool {
		key := tokenizer.Normalize(q)
		if key == "" {
			return false
		}
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
		out = append(out, q)
		return len(out) >= limit
	}

	for _, h := range doc.Headings {
		if isQuestion(h) && add(withQuestionMark(h)) {
			return out
		}
	}
	for _, s := range doc.Sentences {
		if strings.HasSuffix(s, "?") && add(s) {
			return out
		}
	}
	return out
}

func isQuestion(s string) bool {
	if strings.HasSuffix(strings.TrimSpace(s), "?") {
		return true
	}
	words := strings.Fields(tokenizer.Normalize(s))
	if len(words) < 3 {
		return false
	}
	_, ok := questionWords[words[0]]
	return ok
}

func withQuestionMark(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ".:")
	if !strings.HasSuffix(s, "?") {
		s += "?"
	}
	return s
}

// KeyTakeaways returns the first list items of the post.
func KeyTakeaways(doc *tokenizer.Result, limit int) []string {
	var out []string
	for _, item := range doc.ListItems {
		if len(out) == limit {
			break
		}
		out = append(out, item)
	}
	return out
}
