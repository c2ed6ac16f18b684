// Package tokenizer normalizes markdown/plaintext blog posts and splits them
// into the word tokens, sentences and headings the rest of the tagger works on.
//
// All functions are pure and safe for concurrent use.
package tokenizer

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrEmptyDocument is returned when the input has no extractable tokens.
var ErrEmptyDocument = errors.New("document is empty: no extractable words")

const defaultMinTokenRunes = 2

// Token is a single normalized, non-stop-word term.
type Token struct {
	Text string
	// Offset is the position of the word in the unfiltered word sequence.
	// Removed stop words and sentence/line boundaries leave gaps, so two
	// tokens are adjacent in the text only when their offsets differ by one.
	Offset  int
	Heading bool
}

// Result is everything extracted from one document.
type Result struct {
	Tokens     []Token
	Sentences  []string // original case, stop words kept, headings excluded
	Headings   []string // document order
	ListItems  []string
	Normalized string // whole document normalized, stop words kept
}

// Options tunes token filtering.
type Options struct {
	MinTokenRunes  int
	ExtraStopWords []string
}

// Tokenizer splits documents into tokens. The zero value is not usable; use New.
type Tokenizer struct {
	minRunes int
	extra    map[string]struct{}
}

// New returns a Tokenizer configured with opts.
func New(opts Options) *Tokenizer {
	minRunes := opts.MinTokenRunes
	if minRunes <= 0 {
		minRunes = defaultMinTokenRunes
	}
	extra := make(map[string]struct{}, len(opts.ExtraStopWords))
	for _, w := range opts.ExtraStopWords {
		extra[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Tokenizer{minRunes: minRunes, extra: extra}
}

// Tokenize normalizes text and extracts tokens, sentences and headings.
// It returns ErrEmptyDocument when nothing but stop words (or nothing at all)
// remains.
func (t *Tokenizer) Tokenize(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	blocks := splitBlocks(StripHTML(text))

	res := &Result{}
	offset := 0
	normalized := make([]string, 0, len(blocks))

	for _, b := range blocks {
		switch b.kind {
		case blockHeading:
			res.Headings = append(res.Headings, b.text)
			offset = t.appendTokens(res, b.text, offset, true)
		case blockListItem:
			res.ListItems = append(res.ListItems, b.text)
			for _, s := range SplitSentences(b.text) {
				res.Sentences = append(res.Sentences, s)
				offset = t.appendTokens(res, s, offset, false)
			}
		default:
			for _, s := range SplitSentences(b.text) {
				res.Sentences = append(res.Sentences, s)
				offset = t.appendTokens(res, s, offset, false)
			}
		}
		if n := Normalize(b.text); n != "" {
			normalized = append(normalized, n)
		}
	}

	if len(res.Tokens) == 0 {
		return nil, ErrEmptyDocument
	}
	res.Normalized = strings.Join(normalized, " ")

	return res, nil
}

// appendTokens normalizes one sentence or heading and appends its non-stop
// words. It returns the next free offset, leaving a gap of one so n-grams
// never span two sentences.
func (t *Tokenizer) appendTokens(res *Result, text string, offset int, heading bool) int {
	for _, w := range strings.Fields(Normalize(text)) {
		if !t.isStopWord(w) {
			res.Tokens = append(res.Tokens, Token{Text: w, Offset: offset, Heading: heading})
		}
		offset++
	}
	return offset + 1
}

func (t *Tokenizer) isStopWord(w string) bool {
	if utf8.RuneCountInString(w) < t.minRunes {
		return true
	}
	if _, ok := stopWords[w]; ok {
		return true
	}
	if _, ok := t.extra[w]; ok {
		return true
	}
	return isNumeric(w)
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Normalize lowercases text, strips markup and punctuation, and collapses
// whitespace to single spaces. Apostrophes survive only between letters.
// Normalize is idempotent.
func Normalize(text string) string {
	text = CleanInline(StripHTML(text))
	text = strings.ToLower(text)

	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case (r == '\'' || r == '’') && i > 0 && i < len(runes)-1 &&
			unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i+1]):
			b.WriteRune('\'')
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// SplitSentences splits a paragraph on terminal punctuation followed by
// whitespace. Decimal points and abbreviations glued to the next word do not
// split.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && (isTerminal(runes[end]) || isClosing(runes[end])) {
			end++
		}
		if end == len(runes) || unicode.IsSpace(runes[end]) {
			if s := strings.TrimSpace(string(runes[start:end])); s != "" {
				sentences = append(sentences, s)
			}
			start = end
		}
		i = end - 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isClosing(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == '”' || r == '’'
}
