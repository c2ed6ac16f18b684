// Package keywords ranks single words and short phrases of a tokenized
// document and picks the focus keyword, the keyword list and the semantic
// (co-occurring) phrases.
//
// Scoring is frequency based with two adjustments:
//
//   - Position: an occurrence in the lead of the document (the first
//     LeadFraction of tokens) or inside a heading weighs PositionBoost
//     instead of 1.
//   - Length: the summed weight is multiplied by 1 + LengthBonus*(n-1) so
//     two and three word phrases are not crowded out by their own words.
//
// Candidates seen once are dropped unless they appear in a heading.
//
// All functions are pure and safe for concurrent use.
package keywords

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

// Options holds the scoring weights and list caps.
type Options struct {
	PositionBoost float64 `yaml:"position_boost"`
	LeadFraction  float64 `yaml:"lead_fraction"`
	LengthBonus   float64 `yaml:"length_bonus"`
	MaxNGram      int     `yaml:"max_ngram"`
	MaxKeywords   int     `yaml:"max_keywords"`
	MaxSemantic   int     `yaml:"max_semantic"`
	SemanticSeeds int     `yaml:"semantic_seeds"`
}

// DefaultOptions returns the weights used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		PositionBoost: 1.5,
		LeadFraction:  0.1,
		LengthBonus:   0.25,
		MaxNGram:      3,
		MaxKeywords:   10,
		MaxSemantic:   5,
		SemanticSeeds: 3,
	}
}

// WithDefaults returns o with zero or out-of-range fields replaced by defaults.
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.PositionBoost <= 0 {
		o.PositionBoost = d.PositionBoost
	}
	if o.LeadFraction <= 0 || o.LeadFraction > 1 {
		o.LeadFraction = d.LeadFraction
	}
	if o.LengthBonus < 0 {
		o.LengthBonus = d.LengthBonus
	}
	if o.MaxNGram <= 0 || o.MaxNGram > 3 {
		o.MaxNGram = d.MaxNGram
	}
	if o.MaxKeywords <= 0 {
		o.MaxKeywords = d.MaxKeywords
	}
	if o.MaxSemantic <= 0 {
		o.MaxSemantic = d.MaxSemantic
	}
	if o.SemanticSeeds <= 0 {
		o.SemanticSeeds = d.SemanticSeeds
	}
	return o
}

// Candidate is one ranked word or phrase.
type Candidate struct {
	Text       string  `json:"text"`
	N          int     `json:"n"`
	Frequency  int     `json:"frequency"`
	Score      float64 `json:"score"`
	FirstIndex int     `json:"first_index"`
	InHeading  bool    `json:"in_heading"`
}

// Result is the output of Extract.
type Result struct {
	Focus      string
	Keywords   []string // Focus first
	Semantic   []string
	Candidates []Candidate // qualified candidates, ranked
}

// Extract ranks the n-grams of tokens. headings are the document's heading
// strings; a phrase found in one qualifies even if it occurs only once.
// An empty token slice yields an empty Result.
func Extract(tokens []tokenizer.Token, headings []string, opts Options) Result {
	if len(tokens) == 0 {
		return Result{}
	}
	opts = opts.WithDefaults()

	all := collect(tokens, headings, opts)
	ranked := qualify(all)
	slices.SortFunc(ranked, compareCandidates)

	keywords := selectKeywords(ranked, opts.MaxKeywords)

	seeds := keywords
	if len(seeds) > opts.SemanticSeeds {
		seeds = seeds[:opts.SemanticSeeds]
	}

	return Result{
		Focus:      keywords[0],
		Keywords:   keywords,
		Semantic:   semanticPhrases(tokens, seeds, keywords[0], opts.MaxSemantic),
		Candidates: ranked,
	}
}

// collect walks every contiguous run of up to MaxNGram tokens and
// accumulates frequency and weighted score per distinct text.
func collect(tokens []tokenizer.Token, headings []string, opts Options) []*Candidate {
	lead := int(math.Ceil(opts.LeadFraction * float64(len(tokens))))

	paddedHeadings := make([]string, 0, len(headings))
	for _, h := range headings {
		paddedHeadings = append(paddedHeadings, " "+tokenizer.Normalize(h)+" ")
	}

	index := make(map[string]*Candidate)
	var order []*Candidate

	for i := range tokens {
		words := make([]string, 0, opts.MaxNGram)
		heading := true
		for n := 1; n <= opts.MaxNGram && i+n <= len(tokens); n++ {
			tok := tokens[i+n-1]
			if n > 1 && tok.Offset != tokens[i+n-2].Offset+1 {
				break
			}
			words = append(words, tok.Text)
			heading = heading && tok.Heading

			text := strings.Join(words, " ")
			c, ok := index[text]
			if !ok {
				c = &Candidate{Text: text, N: n, FirstIndex: i}
				index[text] = c
				order = append(order, c)
			}

			weight := 1.0
			if i < lead || heading {
				weight = opts.PositionBoost
			}
			c.Frequency++
			c.Score += weight
			if heading || inHeadings(text, paddedHeadings) {
				c.InHeading = true
			}
		}
	}

	for _, c := range order {
		c.Score *= 1 + opts.LengthBonus*float64(c.N-1)
	}
	return order
}

func inHeadings(text string, padded []string) bool {
	needle := " " + text + " "
	for _, h := range padded {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

// qualify keeps candidates seen at least twice or found in a heading. When
// nothing qualifies every single word is kept so a non-empty document always
// has a focus keyword.
func qualify(all []*Candidate) []Candidate {
	out := make([]Candidate, 0, len(all))
	for _, c := range all {
		if c.Frequency >= 2 || c.InHeading {
			out = append(out, *c)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, c := range all {
		if c.N == 1 {
			out = append(out, *c)
		}
	}
	return out
}

// compareCandidates orders by score desc, first occurrence asc, length asc,
// then text so the ranking is total.
func compareCandidates(a, b Candidate) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(a.FirstIndex, b.FirstIndex); c != 0 {
		return c
	}
	if c := cmp.Compare(a.N, b.N); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}

// selectKeywords takes ranked candidates in order, skipping any whose set of
// stemmed words contains, or is contained in, that of a keyword already
// taken. "sleep quality" therefore never follows "sleep" or "quality".
func selectKeywords(ranked []Candidate, limit int) []string {
	taken := make([]map[string]struct{}, 0, limit)
	keywords := make([]string, 0, limit)

	for _, c := range ranked {
		if len(keywords) == limit {
			break
		}
		roots := rootSet(c.Text)
		if slices.ContainsFunc(taken, func(t map[string]struct{}) bool { return overlaps(roots, t) }) {
			continue
		}
		taken = append(taken, roots)
		keywords = append(keywords, c.Text)
	}
	return keywords
}

func rootSet(phrase string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range strings.Fields(Root(phrase)) {
		set[r] = struct{}{}
	}
	return set
}

// overlaps reports whether one root set is a subset of the other.
func overlaps(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for r := range a {
		if _, ok := b[r]; !ok {
			return false
		}
	}
	return true
}

// semanticPhrases gathers the adjacent bigrams touching each occurrence of a
// seed keyword, in token order. The focus keyword itself is skipped.
func semanticPhrases(tokens []tokenizer.Token, seeds []string, focus string, limit int) []string {
	seedWords := make([][]string, 0, len(seeds))
	for _, s := range seeds {
		seedWords = append(seedWords, strings.Fields(s))
	}

	var phrases []string
	seen := make(map[string]struct{})
	add := func(i int) {
		// bigram tokens[i], tokens[i+1] if they are adjacent in the text
		if i < 0 || i+1 >= len(tokens) || tokens[i+1].Offset != tokens[i].Offset+1 {
			return
		}
		p := tokens[i].Text + " " + tokens[i+1].Text
		if p == focus {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		phrases = append(phrases, p)
	}

	for i := range tokens {
		for _, words := range seedWords {
			if !occursAt(tokens, i, words) {
				continue
			}
			end := i + len(words) - 1
			for j := i - 1; j <= end; j++ {
				add(j)
			}
			if len(phrases) >= limit {
				return phrases[:limit]
			}
		}
	}
	return phrases
}

func occursAt(tokens []tokenizer.Token, i int, words []string) bool {
	if i+len(words) > len(tokens) {
		return false
	}
	for k, w := range words {
		if tokens[i+k].Text != w {
			return false
		}
		if k > 0 && tokens[i+k].Offset != tokens[i+k-1].Offset+1 {
			return false
		}
	}
	return true
}
