package metadata

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Truncate shortens s to at most max runes, cutting at the last whitespace
// that keeps the result within max and dropping trailing punctuation left at
// the cut. If the first word alone is longer than max, Truncate returns "".
func Truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	r := []rune(s)
	cut := -1
	for i := max; i > 0; i-- {
		if unicode.IsSpace(r[i]) {
			cut = i
			break
		}
	}
	if cut <= 0 {
		return ""
	}

	return strings.TrimRightFunc(string(r[:cut]), func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(",;:-–—(", r)
	})
}

// Slugify lowercases title, folds accents on Latin letters, replaces every
// run of characters that are not letters or digits with one hyphen and caps
// the result at max runes on a hyphen boundary. Non-Latin scripts are kept.
func Slugify(title string, max int) string {
	folded := strings.ToLower(foldLatin(title))

	var b strings.Builder
	hyphen := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	slug := []rune(strings.Trim(b.String(), "-"))

	if len(slug) > max {
		cut := slug[:max]
		if slug[max] != '-' {
			for i := len(cut) - 1; i > 0; i-- {
				if cut[i] == '-' {
					cut = cut[:i]
					break
				}
			}
		}
		slug = cut
	}
	return strings.Trim(string(slug), "-")
}

// foldLatin drops combining marks that follow a Latin base letter
// ("Crème" becomes "Creme"). Marks on other scripts are part of the letter
// and stay.
func foldLatin(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	latinBase := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			if latinBase {
				continue
			}
		} else {
			latinBase = unicode.Is(unicode.Latin, r)
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// TitleCase capitalizes each word of s using English casing rules.
func TitleCase(s string) string {
	// cases.Caser is stateful; one per call keeps this safe for concurrent use.
	return cases.Title(language.English).String(s)
}

// ReadingTime formats the estimated reading time of wordCount words.
func ReadingTime(wordCount, wpm int) string {
	minutes := int(math.Ceil(float64(wordCount) / float64(wpm)))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// WordCount counts whitespace-delimited tokens of the raw body.
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// Describe builds a meta description from the first one or two sentences.
// Sentences shorter than minLen are skipped unless nothing longer exists.
func Describe(sentences []string, minLen, maxLen int) string {
	var picked []string
	for _, s := range sentences {
		if utf8.RuneCountInString(s) >= minLen {
			picked = append(picked, s)
		}
	}
	if len(picked) == 0 {
		picked = sentences
	}
	if len(picked) == 0 {
		return ""
	}

	desc := picked[0]
	if len(picked) > 1 {
		if both := desc + " " + picked[1]; utf8.RuneCountInString(both) <= maxLen {
			desc = both
		}
	}
	return Truncate(desc, maxLen)
}
