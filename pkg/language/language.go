// Package language detects the natural language of a post with lingua.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// DefaultLanguages are the ISO 639-1 codes considered when none are configured.
var DefaultLanguages = []string{"en", "es", "fr", "de", "it", "pt", "nl"}

const minRelativeDistance = 0.1

// Detector wraps a lingua detector restricted to a small language set. It is
// safe for concurrent use.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a Detector for the given ISO 639-1 codes. Unknown codes are
// ignored; fewer than two known codes falls back to DefaultLanguages.
func New(codes ...string) *Detector {
	langs := resolve(codes)
	if len(langs) < 2 {
		langs = resolve(DefaultLanguages)
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(langs...).
			WithMinimumRelativeDistance(minRelativeDistance).
			Build(),
	}
}

// Detect returns the lowercase ISO 639-1 code of text, or "" when the text
// is too short or ambiguous.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

func resolve(codes []string) []lingua.Language {
	var langs []lingua.Language
	seen := make(map[lingua.Language]bool)
	for _, c := range codes {
		lang := lingua.GetLanguageFromIsoCode639_1(lingua.GetIsoCode639_1FromValue(strings.ToUpper(strings.TrimSpace(c))))
		if lang == lingua.Unknown || seen[lang] {
			continue
		}
		seen[lang] = true
		langs = append(langs, lang)
	}
	return langs
}
