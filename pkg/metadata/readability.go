package metadata

import (
	"strings"

	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

// Readability levels.
const (
	ReadabilityEasy      = "easy"
	ReadabilityStandard  = "standard"
	ReadabilityDifficult = "difficult"
)

// FleschReadingEase scores sentences with the Flesch reading-ease formula.
// Higher is easier. It returns 0 when there are no words.
func FleschReadingEase(sentences []string) float64 {
	words, syllables := 0, 0
	for _, s := range sentences {
		for _, w := range strings.Fields(tokenizer.Normalize(s)) {
			words++
			syllables += countSyllables(w)
		}
	}
	if words == 0 || len(sentences) == 0 {
		return 0
	}

	wordsPerSentence := float64(words) / float64(len(sentences))
	syllablesPerWord := float64(syllables) / float64(words)
	return 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
}

// ReadabilityLevel buckets a Flesch score.
func ReadabilityLevel(score float64) string {
	switch {
	case score >= 70:
		return ReadabilityEasy
	case score >= 50:
		return ReadabilityStandard
	default:
		return ReadabilityDifficult
	}
}

// countSyllables approximates syllables by counting vowel groups, ignoring a
// silent trailing "e".
func countSyllables(word string) int {
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
