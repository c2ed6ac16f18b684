package mapreduce

import "strings"

// Map counts each distinct keyword of one document once.
func Map(keywords []string) map[string]int {
	counts := make(map[string]int, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		counts[k] = 1
	}
	return counts
}

// Reduce aggregates a slice of keyword count maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}
