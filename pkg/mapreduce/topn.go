package mapreduce

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// isValidKeyword filters tokens with unmatched delimiters or quotes and
// trailing assignment characters.
func isValidKeyword(word string) bool {
	if strings.HasSuffix(word, ":") || strings.HasSuffix(word, "=") {
		return false
	}

	if strings.Contains(word, "(") && !strings.Contains(word, ")") {
		return false
	}
	if strings.Contains(word, "[") && !strings.Contains(word, "]") {
		return false
	}
	if strings.Contains(word, "{") && !strings.Contains(word, "}") {
		return false
	}

	if strings.Count(word, "\"")%2 != 0 {
		return false
	}
	return true
}

type kv struct {
	Key   string
	Value int
}

// ranked sorts counts by value descending, then key ascending.
func ranked(wordCounts map[string]int, n int) []kv {
	ss := make([]kv, 0, len(wordCounts))
	for k, v := range wordCounts {
		if isValidKeyword(k) {
			ss = append(ss, kv{k, v})
		}
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	if n < 0 {
		n = 0
	}
	if len(ss) > n {
		ss = ss[:n]
	}
	return ss
}

// TopKeywords returns the top N keywords formatted as "keyword:count",
// e.g. "sleep quality:4".
func TopKeywords(wordCounts map[string]int, n int) []string {
	ss := ranked(wordCounts, n)
	keywords := make([]string, len(ss))
	for i, item := range ss {
		keywords[i] = fmt.Sprintf("%s:%d", item.Key, item.Value)
	}
	return keywords
}

// PrintTopKeywords writes the top N keywords to w as a numbered list.
func PrintTopKeywords(w io.Writer, wordCounts map[string]int, n int) {
	for i, item := range ranked(wordCounts, n) {
		fmt.Fprintf(w, "%d. %s: %d\n", i+1, item.Key, item.Value)
	}
}
