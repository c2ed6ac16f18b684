package mapreduce

import (
	"bytes"
	"reflect"
	"testing"
)

func TestMapCountsEachKeywordOnce(t *testing.T) {
	got := Map([]string{"Sleep", "sleep", " sleep quality ", ""})
	want := map[string]int{"sleep": 1, "sleep quality": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map() = %v, want %v", got, want)
	}
}

func TestReduceAndTopKeywords(t *testing.T) {
	total := Reduce([]map[string]int{
		Map([]string{"sleep", "sleep quality", "bedtime"}),
		Map([]string{"sleep", "caffeine"}),
		Map([]string{"sleep", "bedtime", "broken("}),
	})

	got := TopKeywords(total, 3)
	want := []string{"sleep:3", "bedtime:2", "caffeine:1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopKeywords() = %v, want %v", got, want)
	}

	if all := TopKeywords(total, 100); len(all) != 4 {
		t.Errorf("TopKeywords(100) returned %d entries, want 4 valid keywords", len(all))
	}
	if none := TopKeywords(total, -1); len(none) != 0 {
		t.Errorf("TopKeywords(-1) = %v, want empty", none)
	}
}

func TestPrintTopKeywords(t *testing.T) {
	var buf bytes.Buffer
	PrintTopKeywords(&buf, map[string]int{"sleep": 2, "bedtime": 1}, 5)
	want := "1. sleep: 2\n2. bedtime: 1\n"
	if buf.String() != want {
		t.Errorf("PrintTopKeywords() wrote %q, want %q", buf.String(), want)
	}
}

func TestIsValidKeyword(t *testing.T) {
	tests := map[string]bool{
		"sleep quality": true,
		"x_train":       true,
		"key:":          false,
		"a=":            false,
		"f(x":           false,
		`"quoted`:       false,
		"don't":         true,
	}
	for word, want := range tests {
		if got := isValidKeyword(word); got != want {
			t.Errorf("isValidKeyword(%q) = %v, want %v", word, got, want)
		}
	}
}
