package metadata

import (
	"strings"

	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/tokenizer"
)

// ClassifyIntent returns the first intent, in the order transactional,
// commercial, informational, navigational, whose markers appear in text.
// Text without any marker is informational.
func ClassifyIntent(text string, markers IntentMarkers) models.ContentIntent {
	padded := " " + tokenizer.Normalize(text) + " "

	for _, group := range markers.ordered() {
		for _, marker := range group.markers {
			m := tokenizer.Normalize(marker)
			if m != "" && strings.Contains(padded, " "+m+" ") {
				return group.intent
			}
		}
	}
	return models.IntentInformational
}
