// Package render writes a post as YAML front matter followed by the
// unmodified body, and reads such documents back.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/seo-tagger/models"
)

const delimiter = "---"

// ErrNoFrontMatter is returned by Parse for documents without front matter.
var ErrNoFrontMatter = errors.New("document has no front matter")

// Render returns "---\n<front matter>---\n\n<body>". Keys follow the field
// order of models.Metadata, list keys are always present (empty as []) and
// the optional keys are left out when empty. Output is byte-identical for
// identical input.
func Render(meta models.Metadata, body string) ([]byte, error) {
	meta.Keywords = nonNil(meta.Keywords)
	meta.Tags = nonNil(meta.Tags)
	meta.SemanticKeywords = nonNil(meta.SemanticKeywords)
	meta.Topics = nonNil(meta.Topics)

	var front bytes.Buffer
	enc := yaml.NewEncoder(&front)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}

	var out bytes.Buffer
	out.Grow(front.Len() + len(body) + 16)
	out.WriteString(delimiter + "\n")
	out.Write(front.Bytes())
	out.WriteString(delimiter + "\n\n")
	out.WriteString(body)

	return out.Bytes(), nil
}

// Parse reads a rendered document back into its metadata and body.
func Parse(data []byte) (models.Metadata, string, error) {
	front, body, ok := SplitFrontMatter(string(data))
	if !ok {
		return models.Metadata{}, "", ErrNoFrontMatter
	}

	var meta models.Metadata
	if err := yaml.Unmarshal([]byte(front), &meta); err != nil {
		return models.Metadata{}, "", fmt.Errorf("failed to decode front matter: %w", err)
	}
	return meta, body, nil
}

// SplitFrontMatter separates a leading "---" delimited block from the body.
// One blank line after the closing delimiter is dropped. ok is false when
// content does not start with front matter.
func SplitFrontMatter(content string) (front, body string, ok bool) {
	content = strings.TrimPrefix(content, "\ufeff")
	rest, found := cutLine(content, delimiter)
	if !found {
		return "", content, false
	}

	offset := 0
	for {
		line, next, more := strings.Cut(rest[offset:], "\n")
		if strings.TrimRight(line, "\r") == delimiter {
			front = rest[:offset]
			if !more {
				return front, "", true
			}
			if strings.HasPrefix(next, "\r\n") {
				return front, next[2:], true
			}
			return front, strings.TrimPrefix(next, "\n"), true
		}
		if !more {
			return "", content, false
		}
		offset += len(line) + 1
	}
}

// cutLine strips a first line equal to want.
func cutLine(s, want string) (string, bool) {
	line, rest, found := strings.Cut(s, "\n")
	if !found || strings.TrimRight(line, "\r") != want {
		return "", false
	}
	return rest, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
