package tokenizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	headingPattern  = regexp.MustCompile(`^\s{0,3}(#{1,6})\s+(.+?)\s*#*\s*$`)
	listItemPattern = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.+)$`)
	rulePattern     = regexp.MustCompile(`^\s*(?:\*\s*){3,}$|^\s*(?:-\s*){3,}$|^\s*(?:_\s*){3,}$`)
	fencePattern    = regexp.MustCompile("^\\s*(```|~~~)")
	quotePattern    = regexp.MustCompile(`^\s*>\s?`)

	imagePattern    = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkPattern     = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	refLinkPattern  = regexp.MustCompile(`\[([^\]]+)\]\[[^\]]*\]`)
	autoLinkPattern = regexp.MustCompile(`<(?:https?|mailto):[^>]+>`)
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	emphasisPattern = regexp.MustCompile("(\\*\\*|__|~~|\\*|`)")

	htmlTagPattern = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(?:\s[^<>]*)?/?>`)
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockListItem
)

// block is one structural unit of a markdown document.
type block struct {
	kind blockKind
	text string // inline markup already removed, case preserved
}

// splitBlocks walks the document line by line and groups it into headings,
// list items and paragraphs. Fenced code is skipped entirely.
func splitBlocks(text string) []block {
	var blocks []block
	var para []string
	inFence := false

	flush := func() {
		if len(para) == 0 {
			return
		}
		joined := strings.TrimSpace(CleanInline(strings.Join(para, " ")))
		if joined != "" {
			blocks = append(blocks, block{kind: blockParagraph, text: joined})
		}
		para = para[:0]
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if fencePattern.MatchString(line) {
			flush()
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		line = quotePattern.ReplaceAllString(line, "")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flush()
		case rulePattern.MatchString(trimmed):
			flush()
		case headingPattern.MatchString(line):
			flush()
			m := headingPattern.FindStringSubmatch(line)
			if heading := strings.TrimSpace(CleanInline(m[2])); heading != "" {
				blocks = append(blocks, block{kind: blockHeading, text: heading})
			}
		case listItemPattern.MatchString(line):
			flush()
			m := listItemPattern.FindStringSubmatch(line)
			if item := strings.TrimSpace(CleanInline(m[1])); item != "" {
				blocks = append(blocks, block{kind: blockListItem, text: item})
			}
		default:
			para = append(para, trimmed)
		}
	}
	flush()

	return blocks
}

// CleanInline removes inline markdown (links, images, emphasis, code ticks,
// bare URLs) and keeps the readable text with its original case.
func CleanInline(s string) string {
	s = imagePattern.ReplaceAllString(s, "$1")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = refLinkPattern.ReplaceAllString(s, "$1")
	s = autoLinkPattern.ReplaceAllString(s, "")
	s = urlPattern.ReplaceAllString(s, "")
	s = emphasisPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// StripHTML turns embedded HTML into markdown-ish plain text. Headings and
// list items keep their structure so they are still recognised afterwards.
// Text without any tag is returned unchanged.
func StripHTML(text string) string {
	if !htmlTagPattern.MatchString(text) {
		return text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return htmlTagPattern.ReplaceAllString(text, " ")
	}

	doc.Find("script,style,noscript,template").Remove()
	doc.Find("h1,h2,h3,h4,h5,h6").Each(func(i int, s *goquery.Selection) {
		level := int(goquery.NodeName(s)[1] - '0')
		s.ReplaceWithHtml(fmt.Sprintf("\n\n%s %s\n\n", strings.Repeat("#", level), escapeText(s.Text())))
	})
	doc.Find("li").Each(func(i int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n- " + escapeText(s.Text()) + "\n")
	})
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p,div,section,article,blockquote,tr").Each(func(i int, s *goquery.Selection) {
		s.PrependHtml("\n\n")
		s.AppendHtml("\n\n")
	})

	return doc.Find("body").Text()
}

func escapeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
