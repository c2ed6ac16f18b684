// Package ingest turns drafts on disk, on the web or on stdin into
// models.Document values. Markdown drafts keep their body as-is with any
// front matter lifted into overrides; HTML is reduced to its readable
// article and converted to markdown.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/seo-tagger/models"
	"github.com/dtnitsch/seo-tagger/pkg/render"
)

// SourceStdin is the Document.Source recorded for drafts read from stdin.
const SourceStdin = "stdin"

// ErrInvalidFrontMatter is returned when a draft's front matter is not valid YAML.
var ErrInvalidFrontMatter = errors.New("invalid front matter")

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Fetcher retrieves raw HTML for a URL.
type Fetcher interface {
	GetHtmlBytes(ctx context.Context, url string) ([]byte, error)
}

// Ingester loads drafts. It is safe for concurrent use.
type Ingester struct {
	fetcher   Fetcher
	converter *md.Converter
}

// New returns an Ingester. fetcher may be nil when URLs are never ingested.
func New(fetcher Fetcher) *Ingester {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Ingester{fetcher: fetcher, converter: converter}
}

// File reads a draft from path. .html and .htm files go through HTML
// extraction; everything else is treated as markdown or plain text.
func (i *Ingester) File(path string) (models.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("error reading draft: %w", err)
	}
	if IsHTMLPath(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		return i.HTML(string(data), &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, path)
	}
	return Markdown(string(data), path)
}

// URL fetches rawURL and extracts its article as a draft.
func (i *Ingester) URL(ctx context.Context, rawURL string) (models.Document, error) {
	if i.fetcher == nil {
		return models.Document{}, errors.New("no fetcher configured")
	}
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Scheme == "" || pageURL.Host == "" {
		return models.Document{}, fmt.Errorf("invalid url %q", rawURL)
	}
	data, err := i.fetcher.GetHtmlBytes(ctx, rawURL)
	if err != nil {
		return models.Document{}, err
	}
	return i.HTML(string(data), pageURL, rawURL)
}

// Reader reads a whole draft from r, sniffing HTML by its leading tag.
func (i *Ingester) Reader(r io.Reader, source string) (models.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Document{}, fmt.Errorf("error reading draft: %w", err)
	}
	if source == "" {
		source = SourceStdin
	}
	if LooksLikeHTML(data) {
		return i.HTML(string(data), nil, source)
	}
	return Markdown(string(data), source)
}

// HTML extracts the readable article from raw and converts it to markdown.
// When readability cannot find an article the whole page is converted.
func (i *Ingester) HTML(raw string, pageURL *url.URL, source string) (models.Document, error) {
	var (
		title, byline, content string
	)
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	article, err := readability.NewParser().Parse(strings.NewReader(raw), pageURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		title = normalizeText(article.Title)
		byline = normalizeText(article.Byline)
		content = article.Content
	} else {
		content = raw
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			title = normalizeText(doc.Find("title").First().Text())
			doc.Find("head, script, style, noscript").Remove()
			if body, err := doc.Find("body").Html(); err == nil && body != "" {
				content = body
			}
		}
	}

	body, err := i.converter.ConvertString(content)
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to convert HTML: %w", err)
	}
	body = strings.TrimSpace(body)
	if title != "" && !hasTopHeading(body) {
		body = "# " + title + "\n\n" + body
	}

	doc := models.Document{Body: body, Source: source}
	if byline != "" {
		doc.Overrides.Author = models.StringPtr(byline)
	}
	return doc, nil
}

// frontMatter lists the keys a draft may set by hand. Keys produced by a
// previous run (slug, keywords and so on) are ignored and regenerated.
type frontMatter struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Category string `yaml:"category"`
	Audience string `yaml:"audience"`
	Date     string `yaml:"date"`
}

// Markdown builds a Document from markdown or plain text. Leading front
// matter is removed from the body and its hand-set keys become overrides.
func Markdown(content, source string) (models.Document, error) {
	front, body, ok := render.SplitFrontMatter(content)
	if !ok {
		return models.Document{Body: content, Source: source}, nil
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
		return models.Document{}, fmt.Errorf("%w: %s: %v", ErrInvalidFrontMatter, source, err)
	}

	doc := models.Document{Body: body, Source: source}
	doc.Overrides.Title = optional(fm.Title)
	doc.Overrides.Author = optional(fm.Author)
	doc.Overrides.Category = optional(fm.Category)
	doc.Overrides.Audience = optional(fm.Audience)
	if d := strings.TrimSpace(fm.Date); d != "" {
		parsed, err := ParseDate(d)
		if err != nil {
			return models.Document{}, fmt.Errorf("%w: %s: %v", ErrInvalidFrontMatter, source, err)
		}
		doc.Overrides.Date = &parsed
	}
	return doc, nil
}

// ParseDate accepts YYYY-MM-DD, RFC 3339 and "YYYY-MM-DD HH:MM:SS".
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// IsHTMLPath reports whether path has an HTML extension.
func IsHTMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}

// LooksLikeHTML reports whether data starts with a doctype or <html> tag.
func LooksLikeHTML(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func hasTopHeading(markdown string) bool {
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "# ") {
			return true
		}
	}
	return false
}

// normalizeText trims each line and joins the non-empty ones with a space.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
