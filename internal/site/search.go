package site

import (
	"encoding/json"
	"html"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ziadkadry99/docdeck/internal/slides"
)

const maxSearchContent = 2000

// SearchEntry is one searchable slide. Pages without a deck get a single
// entry with Slide set to -1.
type SearchEntry struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Slide   int    `json:"slide"`
	Heading string `json:"heading,omitempty"`
	Content string `json:"content"`
}

// BuildSearchIndex produces one entry per slide of every page.
func BuildSearchIndex(pages []*Page) []SearchEntry {
	var entries []SearchEntry
	for _, p := range pages {
		href := mdPathToHTML(p.Path)
		if p.Article == nil {
			entries = append(entries, SearchEntry{
				Path:    href,
				Title:   p.Title,
				Slide:   -1,
				Content: truncate(stripTags(p.Body)),
			})
			continue
		}
		for i, s := range slides.Segment(p.Article.Nodes()) {
			entries = append(entries, SearchEntry{
				Path:    href,
				Title:   p.Title,
				Slide:   i,
				Heading: s.Title(),
				Content: truncate(strings.Join(s.Text(), " ")),
			})
		}
	}
	return entries
}

// WriteSearchIndex writes the search index as JSON to the given path.
func WriteSearchIndex(entries []SearchEntry, outputPath string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func truncate(s string) string {
	if len(s) <= maxSearchContent {
		return s
	}
	cut := maxSearchContent
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

var textOnly = bluemonday.StrictPolicy()

// stripTags drops markup from a rendered body, keeping text.
func stripTags(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(textOnly.Sanitize(s))), " ")
}
