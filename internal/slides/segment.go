// Package slides partitions article content into presentation slides.
package slides

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/docdeck/internal/content"
)

// Slide is one on-screen segment: sanitized clones of content nodes.
type Slide struct {
	Nodes []*html.Node
}

// Title returns the text of the slide's leading heading, or "".
func (s Slide) Title() string {
	if len(s.Nodes) == 0 {
		return ""
	}
	switch s.Nodes[0].DataAtom {
	case atom.H1, atom.H2, atom.H3:
		return content.Text(s.Nodes[0])
	}
	return ""
}

// Text returns the text of every node, one block per line.
func (s Slide) Text() []string {
	out := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		if t := content.Text(n); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HTML renders the slide's nodes.
func (s Slide) HTML() string {
	var sb strings.Builder
	for _, n := range s.Nodes {
		sb.WriteString(content.Render(n))
	}
	return sb.String()
}

// IsSectionHeading reports whether n starts a new slide.
func IsSectionHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.H2 || n.DataAtom == atom.H3)
}

func isTitleHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.H1
}

// Segment groups content nodes into slides at section headings. Body content
// before the first section heading forms a leading slide when non-empty.
// Title headings are left out of the leading slide unless no section heading
// exists, in which case a single slide holds every content node. Deck
// containers from an earlier build are skipped.
func Segment(nodes []*html.Node) []Slide {
	var (
		slides  []Slide
		lead    []*html.Node
		all     []*html.Node
		current = -1
	)
	for _, n := range nodes {
		if n.Type != html.ElementNode || content.HasClass(n, content.DeckClass) {
			continue
		}
		clone := content.Sanitize(content.Clone(n))
		if IsSectionHeading(n) {
			slides = append(slides, Slide{Nodes: []*html.Node{clone}})
			current = len(slides) - 1
			continue
		}
		if current >= 0 {
			slides[current].Nodes = append(slides[current].Nodes, clone)
			continue
		}
		all = append(all, clone)
		if !isTitleHeading(n) {
			lead = append(lead, clone)
		}
	}

	if current < 0 {
		if len(all) == 0 {
			return nil
		}
		return []Slide{{Nodes: all}}
	}
	if len(lead) > 0 {
		slides = append([]Slide{{Nodes: lead}}, slides...)
	}
	return slides
}
