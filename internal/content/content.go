// Package content loads documentation pages and exposes the ordered content
// nodes of their article body.
package content

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DeckClass marks a deck container built inside an article.
const DeckClass = "ppt-deck"

// ContentRootClass is the class of the article element that holds page content.
const ContentRootClass = "md-content__inner"

const headerLinkClass = "headerlink"

var (
	// ErrNoContentRoot is returned when a page has no article body.
	ErrNoContentRoot = errors.New("content: no content root")
	// ErrNoTitle is returned when the article body has no first-level heading.
	ErrNoTitle = errors.New("content: no title heading")
)

// Article is the content root of one documentation page.
type Article struct {
	Root  *html.Node
	Title *html.Node
}

// Heading is a heading found in an article, used to build the outline.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Parse reads an HTML page and locates its content root and title.
func Parse(r io.Reader) (*Article, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	root := FindContentRoot(doc)
	if root == nil {
		return nil, ErrNoContentRoot
	}
	title := findFirst(root, func(n *html.Node) bool { return n.DataAtom == atom.H1 })
	if title == nil {
		return nil, ErrNoTitle
	}
	return &Article{Root: root, Title: title}, nil
}

// FindContentRoot returns the article body of a parsed page: the article with
// the content root class, else the first article, else main.
func FindContentRoot(doc *html.Node) *html.Node {
	if n := findFirst(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Article && HasClass(n, ContentRootClass)
	}); n != nil {
		return n
	}
	if n := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Article }); n != nil {
		return n
	}
	return findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Main })
}

// Nodes returns the element children of the content root in document order.
func (a *Article) Nodes() []*html.Node {
	var nodes []*html.Node
	for c := a.Root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			nodes = append(nodes, c)
		}
	}
	return nodes
}

// TitleText returns the text of the article's title heading.
func (a *Article) TitleText() string {
	return Text(a.Title)
}

// Headings returns the second- to fourth-level headings of the article,
// skipping any deck container.
func (a *Article) Headings() []Heading {
	var out []Heading
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if HasClass(n, DeckClass) {
				return
			}
			switch n.DataAtom {
			case atom.H2, atom.H3, atom.H4:
				out = append(out, Heading{
					Level: int(n.Data[1] - '0'),
					ID:    Attr(n, "id"),
					Text:  Text(n),
				})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(a.Root)
	return out
}

// AppendDeck removes any deck container left in the content root and
// appends the given one.
func (a *Article) AppendDeck(deck *html.Node) {
	for c := a.Root.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && HasClass(c, DeckClass) {
			a.Root.RemoveChild(c)
		}
		c = next
	}
	a.Root.AppendChild(deck)
}

// HasClass reports whether n carries the given class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Text returns the visible text of a subtree with whitespace collapsed.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && HasClass(n, headerLinkClass) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Clone returns a deep copy of n detached from any tree.
func Clone(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(Clone(ch))
	}
	return c
}

// Sanitize strips identifier attributes from n and its descendants and
// removes heading permalinks and nested deck containers, so that a clone can
// be placed next to its original without duplicate ids or recursive decks.
func Sanitize(n *html.Node) *html.Node {
	if n.Type == html.ElementNode {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if a.Key != "id" {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if HasClass(c, headerLinkClass) || HasClass(c, DeckClass) {
			n.RemoveChild(c)
		} else {
			Sanitize(c)
		}
		c = next
	}
	return n
}

// Render serialises n to HTML.
func Render(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}

// Element creates a detached element with the given tag and class.
func Element(tag atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	return n
}

// SetAttr sets or replaces an attribute on n.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
