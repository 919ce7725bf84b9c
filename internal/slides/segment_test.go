package slides

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/docdeck/internal/content"
)

func parse(t *testing.T, body string) *content.Article {
	t.Helper()
	a, err := content.Parse(strings.NewReader(`<article class="md-content__inner">` + body + `</article>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return a
}

// nodes returns the element children of a content root without requiring a
// title heading.
func nodes(t *testing.T, body string) []*html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(`<article class="md-content__inner">` + body + `</article>`))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}
	root := content.FindContentRoot(doc)
	if root == nil {
		t.Fatal("no content root")
	}
	var out []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func slideTexts(slides []Slide) [][]string {
	out := make([][]string, len(slides))
	for i, s := range slides {
		out[i] = s.Text()
	}
	return out
}

func TestSegmentScenarioWithSections(t *testing.T) {
	a := parse(t, `<h1>Title</h1><p>intro</p><h2>A</h2><p>a1</p><h2>B</h2><p>b1</p>`)
	got := slideTexts(Segment(a.Nodes()))
	want := [][]string{{"intro"}, {"A", "a1"}, {"B", "b1"}}
	if len(got) != len(want) {
		t.Fatalf("got %d slides %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if strings.Join(got[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("slide %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSegmentWithoutSectionHeading(t *testing.T) {
	a := parse(t, `<h1>Title</h1><p>intro</p>`)
	slides := Segment(a.Nodes())
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}
	if got := strings.Join(slides[0].Text(), "|"); got != "Title|intro" {
		t.Errorf("slide = %q, want both nodes", got)
	}
}

func TestSegmentTitleOnly(t *testing.T) {
	a := parse(t, `<h1>Title</h1>`)
	slides := Segment(a.Nodes())
	if len(slides) != 1 || slides[0].Title() != "Title" {
		t.Fatalf("expected one title slide, got %v", slideTexts(slides))
	}
}

func TestSegmentEmpty(t *testing.T) {
	if got := Segment(nil); got != nil {
		t.Errorf("Segment(nil) = %v, want nil", got)
	}
}

func TestSegmentSlideCountProperty(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"no lead", `<h1>T</h1><h2>A</h2><p>a</p><h3>B</h3>`, 2},
		{"lead", `<h1>T</h1><p>x</p><h2>A</h2><h3>B</h3>`, 3},
		{"lead without title", `<p>x</p><ul><li>y</li></ul><h2>A</h2>`, 2},
		{"h4 stays inside", `<h1>T</h1><h2>A</h2><h4>deep</h4><p>a</p>`, 1},
	}
	for _, tt := range tests {
		if got := len(Segment(nodes(t, tt.body))); got != tt.want {
			t.Errorf("%s: got %d slides, want %d", tt.name, got, tt.want)
		}
	}
}

func TestSegmentSkipsDeckAndStripsIDs(t *testing.T) {
	a := parse(t, `<h1 id="t">T</h1><h2 id="a">A<a class="headerlink" href="#a">#</a></h2><p id="p">a1</p>
<div class="ppt-deck"><section class="ppt-slide"><h2>A</h2></section></div>`)

	slides := Segment(a.Nodes())
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}
	html := slides[0].HTML()
	if strings.Contains(html, "id=") {
		t.Errorf("slide kept ids: %s", html)
	}
	if strings.Contains(html, "headerlink") || strings.Contains(html, "ppt-deck") {
		t.Errorf("slide kept permalink or nested deck: %s", html)
	}
	if slides[0].Title() != "A" {
		t.Errorf("title = %q, want A", slides[0].Title())
	}
}

func TestSegmentRebuildInPlace(t *testing.T) {
	a := parse(t, `<h1>T</h1><p>intro</p><h2>A</h2><p>a1</p>`)
	first := Segment(a.Nodes())
	a.AppendDeck(Markup(first))

	second := Segment(a.Nodes())
	if len(second) != len(first) {
		t.Fatalf("rebuild produced %d slides, want %d", len(second), len(first))
	}
}

func TestMarkup(t *testing.T) {
	a := parse(t, `<h1>T</h1><p>intro</p><h2>A</h2><p>a1</p>`)
	deck := Markup(Segment(a.Nodes()))
	out := content.Render(deck)
	for _, want := range []string{
		`class="ppt-deck"`, `aria-hidden="true"`, `data-index="1"`,
		`data-tool="draw"`, `data-action="undo"`, `class="ppt-counter"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markup missing %s", want)
		}
	}
	if strings.Count(out, `class="ppt-slide"`) != 2 {
		t.Errorf("expected 2 slide sections in %s", out)
	}
}
