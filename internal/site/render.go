package site

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/ziadkadry99/docdeck/internal/content"
	"github.com/ziadkadry99/docdeck/internal/outline"
	"github.com/ziadkadry99/docdeck/internal/slides"
)

// PageOptions place a rendered page within the site it is served from.
type PageOptions struct {
	BasePath  string // prefix of page links
	AssetPath string // prefix of style.css and deck.js
	Endpoint  string // deck websocket URL; empty for static output
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Title       string
	ProjectName string
	Path        string
	Content     template.HTML
	TreeHTML    template.HTML
	TOCHTML     template.HTML
	AssetPath   string
	Endpoint    string
	HasDeck     bool
}

// Renderer turns pages into complete HTML documents.
type Renderer struct {
	ProjectName string
	tmpl        *template.Template
}

// NewRenderer parses the page template.
func NewRenderer(projectName string) (*Renderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Renderer{ProjectName: projectName, tmpl: tmpl}, nil
}

// Page writes p with the sidebar, its outline and, when it has slides, the
// prerendered deck appended to the article.
func (r *Renderer) Page(w io.Writer, p *Page, tree *FileTree, opts PageOptions) error {
	data := pageData{
		Title:       p.Title,
		ProjectName: r.ProjectName,
		Path:        p.Path,
		TreeHTML:    template.HTML(tree.ToHTML(p.Path, opts.BasePath)),
		AssetPath:   opts.AssetPath,
		Endpoint:    opts.Endpoint,
	}
	if a := p.Article; a != nil {
		if built := slides.Segment(a.Nodes()); len(built) > 0 {
			a.AppendDeck(slides.Markup(built))
			data.HasDeck = true
		}
		data.Content = template.HTML(content.Render(a.Root))
		data.TOCHTML = template.HTML(TOCHTML(outline.Build(a.Headings())))
	} else {
		data.Content = template.HTML(`<article class="` + content.ContentRootClass + `">` + p.Body + `</article>`)
	}
	return r.tmpl.Execute(w, data)
}

// Index writes a page listing every document of the tree.
func (r *Renderer) Index(w io.Writer, tree *FileTree, opts PageOptions) error {
	nav := tree.ToHTML("", opts.BasePath)
	var list strings.Builder
	fmt.Fprintf(&list, `<article class="%s"><h1>%s</h1>`+"\n",
		content.ContentRootClass, template.HTMLEscapeString(r.ProjectName))
	list.WriteString(nav)
	list.WriteString("</article>")
	return r.tmpl.Execute(w, pageData{
		Title:       "Index",
		ProjectName: r.ProjectName,
		Content:     template.HTML(list.String()),
		TreeHTML:    template.HTML(nav),
		AssetPath:   opts.AssetPath,
	})
}
