package site

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/ziadkadry99/docdeck/internal/outline"
)

// TOCHTML renders the outline as the secondary navigation. Top-level items
// with children get a collapse toggle wired to their nested list.
func TOCHTML(o *outline.Outline) string {
	if o == nil || len(o.Items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<nav class="md-nav md-nav--secondary" data-md-component="toc" aria-label="On this page">` + "\n")
	renderTOC(&b, o.Items)
	b.WriteString("</nav>\n")
	return b.String()
}

func renderTOC(b *strings.Builder, items []*outline.Item) {
	b.WriteString(`<ul class="md-nav__list">` + "\n")
	for _, it := range items {
		fmt.Fprintf(b, `<li class="md-nav__item" data-toc-level="%d" data-toc-id="%s">`,
			it.Level, template.HTMLEscapeString(it.ID))
		if it.HasToggle() {
			fmt.Fprintf(b, `<button type="button" class="md-toc__toggle" aria-label="Collapse or expand" aria-controls="%s" aria-expanded="%t"></button>`,
				it.NavID, it.Expanded())
		}
		fmt.Fprintf(b, `<a class="md-nav__link" href="#%s">%s</a>`,
			template.HTMLEscapeString(it.ID), template.HTMLEscapeString(it.Text))
		if len(it.Children) > 0 {
			fmt.Fprintf(b, "\n"+`<nav class="md-nav" id="%s">`+"\n", it.NavID)
			renderTOC(b, it.Children)
			b.WriteString("</nav>\n")
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
}
