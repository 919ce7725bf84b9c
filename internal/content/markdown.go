package content

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// policy keeps ids (heading anchors), classes and the inline colours the
// highlighter emits.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowStyles("color", "background-color", "font-weight", "font-style").Globally()
	return p
}()

// RenderMarkdown converts Markdown to sanitized HTML.
func RenderMarkdown(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return policy.SanitizeBytes(buf.Bytes()), nil
}

// FromMarkdown renders Markdown and wraps the result in a content root.
func FromMarkdown(src []byte) (*Article, error) {
	body, err := RenderMarkdown(src)
	if err != nil {
		return nil, err
	}
	var page bytes.Buffer
	page.WriteString(`<article class="` + ContentRootClass + `">`)
	page.Write(body)
	page.WriteString(`</article>`)
	return Parse(&page)
}
