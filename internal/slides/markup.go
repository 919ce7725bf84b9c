package slides

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/docdeck/internal/content"
)

// Class names shared by the deck markup and the page client.
const (
	SlideClass    = "ppt-slide"
	ActiveClass   = "is-active"
	ControlsClass = "ppt-controls"
	CounterClass  = "ppt-counter"
	ToolbarClass  = "ppt-toolbar"
	InkClass      = "ppt-ink"
)

// Markup builds the deck container for the given slides. The deck starts
// hidden; the live session drives visibility afterwards.
func Markup(slides []Slide) *html.Node {
	deck := content.Element(atom.Div, content.DeckClass)
	content.SetAttr(deck, "aria-hidden", "true")

	toolbar := content.Element(atom.Div, ToolbarClass)
	content.SetAttr(toolbar, "role", "toolbar")
	for _, tool := range []string{"pointer", "draw", "erase"} {
		b := button("ppt-tool", label(tool))
		content.SetAttr(b, "data-tool", tool)
		content.SetAttr(b, "aria-pressed", strconv.FormatBool(tool == "pointer"))
		toolbar.AppendChild(b)
	}
	for _, action := range []string{"undo", "redo", "clear"} {
		b := button("ppt-action", label(action))
		content.SetAttr(b, "data-action", action)
		if action != "clear" {
			content.SetAttr(b, "disabled", "")
		}
		toolbar.AppendChild(b)
	}
	deck.AppendChild(toolbar)

	stage := content.Element(atom.Div, "ppt-stage")
	for i, s := range slides {
		section := content.Element(atom.Section, SlideClass)
		content.SetAttr(section, "data-index", strconv.Itoa(i))
		for _, n := range s.Nodes {
			section.AppendChild(content.Clone(n))
		}
		stage.AppendChild(section)
	}
	ink := content.Element(atom.Img, InkClass)
	content.SetAttr(ink, "alt", "")
	content.SetAttr(ink, "draggable", "false")
	stage.AppendChild(ink)
	deck.AppendChild(stage)

	controls := content.Element(atom.Div, ControlsClass)
	prev := button("ppt-btn", "Prev")
	content.SetAttr(prev, "data-nav", "prev")
	counter := content.Element(atom.Span, CounterClass)
	content.SetAttr(counter, "aria-live", "polite")
	next := button("ppt-btn", "Next")
	content.SetAttr(next, "data-nav", "next")
	controls.AppendChild(prev)
	controls.AppendChild(counter)
	controls.AppendChild(next)
	deck.AppendChild(controls)

	return deck
}

func button(class, text string) *html.Node {
	b := content.Element(atom.Button, class)
	content.SetAttr(b, "type", "button")
	b.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return b
}

func label(name string) string {
	switch name {
	case "pointer":
		return "Pointer"
	case "draw":
		return "Pen"
	case "erase":
		return "Eraser"
	case "undo":
		return "Undo"
	case "redo":
		return "Redo"
	case "clear":
		return "Clear"
	}
	return name
}
