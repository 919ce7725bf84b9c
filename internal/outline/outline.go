// Package outline holds the collapse state of a page's table of contents.
//
// Items nest by heading level. Top-level items with children carry a toggle.
// An item is expanded when the user expanded it, or when the user has not
// chosen and the item lies on the path to the active heading.
package outline

import (
	"fmt"

	"github.com/ziadkadry99/docdeck/internal/content"
)

// Pref is a user's explicit choice for one item.
type Pref int

const (
	PrefNone Pref = iota
	PrefExpanded
	PrefCollapsed
)

// Item is one entry of the outline.
type Item struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Level    int     `json:"level"`
	NavID    string  `json:"nav_id,omitempty"`
	Children []*Item `json:"children,omitempty"`

	parent   *Item
	pref     Pref
	expanded bool
}

// HasToggle reports whether the item gets a collapse toggle.
func (it *Item) HasToggle() bool { return it.Level == 1 && len(it.Children) > 0 }

// Expanded reports the current expansion of the item.
func (it *Item) Expanded() bool { return it.expanded }

// Change is emitted for every toggle whose aria-expanded value changed.
type Change struct {
	ID       string `json:"id"`
	Expanded bool   `json:"expanded"`
}

// Outline is the table of contents of one page. Not safe for concurrent use.
type Outline struct {
	Items []*Item

	byID   map[string]*Item
	active string

	// OnChange receives the toggles whose state changed after a mutation.
	OnChange func([]Change)
}

// Build nests headings by level. A heading with no shallower heading before
// it is a top-level item.
func Build(headings []content.Heading) *Outline {
	o := &Outline{byID: make(map[string]*Item)}
	if len(headings) == 0 {
		return o
	}
	type open struct {
		item  *Item
		level int
	}
	var stack []open
	navs := 0
	for i, h := range headings {
		id := h.ID
		if id == "" {
			id = fmt.Sprintf("toc-item-%d", i+1)
		}
		if _, dup := o.byID[id]; dup {
			id = fmt.Sprintf("%s-%d", id, i+1)
		}
		it := &Item{ID: id, Text: h.Text, Level: 1}
		o.byID[id] = it

		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			o.Items = append(o.Items, it)
		} else {
			parent := stack[len(stack)-1].item
			it.Level = parent.Level + 1
			it.parent = parent
			if len(parent.Children) == 0 {
				navs++
				parent.NavID = fmt.Sprintf("toc-nav-%d", navs)
			}
			parent.Children = append(parent.Children, it)
		}
		stack = append(stack, open{item: it, level: h.Level})
	}
	o.recompute()
	return o
}

// Item returns the item with the given id.
func (o *Outline) Item(id string) (*Item, bool) {
	it, ok := o.byID[id]
	return it, ok
}

// Active returns the id of the active item, or "".
func (o *Outline) Active() string { return o.active }

// SetActive marks the item for the heading currently in view. Unknown ids
// clear the active path.
func (o *Outline) SetActive(id string) {
	if _, ok := o.byID[id]; !ok {
		id = ""
	}
	if id == o.active {
		return
	}
	o.active = id
	o.emit(o.recompute())
}

// Toggle flips a top-level item and records the choice as the user's
// preference. It reports false for items without a toggle.
func (o *Outline) Toggle(id string) bool {
	it, ok := o.byID[id]
	if !ok || !it.HasToggle() {
		return false
	}
	if it.expanded {
		it.pref = PrefCollapsed
	} else {
		it.pref = PrefExpanded
	}
	o.emit(o.recompute())
	return true
}

// Toggles returns the aria-expanded value of every toggle, in document order.
func (o *Outline) Toggles() []Change {
	var out []Change
	o.walk(func(it *Item) {
		if it.HasToggle() {
			out = append(out, Change{ID: it.ID, Expanded: it.expanded})
		}
	})
	return out
}

func (o *Outline) recompute() []Change {
	path := make(map[*Item]bool)
	for it := o.byID[o.active]; it != nil; it = it.parent {
		path[it] = true
	}

	var changes []Change
	o.walk(func(it *Item) {
		if len(it.Children) == 0 {
			return
		}
		var want bool
		switch it.pref {
		case PrefExpanded:
			want = true
		case PrefCollapsed:
			want = false
		default:
			want = path[it]
		}
		if want != it.expanded {
			it.expanded = want
			if it.HasToggle() {
				changes = append(changes, Change{ID: it.ID, Expanded: want})
			}
		}
	})
	return changes
}

func (o *Outline) emit(changes []Change) {
	if len(changes) > 0 && o.OnChange != nil {
		o.OnChange(changes)
	}
}

func (o *Outline) walk(fn func(*Item)) {
	var visit func([]*Item)
	visit = func(items []*Item) {
		for _, it := range items {
			fn(it)
			visit(it.Children)
		}
	}
	visit(o.Items)
}
