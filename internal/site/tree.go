package site

import (
	"fmt"
	"html/template"
	"path"
	"sort"
	"strings"
)

// TreeEntry describes one page for the sidebar.
type TreeEntry struct {
	Path   string // slash-separated source path
	Title  string
	Slides int // deck length, 0 when the page has no deck
}

// FileTree is a node in the documentation sidebar.
type FileTree struct {
	Name     string
	Title    string // display name; the page title for files
	Path     string // source path for files, directory path for dirs
	Slides   int
	IsDir    bool
	Children []*FileTree
}

// BuildTree nests the entries by directory.
func BuildTree(entries []TreeEntry) *FileTree {
	root := &FileTree{Name: "docs", IsDir: true}
	for _, e := range entries {
		parts := strings.Split(path.Clean(e.Path), "/")
		current := root
		for i, part := range parts {
			if i == len(parts)-1 {
				current.Children = append(current.Children, &FileTree{
					Name:   part,
					Title:  e.Title,
					Path:   e.Path,
					Slides: e.Slides,
				})
				break
			}
			current = current.dir(part, strings.Join(parts[:i+1], "/"))
		}
	}
	sortTree(root)
	return root
}

func (t *FileTree) dir(name, dirPath string) *FileTree {
	for _, c := range t.Children {
		if c.IsDir && c.Name == name {
			return c
		}
	}
	d := &FileTree{Name: name, Title: formatDirName(name), Path: dirPath, IsDir: true}
	t.Children = append(t.Children, d)
	return d
}

// sortTree orders directories before files, each alphabetically.
func sortTree(node *FileTree) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range node.Children {
		if c.IsDir {
			sortTree(c)
		}
	}
}

// Pages returns the file nodes in sidebar order.
func (t *FileTree) Pages() []*FileTree {
	var out []*FileTree
	for _, c := range t.Children {
		if c.IsDir {
			out = append(out, c.Pages()...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// ToHTML renders the primary navigation. basePath is prepended to every
// page link; directories on the way to activePath start expanded.
func (t *FileTree) ToHTML(activePath, basePath string) string {
	ancestors := activeAncestors(activePath)

	var b strings.Builder
	b.WriteString(`<nav class="md-nav md-nav--primary" aria-label="Pages">` + "\n")
	current := ""
	if activePath == "index.md" {
		current = ` aria-current="page"`
	}
	fmt.Fprintf(&b, `<ul class="md-nav__list"><li class="md-nav__item md-nav__item--home"><a class="md-nav__link" href="%sindex.html"%s>Home</a></li></ul>`+"\n", basePath, current)
	renderTree(&b, t, activePath, basePath, ancestors)
	b.WriteString("</nav>\n")
	return b.String()
}

// activeAncestors returns the directories containing activePath:
// "guide/setup/linux.md" yields {"guide", "guide/setup"}.
func activeAncestors(activePath string) map[string]bool {
	out := make(map[string]bool)
	parts := strings.Split(activePath, "/")
	for i := 1; i < len(parts); i++ {
		out[strings.Join(parts[:i], "/")] = true
	}
	return out
}

func renderTree(b *strings.Builder, node *FileTree, activePath, basePath string, ancestors map[string]bool) {
	if len(node.Children) == 0 {
		return
	}
	b.WriteString(`<ul class="md-nav__list">` + "\n")
	for _, c := range node.Children {
		if c.IsDir {
			fmt.Fprintf(b, `<li class="md-nav__item md-nav__item--dir" data-expanded="%t"><span class="md-nav__dir">%s</span>`+"\n",
				ancestors[c.Path], template.HTMLEscapeString(c.Title))
			renderTree(b, c, activePath, basePath, ancestors)
			b.WriteString("</li>\n")
			continue
		}
		if c.Path == "index.md" {
			continue
		}
		name := c.Title
		if name == "" {
			name = strings.TrimSuffix(c.Name, path.Ext(c.Name))
		}
		current := ""
		if c.Path == activePath {
			current = ` aria-current="page"`
		}
		badge := ""
		if c.Slides > 0 {
			badge = fmt.Sprintf(` <span class="md-nav__slides" title="slides">%d</span>`, c.Slides)
		}
		fmt.Fprintf(b, `<li class="md-nav__item"><a class="md-nav__link" href="%s%s"%s>%s</a>%s</li>`+"\n",
			basePath, mdPathToHTML(c.Path), current, template.HTMLEscapeString(name), badge)
	}
	b.WriteString("</ul>\n")
}

// mdPathToHTML converts a markdown path to its HTML equivalent.
func mdPathToHTML(p string) string {
	if strings.HasSuffix(p, ".md") {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}

// formatDirName title-cases a slug: "getting-started" becomes
// "Getting Started".
func formatDirName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
