package site

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/docdeck/internal/content"
)

// ErrNotFound is returned by Load for paths outside the library.
var ErrNotFound = errors.New("site: page not found")

// DefaultInclude selects every Markdown file.
var DefaultInclude = []string{"**/*.md"}

// skipDirs are directory names never descended into.
var skipDirs = []string{".git", "node_modules", "vendor", ".docdeck"}

// Library is a directory of documentation sources.
type Library struct {
	DocsDir string
	Include []string // doublestar patterns relative to DocsDir
	Exclude []string

	logger *slog.Logger
}

// NewLibrary creates a library rooted at docsDir. Empty include patterns
// select every Markdown file.
func NewLibrary(docsDir string, include, exclude []string, logger *slog.Logger) *Library {
	if len(include) == 0 {
		include = DefaultInclude
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{DocsDir: docsDir, Include: include, Exclude: exclude, logger: logger}
}

// Page is one loaded documentation page.
type Page struct {
	Path  string // slash-separated path relative to the library root
	Title string
	Body  string // rendered HTML body
	// Article is nil when the body has no content root or title; such pages
	// are shown without a deck.
	Article *content.Article
}

// Discover returns the relative paths of all matching sources, sorted.
func (l *Library) Discover() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(l.DocsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != l.DocsDir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(l.DocsDir, p)
		if err != nil {
			return err
		}
		if l.Match(rel) {
			paths = append(paths, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking docs dir: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Match reports whether rel is selected by the include and exclude patterns.
func (l *Library) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	return matchesAny(rel, l.Include) && !matchesAny(rel, l.Exclude)
}

// Load reads and renders the page at rel.
func (l *Library) Load(rel string) (*Page, error) {
	rel = path.Clean(strings.TrimPrefix(filepath.ToSlash(rel), "/"))
	if !filepath.IsLocal(filepath.FromSlash(rel)) || !l.Match(rel) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	src, err := os.ReadFile(filepath.Join(l.DocsDir, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	body, err := content.RenderMarkdown(src)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", rel, err)
	}

	p := &Page{
		Path:  rel,
		Title: extractTitle(string(src), rel),
		Body:  rewriteMDLinks(string(body)),
	}
	var doc bytes.Buffer
	doc.WriteString(`<article class="` + content.ContentRootClass + `">`)
	doc.WriteString(p.Body)
	doc.WriteString(`</article>`)
	a, err := content.Parse(&doc)
	switch {
	case errors.Is(err, content.ErrNoTitle), errors.Is(err, content.ErrNoContentRoot):
		l.logger.Debug("site: page has no deck", "path", rel, "reason", err)
	case err != nil:
		return nil, fmt.Errorf("parsing %s: %w", rel, err)
	default:
		p.Article = a
		p.Title = a.TitleText()
	}
	return p, nil
}

// HTMLPath maps a source path to the page path it is published at.
func HTMLPath(rel string) string { return mdPathToHTML(rel) }

// SourcePath maps a published page path back to its source path.
func SourcePath(htmlRel string) string {
	if strings.HasSuffix(htmlRel, ".html") {
		return strings.TrimSuffix(htmlRel, ".html") + ".md"
	}
	return htmlRel
}

func skipDir(name string) bool {
	for _, s := range skipDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// matchesAny checks rel against each pattern, and against its base name so
// that patterns like "*.md" apply at any depth.
func matchesAny(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
