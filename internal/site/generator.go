package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/docdeck/internal/progress"
	"github.com/ziadkadry99/docdeck/internal/slides"
)

// SiteGenerator converts a documentation library into a static HTML site
// with a prerendered deck on every page that has slides.
type SiteGenerator struct {
	Library     *Library
	OutputDir   string
	ProjectName string
	Reporter    progress.Reporter
	Logger      *slog.Logger
}

// NewSiteGenerator creates a SiteGenerator writing lib's pages to outputDir.
func NewSiteGenerator(lib *Library, outputDir, projectName string) *SiteGenerator {
	return &SiteGenerator{
		Library:     lib,
		OutputDir:   outputDir,
		ProjectName: projectName,
		Reporter:    progress.Nop{},
		Logger:      slog.Default(),
	}
}

// Generate builds the full static site. Returns the number of pages generated.
func (g *SiteGenerator) Generate(ctx context.Context) (int, error) {
	paths, err := g.Library.Discover()
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no markdown files found in %s", g.Library.DocsDir)
	}

	pages := make([]*Page, 0, len(paths))
	entries := make([]TreeEntry, 0, len(paths))
	for _, rel := range paths {
		p, err := g.Library.Load(rel)
		if err != nil {
			return 0, err
		}
		pages = append(pages, p)
		e := TreeEntry{Path: p.Path, Title: p.Title}
		if p.Article != nil {
			e.Slides = len(slides.Segment(p.Article.Nodes()))
		}
		entries = append(entries, e)
	}
	tree := BuildTree(entries)

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return 0, err
	}
	if err := WriteSearchIndex(BuildSearchIndex(pages), filepath.Join(g.OutputDir, "search-index.json")); err != nil {
		return 0, fmt.Errorf("writing search index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "style.css"), Stylesheet, 0o644); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(g.OutputDir, "deck.js"), DeckScript, 0o644); err != nil {
		return 0, err
	}

	r, err := NewRenderer(g.ProjectName)
	if err != nil {
		return 0, err
	}

	g.Reporter.Start(len(pages))
	defer g.Reporter.Finish()
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := g.renderPage(r, tree, p); err != nil {
			return i, fmt.Errorf("rendering %s: %w", p.Path, err)
		}
		g.Reporter.Update(i+1, p.Path)
	}
	if !hasIndex(pages) {
		if err := g.writeIndex(r, tree); err != nil {
			return len(pages), fmt.Errorf("writing index: %w", err)
		}
	}
	g.Logger.Info("site generated", "pages", len(pages), "output", g.OutputDir)
	return len(pages), nil
}

// renderPage writes a single page to its HTML path under the output dir.
func (g *SiteGenerator) renderPage(r *Renderer, tree *FileTree, p *Page) error {
	htmlRel := mdPathToHTML(p.Path)
	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(htmlRel))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	basePath := strings.Repeat("../", strings.Count(htmlRel, "/"))

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return r.Page(f, p, tree, PageOptions{BasePath: basePath, AssetPath: basePath})
}

// writeIndex writes a document listing as index.html for trees without
// their own index page.
func (g *SiteGenerator) writeIndex(r *Renderer, tree *FileTree) error {
	f, err := os.Create(filepath.Join(g.OutputDir, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Index(f, tree, PageOptions{})
}

func hasIndex(pages []*Page) bool {
	for _, p := range pages {
		if mdPathToHTML(p.Path) == "index.html" {
			return true
		}
	}
	return false
}

// extractTitle pulls the first # heading from markdown content, or falls back to the filename.
func extractTitle(content, relPath string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return strings.TrimSuffix(filepath.Base(relPath), ".md")
}

// rewriteMDLinks changes .md links in HTML content to .html links.
func rewriteMDLinks(content string) string {
	content = strings.ReplaceAll(content, `.md"`, `.html"`)
	return strings.ReplaceAll(content, `.md#`, `.html#`)
}
