package server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/docdeck/internal/site"
	"github.com/ziadkadry99/docdeck/internal/slides"
)

const (
	docsPrefix  = "/docs/"
	assetPrefix = "/assets/"
	deckSocket  = "/ws/deck"
)

// tree builds the sidebar from the library's current contents.
func (s *Server) tree() (*site.FileTree, error) {
	paths, err := s.lib.Discover()
	if err != nil {
		return nil, err
	}
	entries := make([]site.TreeEntry, 0, len(paths))
	for _, rel := range paths {
		e := site.TreeEntry{Path: rel}
		if p, err := s.lib.Load(rel); err == nil {
			e.Title = p.Title
			if p.Article != nil {
				e.Slides = len(slides.Segment(p.Article.Nodes()))
			}
		}
		entries = append(entries, e)
	}
	return site.BuildTree(entries), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tree, err := s.tree()
	if err != nil {
		s.logger.Error("server: listing docs", "error", err)
		http.Error(w, "listing documents failed", http.StatusInternalServerError)
		return
	}
	s.writeHTML(w, func(buf *bytes.Buffer) error {
		return s.renderer.Index(buf, tree, site.PageOptions{BasePath: docsPrefix, AssetPath: assetPrefix})
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rel := site.SourcePath(chi.URLParam(r, "*"))
	if rel == "" || strings.HasSuffix(rel, "/") {
		rel += "index.md"
	}
	page, err := s.lib.Load(rel)
	if errors.Is(err, site.ErrNotFound) {
		if rel == "index.md" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("server: loading page", "path", rel, "error", err)
		http.Error(w, "loading page failed", http.StatusInternalServerError)
		return
	}
	tree, err := s.tree()
	if err != nil {
		s.logger.Error("server: listing docs", "error", err)
		http.Error(w, "listing documents failed", http.StatusInternalServerError)
		return
	}
	s.writeHTML(w, func(buf *bytes.Buffer) error {
		return s.renderer.Page(buf, page, tree, site.PageOptions{
			BasePath:  docsPrefix,
			AssetPath: assetPrefix,
			Endpoint:  socketURL(r),
		})
	})
}

func (s *Server) writeHTML(w http.ResponseWriter, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.logger.Error("server: rendering page", "error", err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func asset(contentType string, data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(data)
	}
}

// socketURL returns the absolute websocket URL of the deck socket for the
// host the page was requested from.
func socketURL(r *http.Request) string {
	scheme := "ws"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "wss"
	}
	return scheme + "://" + r.Host + deckSocket
}
