package config

import (
	"github.com/ziadkadry99/docdeck/internal/annotate"
	"github.com/ziadkadry99/docdeck/internal/layout"
	"github.com/ziadkadry99/docdeck/internal/session"
)

// DefaultExcludes are glob patterns excluded from the docs tree by default.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"drafts/**",
	"_*.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	sess := session.DefaultConfig()
	return &Config{
		ProjectName: "docs",
		DocsDir:     "docs",
		OutputDir:   "site",
		Include:     []string{"**/*.md"},
		Exclude:     DefaultExcludes,
		Server: ServerConfig{
			Port: 8080,
		},
		Deck: DeckConfig{
			MinSlideHeight:   sess.Layout.MinSlideHeight,
			Padding:          sess.Layout.Padding,
			ResizeDebounceMS: int(sess.Layout.Debounce.Milliseconds()),
			FlashMS:          int(sess.Flash.Milliseconds()),
		},
		Ink: InkConfig{
			Color:      sess.Annotate.Color,
			DrawWidth:  sess.Annotate.DrawWidth,
			EraseWidth: sess.Annotate.EraseWidth,
			History:    sess.Annotate.Capacity,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SessionConfig converts the deck and ink settings for live sessions.
func (c *Config) SessionConfig() session.Config {
	sess := session.DefaultConfig()
	sess.Annotate = annotate.Config{
		Color:      c.Ink.Color,
		DrawWidth:  c.Ink.DrawWidth,
		EraseWidth: c.Ink.EraseWidth,
		Capacity:   c.Ink.History,
	}
	sess.Layout = layout.Config{
		MinSlideHeight: c.Deck.MinSlideHeight,
		Padding:        c.Deck.Padding,
		Debounce:       ms(c.Deck.ResizeDebounceMS),
	}
	sess.Flash = ms(c.Deck.FlashMS)
	return sess
}
