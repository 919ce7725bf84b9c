package site

import _ "embed"

// DeckScript is the page client. It forwards input to the deck websocket
// and applies the state the session sends back. Without an endpoint it
// falls back to local slide navigation.
//
//go:embed assets/deck.js
var DeckScript []byte

// Stylesheet holds the structural rules the deck needs.
//
//go:embed assets/style.css
var Stylesheet []byte

// pageTemplate is the Go html/template for each documentation page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} · {{.ProjectName}}</title>
  {{if .Endpoint}}<meta name="docdeck-endpoint" content="{{.Endpoint}}">{{end}}
  <link rel="stylesheet" href="{{.AssetPath}}style.css">
</head>
<body data-path="{{.Path}}">
  <header class="md-header">
    <span class="md-header__title">{{.ProjectName}}</span>
    {{if .HasDeck}}<button type="button" class="ppt-toggle" aria-pressed="false">Slides</button>{{end}}
  </header>
  <div class="md-container">
    <div class="md-sidebar md-sidebar--primary">{{.TreeHTML}}</div>
    <main class="md-main">
      {{.Content}}
    </main>
    <div class="md-sidebar md-sidebar--secondary">{{.TOCHTML}}</div>
  </div>
  <script src="{{.AssetPath}}deck.js"></script>
</body>
</html>`
