package tui

import (
	"os"
	"strings"
	"sync/atomic"
)

// glyphSet holds the affordances drawn in the sidebar and task pane.
// Terminals without good Unicode fonts get the ASCII table.
type glyphSet struct {
	name      string
	collapsed string
	expanded  string
	bullet    string
	refresh   string
	more      string
	hrule     string
	vrule     string
}

var (
	unicodeGlyphs = &glyphSet{name: "unicode", collapsed: "▸", expanded: "▾", bullet: "•", refresh: "↻", more: "…", hrule: "─", vrule: "│"}
	asciiGlyphs   = &glyphSet{name: "ascii", collapsed: ">", expanded: "v", bullet: "*", refresh: "R", more: "...", hrule: "-", vrule: "|"}

	currentGlyphs atomic.Pointer[glyphSet]
)

func init() { currentGlyphs.Store(unicodeGlyphs) }

// applyGlyphPreference reads WORKBOARD_TUI_GLYPHS, falling back to the configured
// value. Unknown values leave the current set alone.
func applyGlyphPreference(configured string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("WORKBOARD_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(configured))
	}
	switch v {
	case "", "unicode", "utf8":
		currentGlyphs.Store(unicodeGlyphs)
	case "ascii":
		currentGlyphs.Store(asciiGlyphs)
	}
}

func glyphs() *glyphSet { return currentGlyphs.Load() }

func glyphChevronCollapsed() string { return glyphs().collapsed }
func glyphChevronExpanded() string { return glyphs().expanded }
func glyphBullet() string { return glyphs().bullet }
func glyphRefresh() string { return glyphs().refresh }
func glyphMore() string { return glyphs().more }
func glyphHRule() string { return glyphs().hrule }
func glyphVRule() string { return glyphs().vrule }
