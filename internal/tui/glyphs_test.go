package tui

import "testing"

func TestApplyGlyphPreference(t *testing.T) {
	t.Cleanup(func() { currentGlyphs.Store(unicodeGlyphs) })

	cases := []struct {
		env, configured string
		start, want     *glyphSet
	}{
		{env: "", configured: "", start: asciiGlyphs, want: unicodeGlyphs},
		{env: "ascii", configured: "", start: unicodeGlyphs, want: asciiGlyphs},
		{env: "", configured: "ascii", start: unicodeGlyphs, want: asciiGlyphs},
		{env: "utf8", configured: "ascii", start: asciiGlyphs, want: unicodeGlyphs},
		{env: "bogus", configured: "", start: asciiGlyphs, want: asciiGlyphs},
	}
	for _, tc := range cases {
		t.Setenv("WORKBOARD_TUI_GLYPHS", tc.env)
		currentGlyphs.Store(tc.start)
		applyGlyphPreference(tc.configured)
		if got := glyphs(); got != tc.want {
			t.Fatalf("env=%q configured=%q: got %s, want %s", tc.env, tc.configured, got.name, tc.want.name)
		}
	}
}

func TestASCIIGlyphsAreASCII(t *testing.T) {
	g := asciiGlyphs
	for _, s := range []string{g.collapsed, g.expanded, g.bullet, g.refresh, g.more, g.hrule, g.vrule} {
		for _, r := range s {
			if r > 127 {
				t.Fatalf("non-ascii glyph %q", s)
			}
		}
	}
}
