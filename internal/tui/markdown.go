package tui

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

type mdKey struct {
	dark  bool
	width int
}

// Renderers are built with a fixed style; WithAutoStyle queries the terminal
// background, which blocks inside the alt screen.
var (
	mdMu        sync.Mutex
	mdRenderers = map[mdKey]*glamour.TermRenderer{}
)

// renderMarkdown renders a task description for the preview pane. Output has
// no document margin and no surrounding blank lines. Rendering errors fall
// back to the raw text.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := markdownRenderer(mdKey{dark: markdownDark(), width: max(10, width)})
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownRenderer(k mdKey) (*glamour.TermRenderer, error) {
	mdMu.Lock()
	defer mdMu.Unlock()
	if r, ok := mdRenderers[k]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyleConfig(k.dark)),
		glamour.WithWordWrap(k.width),
	)
	if err != nil {
		return nil, err
	}
	mdRenderers[k] = r
	return r, nil
}

// markdownDark follows the TUI theme unless WORKBOARD_TUI_MD_STYLE forces one.
func markdownDark() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WORKBOARD_TUI_MD_STYLE"))) {
	case "light":
		return false
	case "dark":
		return true
	}
	return lipgloss.HasDarkBackground()
}

// markdownStyleConfig starts from glamour's stock style and pulls text,
// headings and code onto the surface colour so descriptions sit flush with
// the task table. Links keep glamour's styling.
func markdownStyleConfig(dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	text, accent := colorSurfaceFg.Light, colorAccent.Light
	if dark {
		cfg = styles.DarkStyleConfig
		text, accent = colorSurfaceFg.Dark, colorAccent.Dark
	}
	var margin uint
	cfg.Document.Margin = &margin

	cfg.Text.Color = &text
	cfg.Code.Color = &text
	cfg.CodeBlock.Color = &text
	cfg.Heading.Color = &accent
	for _, h := range []*ansi.StyleBlock{&cfg.H1, &cfg.H2, &cfg.H3} {
		h.Color = &accent
		h.BackgroundColor = nil
	}
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	return cfg
}
