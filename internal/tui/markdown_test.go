package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/styles"
)

func TestMarkdownDark_EnvOverridesTheme(t *testing.T) {
	t.Setenv("WORKBOARD_TUI_MD_STYLE", "light")
	if markdownDark() {
		t.Fatalf("expected light markdown")
	}
	t.Setenv("WORKBOARD_TUI_MD_STYLE", "DARK ")
	if !markdownDark() {
		t.Fatalf("expected dark markdown")
	}
}

func TestMarkdownStyleConfig_ColorsHeadingsKeepsLinks(t *testing.T) {
	for _, dark := range []bool{false, true} {
		cfg := markdownStyleConfig(dark)
		stock := styles.LightStyleConfig
		accent := colorAccent.Light
		if dark {
			stock = styles.DarkStyleConfig
			accent = colorAccent.Dark
		}
		if cfg.Document.Margin == nil || *cfg.Document.Margin != 0 {
			t.Fatalf("dark=%v: expected zero document margin", dark)
		}
		if cfg.H1.Color == nil || *cfg.H1.Color != accent || cfg.H1.BackgroundColor != nil {
			t.Fatalf("dark=%v: unexpected H1 style %+v", dark, cfg.H1.StylePrimitive)
		}
		if strPtr(cfg.Link.Color) != strPtr(stock.Link.Color) || strPtr(cfg.LinkText.Color) != strPtr(stock.LinkText.Color) {
			t.Fatalf("dark=%v: link colours changed", dark)
		}
	}
}

func TestRenderMarkdown_TrimsAndCaches(t *testing.T) {
	t.Setenv("WORKBOARD_TUI_MD_STYLE", "dark")

	if got := renderMarkdown("   \n", 40); got != "" {
		t.Fatalf("expected empty output for blank input; got %q", got)
	}
	got := renderMarkdown("Ship the **landing** page", 40)
	if !strings.Contains(got, "landing") {
		t.Fatalf("expected rendered text to keep words; got %q", got)
	}
	if strings.HasPrefix(got, "\n") || strings.HasSuffix(got, "\n") {
		t.Fatalf("expected surrounding newlines trimmed; got %q", got)
	}

	a, err := markdownRenderer(mdKey{dark: true, width: 40})
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	b, _ := markdownRenderer(mdKey{dark: true, width: 40})
	if a != b {
		t.Fatalf("expected cached renderer to be reused")
	}
}

func strPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
