package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

const (
	sidebarMinWidth = 24
	sidebarMaxWidth = 40
)

func (m appModel) sidebarWidth() int {
	w := m.width / 3
	if w < sidebarMinWidth {
		w = sidebarMinWidth
	}
	if w > sidebarMaxWidth {
		w = sidebarMaxWidth
	}
	return w
}

// mainWidth is what remains beside the sidebar and its rule.
func (m appModel) mainWidth() int {
	w := m.width - m.sidebarWidth() - 1
	if w < 20 {
		w = 20
	}
	return w
}

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall, so lipgloss.JoinHorizontal lines the panes up.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			more := glyphMore()
			mw := xansi.StringWidth(more)
			switch {
			case width <= 0:
				ln = ""
			case width <= mw:
				ln = xansi.Cut(ln, 0, width)
			default:
				ln = xansi.Cut(ln, 0, width-mw) + more
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}
