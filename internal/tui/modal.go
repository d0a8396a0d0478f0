package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const modalMaxWidth = 72

func modalWidth(screenW int) int {
	w := screenW - 4
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < 30 {
		w = 30
	}
	return w
}

// modalBodyWidth is the usable text width inside the modal border and padding.
func modalBodyWidth(screenW int) int {
	return modalWidth(screenW) - 2 - 4
}

// renderModalBox draws a titled, bordered box sized for the screen.
func renderModalBox(screenW int, title string, content string) string {
	bodyW := modalBodyWidth(screenW)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSurfaceFg).
		Width(bodyW).
		Render(title)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2).
		Width(modalWidth(screenW) - 2)
	return box.Render(header + "\n\n" + content)
}

// placeModal centers a modal on the screen.
func placeModal(screenW, screenH int, modal string) string {
	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}

	// Text inputs always render as a single visual line inside modals.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate ANSI styling to prevent bleed.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}

func renderField(label string, focused bool, body string) string {
	st := styleSectionLabel()
	if focused {
		st = st.Foreground(colorAccent)
	}
	return st.Render(label) + "\n" + body
}

func renderButtons(saveLabel string, saveEnabled bool, cancelEnabled bool) string {
	save := styleButton(saveEnabled).Render(saveLabel)
	if !saveEnabled {
		save = styleMuted().Padding(0, 1).Render(saveLabel)
	}
	cancel := styleButton(false).Render("Cancel")
	if !cancelEnabled {
		cancel = styleMuted().Padding(0, 1).Render("Cancel")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cancel, " ", save)
}
