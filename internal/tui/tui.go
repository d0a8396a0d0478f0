package tui

import (
	"workboard-cli/internal/dashboard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type Options struct {
	Controller *dashboard.Controller
	// Session receives tokens typed on the login screen. May be nil.
	Session  SessionStore
	StateDir string
	Logger   zerolog.Logger
	// Theme and Glyphs come from config; environment variables win.
	Theme  string
	Glyphs string
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)
	applyGlyphPreference(opts.Glyphs)

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	opts.Controller.Close()
	return err
}
