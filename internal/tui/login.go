package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newTokenInput() textinput.Model {
	in := newInput("Paste access token")
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.CharLimit = 4096
	return in
}

func (m appModel) enterLogin(notice string) (appModel, tea.Cmd) {
	m.view = viewLogin
	m.loginNotice = notice
	m.loginErr = ""
	m.token = newTokenInput()
	return m, m.token.Focus()
}

func (m appModel) updateLogin(msg tea.KeyMsg) (appModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SkipLogin):
		m.view = viewDashboard
		m.ctrl.SessionExpired = false
		return m, nil

	case key.Matches(msg, m.keys.SubmitLogin):
		tok := strings.TrimSpace(m.token.Value())
		if tok == "" {
			m.loginErr = "Token is required"
			return m, nil
		}
		if m.session == nil {
			m.loginErr = "No session store configured"
			return m, nil
		}
		if err := m.session.SetToken(tok); err != nil {
			m.log.Error().Err(err).Msg("store token failed")
			m.loginErr = err.Error()
			return m, nil
		}
		m.log.Info().Msg("token stored")
		m.view = viewDashboard
		m.token.Reset()
		m.token.Blur()
		return m, m.ctrl.ResumeSession()
	}

	var cmd tea.Cmd
	m.token, cmd = m.token.Update(msg)
	return m, cmd
}

func (m appModel) viewLoginScreen() string {
	bodyW := modalBodyWidth(m.width)
	parts := []string{}
	if m.loginNotice != "" {
		parts = append(parts, styleError().Width(bodyW).Render(m.loginNotice), "")
	}
	parts = append(parts,
		styleMuted().Width(bodyW).Render("Paste a bearer token for the backend. It is stored in the local session database."),
		"",
		renderField("Token", true, renderInputLine(bodyW, m.token.View())),
	)
	if m.loginErr != "" {
		parts = append(parts, "", styleError().Render(m.loginErr))
	}
	parts = append(parts, "", m.help.View(loginHelp{k: m.keys}))
	box := renderModalBox(m.width, "Sign in", strings.Join(parts, "\n"))
	return placeModal(m.width, m.height, box)
}
