package tui

import (
	"strings"

	"workboard-cli/internal/dashboard"
	"workboard-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

type view int

const (
	viewDashboard view = iota
	viewLogin
)

type pane int

const (
	focusSidebar pane = iota
	focusTasks
)

// SessionStore persists tokens typed on the login screen.
type SessionStore interface {
	Token() (string, error)
	SetToken(token string) error
}

const sessionExpiredNotice = "Your session has expired. Please sign in again."

type appModel struct {
	ctrl     *dashboard.Controller
	session  SessionStore
	stateDir string
	log      zerolog.Logger

	width  int
	height int

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	table   table.Model

	view  view
	focus pane
	// cursor indexes flattenSidebar rows; cursorKey keeps it stable across reloads.
	cursor      int
	cursorKey   string
	showPreview bool

	modal       modalKind
	companyForm companyForm
	projectForm projectForm
	taskForm    taskForm

	token       textinput.Model
	loginNotice string
	loginErr    string

	// flash is a one-shot status line cleared by the next key.
	flash        string
	editorPath   string
	editorBefore string

	restore   store.TUIState
	lastSaved store.TUIState
}

func newAppModel(opts Options) appModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styleMuted()

	m := appModel{
		ctrl:     opts.Controller,
		session:  opts.Session,
		stateDir: opts.StateDir,
		log:      opts.Logger.With().Str("component", "tui").Logger(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		table:    newTaskTable(),
		view:     viewDashboard,
		focus:    focusSidebar,
		token:    newTokenInput(),
	}

	if opts.StateDir != "" {
		st, err := store.LoadTUIState(opts.StateDir)
		if err != nil {
			m.log.Warn().Err(err).Msg("load tui state failed")
		} else if st != nil {
			m.restore = *st
			m.lastSaved = *st
			m.showPreview = st.ShowPreview
		}
	}

	if m.session != nil {
		if tok, err := m.session.Token(); err == nil && tok == "" {
			m.view = viewLogin
			m.token.Focus()
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.ctrl.Init(), m.spinner.Tick}
	if id := m.restore.ExpandedCompanyID; id != "" {
		cmds = append(cmds, m.ctrl.ToggleCompany(id))
	}
	if id := m.restore.ActiveProjectID; id != "" {
		cmds = append(cmds, m.ctrl.SelectProject(id))
	}
	if m.view == viewLogin {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(taskColumns(m.mainWidth() - 2))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case externalEditorDoneMsg:
		m.applyExternalEditorResult(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		m.flash = ""
		var cmd tea.Cmd
		switch {
		case m.view == viewLogin:
			m, cmd = m.updateLogin(msg)
		case m.modal != modalNone:
			m, cmd = m.updateModal(msg)
		default:
			var quit bool
			m, cmd, quit = m.updateDashboard(msg)
			if quit {
				return m.quit()
			}
		}
		var follow tea.Cmd
		m, follow = m.afterControllerChange()
		return m, tea.Batch(cmd, follow)
	}

	cmd := m.ctrl.Update(msg)
	// Cursor blinks and other widget messages.
	var widget tea.Cmd
	switch {
	case m.view == viewLogin:
		m.token, widget = m.token.Update(msg)
	case m.modal == modalNewCompany:
		widget = m.companyForm.update(msg)
	case m.modal == modalNewProject:
		widget = m.projectForm.update(msg)
	case m.modal == modalNewTask:
		widget = m.taskForm.update(msg)
	}
	var follow tea.Cmd
	m, follow = m.afterControllerChange()
	return m, tea.Batch(cmd, widget, follow)
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	m.persistState()
	m.ctrl.Close()
	return m, tea.Quit
}

// afterControllerChange reconciles widgets with controller state.
func (m appModel) afterControllerChange() (appModel, tea.Cmd) {
	var cmds []tea.Cmd

	if m.ctrl.SessionExpired && m.view != viewLogin {
		var cmd tea.Cmd
		m, cmd = m.enterLogin(sessionExpiredNotice)
		cmds = append(cmds, cmd)
	}

	if kind := activeModal(&m.ctrl.State); kind != m.modal {
		m.modal = kind
		switch kind {
		case modalNewCompany:
			m.companyForm = newCompanyForm(m.ctrl.CompanyDialog)
			cmds = append(cmds, textinput.Blink)
		case modalNewProject:
			m.projectForm = newProjectForm(m.ctrl.ProjectDialog)
			cmds = append(cmds, textinput.Blink)
		case modalNewTask:
			m.taskForm = newTaskForm(m.ctrl.TaskDialog)
			cmds = append(cmds, textinput.Blink)
		}
	}

	if m.focus == focusTasks && m.ctrl.Tasks.ProjectID == "" {
		m.focus = focusSidebar
	}
	m.syncCursor()
	m.syncTaskTable()
	m.persistState()
	return m, tea.Batch(cmds...)
}

// syncCursor re-finds the remembered row after the sidebar was rebuilt.
func (m *appModel) syncCursor() {
	rows := flattenSidebar(&m.ctrl.State)
	if m.cursorKey != "" {
		for i, r := range rows {
			if rowKey(r) == m.cursorKey {
				m.cursor = i
				return
			}
		}
	}
	if m.cursor >= len(rows) {
		m.cursor = len(rows) - 1
	}
	if m.cursor < 0 || m.cursor >= len(rows) || !rows[m.cursor].selectable() {
		m.cursor = firstSelectable(rows)
	}
	if m.cursor >= 0 {
		m.cursorKey = rowKey(rows[m.cursor])
	} else {
		m.cursor = 0
	}
}

func (m appModel) cursorRow() (sidebarRow, bool) {
	rows := flattenSidebar(&m.ctrl.State)
	if m.cursor < 0 || m.cursor >= len(rows) || !rows[m.cursor].selectable() {
		return sidebarRow{}, false
	}
	return rows[m.cursor], true
}

func (m *appModel) moveCursor(dir int) {
	rows := flattenSidebar(&m.ctrl.State)
	if len(rows) == 0 {
		return
	}
	m.cursor = nextSelectable(rows, m.cursor, dir)
	if m.cursor >= 0 && m.cursor < len(rows) {
		m.cursorKey = rowKey(rows[m.cursor])
	}
}

func (m appModel) updateDashboard(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, nil, true

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil, false

	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == focusSidebar && m.ctrl.Tasks.ProjectID != "" {
			m.focus = focusTasks
		} else {
			m.focus = focusSidebar
		}
		return m, nil, false

	case key.Matches(msg, m.keys.NewCompany):
		m.ctrl.OpenCompanyDialog()
		return m, nil, false

	case key.Matches(msg, m.keys.NewProject):
		if row, ok := m.cursorRow(); ok {
			m.ctrl.OpenProjectDialog(row.companyID)
		} else if id, ok := m.ctrl.ExpandedCompany(); ok {
			m.ctrl.OpenProjectDialog(id)
		}
		return m, nil, false

	case key.Matches(msg, m.keys.NewTask):
		projectID := m.ctrl.Tasks.ProjectID
		if m.focus == focusSidebar {
			if row, ok := m.cursorRow(); ok && row.kind == rowProject && row.projectID != "" {
				projectID = row.projectID
			}
		}
		if projectID != "" {
			m.ctrl.OpenTaskDialog(projectID)
		}
		return m, nil, false

	case key.Matches(msg, m.keys.Refresh):
		if m.focus == focusTasks {
			return m, m.ctrl.SelectProject(m.ctrl.Tasks.ProjectID), false
		}
		return m, m.ctrl.RefreshCompanies(), false

	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview
		return m, nil, false

	case key.Matches(msg, m.keys.CopyID):
		label, id := m.copyTarget()
		if id == "" {
			return m, nil, false
		}
		if err := clipboardWriter(id); err != nil {
			m.log.Warn().Err(err).Msg("copy to clipboard failed")
			m.flash = "Copy failed: " + err.Error()
			return m, nil, false
		}
		m.flash = "Copied " + label + " id " + id
		return m, nil, false
	}

	if m.focus == focusTasks {
		if key.Matches(msg, m.keys.Toggle) {
			m.showPreview = !m.showPreview
			return m, nil, false
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd, false
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		row, ok := m.cursorRow()
		if !ok {
			return m, nil, false
		}
		if row.kind == rowCompany {
			return m, m.ctrl.ToggleCompany(row.companyID), false
		}
		return m, m.ctrl.SelectProject(row.projectID), false
	}
	return m, nil, false
}

func (m appModel) updateModal(msg tea.KeyMsg) (appModel, tea.Cmd) {
	if key.Matches(msg, m.keys.Editor) && !m.dialogSaving() {
		m.applyForm()
		cmd, err := m.openExternalEditor()
		if err != nil {
			m.flash = "Editor failed: " + err.Error()
		}
		return m, cmd
	}
	switch m.modal {
	case modalNewCompany:
		return m.updateCompanyModal(msg)
	case modalNewProject:
		return m.updateProjectModal(msg)
	case modalNewTask:
		return m.updateTaskModal(msg)
	}
	return m, nil
}

func (m appModel) dialogSaving() bool {
	switch m.modal {
	case modalNewCompany:
		return m.ctrl.CompanyDialog.Saving
	case modalNewProject:
		return m.ctrl.ProjectDialog.Saving
	case modalNewTask:
		return m.ctrl.TaskDialog.Saving
	}
	return false
}

func (m appModel) updateCompanyModal(msg tea.KeyMsg) (appModel, tea.Cmd) {
	f := &m.companyForm
	d := &m.ctrl.CompanyDialog
	if d.Saving {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CloseCompanyDialog()
		return m, nil
	case key.Matches(msg, m.keys.Save), msg.Type == tea.KeyEnter && f.focus == 0:
		f.apply(d)
		return m, m.ctrl.SaveCompany()
	case key.Matches(msg, m.keys.NextField):
		return m, f.setFocus(f.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, f.setFocus(f.focus - 1)
	}
	cmd := f.update(msg)
	f.apply(d)
	return m, cmd
}

func (m appModel) updateProjectModal(msg tea.KeyMsg) (appModel, tea.Cmd) {
	f := &m.projectForm
	d := &m.ctrl.ProjectDialog
	if d.Saving {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CloseProjectDialog()
		return m, nil
	case key.Matches(msg, m.keys.Save), msg.Type == tea.KeyEnter && f.focus != 1:
		f.apply(d)
		return m, m.ctrl.SaveProject()
	case key.Matches(msg, m.keys.NextField):
		return m, f.setFocus(f.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, f.setFocus(f.focus - 1)
	case key.Matches(msg, m.keys.AddMember):
		f.apply(d)
		d.AddMember()
		f.syncMembers(d.Members)
		return m, f.setFocus(1 + len(f.members))
	case key.Matches(msg, m.keys.DropMember):
		i := f.memberIndex()
		if i < 0 || len(d.Members) <= 1 {
			return m, nil
		}
		f.apply(d)
		d.RemoveMember(i)
		f.syncMembers(d.Members)
		return m, f.setFocus(2 + min(i, len(f.members)-1))
	}
	cmd := f.update(msg)
	f.apply(d)
	return m, cmd
}

func (m appModel) updateTaskModal(msg tea.KeyMsg) (appModel, tea.Cmd) {
	f := &m.taskForm
	d := &m.ctrl.TaskDialog
	if d.Saving {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CloseTaskDialog()
		return m, nil
	case key.Matches(msg, m.keys.Save), msg.Type == tea.KeyEnter && f.focus != 1:
		f.apply(d)
		if !d.CanSave() {
			return m, nil
		}
		return m, m.ctrl.SaveTask()
	case key.Matches(msg, m.keys.NextField):
		return m, f.setFocus(f.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, f.setFocus(f.focus - 1)
	}
	cmd := f.update(msg)
	f.apply(d)
	return m, cmd
}

func (m *appModel) persistState() {
	if m.stateDir == "" {
		return
	}
	expanded, _ := m.ctrl.ExpandedCompany()
	st := store.TUIState{
		Version:           1,
		ExpandedCompanyID: expanded,
		ActiveProjectID:   m.ctrl.Tasks.ProjectID,
		ShowPreview:       m.showPreview,
	}
	if st == m.lastSaved {
		return
	}
	if err := store.SaveTUIState(m.stateDir, &st); err != nil {
		m.log.Warn().Err(err).Msg("save tui state failed")
		return
	}
	m.lastSaved = st
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.view == viewLogin {
		return m.viewLoginScreen()
	}

	switch m.modal {
	case modalNewCompany:
		return placeModal(m.width, m.height, m.renderCompanyDialog()+"\n"+m.modalHelpLine(false))
	case modalNewProject:
		return placeModal(m.width, m.height, m.renderProjectDialog()+"\n"+m.modalHelpLine(true))
	case modalNewTask:
		return placeModal(m.width, m.height, m.renderTaskDialog()+"\n"+m.modalHelpLine(false))
	}

	helpLine := m.flashLine() + m.help.View(dashboardHelp{k: m.keys})
	bodyH := m.height - lipgloss.Height(helpLine)
	if bodyH < 3 {
		bodyH = 3
	}
	sideW := m.sidebarWidth()
	side := normalizePane(m.renderSidebar(sideW, bodyH), sideW, bodyH)
	rule := strings.TrimSuffix(strings.Repeat(styleMuted().Render(glyphVRule())+"\n", bodyH), "\n")
	mainW := m.mainWidth()
	main := normalizePane(m.renderMain(mainW, bodyH), mainW, bodyH)

	body := lipgloss.JoinHorizontal(lipgloss.Top, side, rule, main)
	return body + "\n" + helpLine
}

func (m appModel) modalHelpLine(members bool) string {
	return m.flashLine() + m.help.View(modalHelp{k: m.keys, members: members})
}

func (m appModel) flashLine() string {
	if m.flash == "" {
		return ""
	}
	return styleMuted().Render(m.flash) + "\n"
}
