package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	SwitchPane  key.Binding
	NewCompany  key.Binding
	NewProject  key.Binding
	NewTask     key.Binding
	Refresh     key.Binding
	Preview     key.Binding
	Help        key.Binding
	Quit        key.Binding
	Save        key.Binding
	Cancel      key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	AddMember   key.Binding
	DropMember  key.Binding
	Editor      key.Binding
	CopyID      key.Binding
	SkipLogin   key.Binding
	SubmitLogin key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " ", "right", "l"), key.WithHelp("enter", "expand/open")),
		SwitchPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		NewCompany:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "create company")),
		NewProject:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add project")),
		NewTask:     key.NewBinding(key.WithKeys("a", "t"), key.WithHelp("a", "add task")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Preview:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "preview")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:      key.NewBinding(key.WithKeys("esc", "ctrl+g"), key.WithHelp("esc", "cancel")),
		NextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		AddMember:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add member")),
		DropMember:  key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove member")),
		Editor:      key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit description in $EDITOR")),
		CopyID:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		SkipLogin:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "continue without token")),
		SubmitLogin: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
	}
}

// dashboardHelp adapts the key map to help.KeyMap for the main screen.
type dashboardHelp struct{ k keyMap }

func (h dashboardHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Toggle, h.k.NewCompany, h.k.NewProject, h.k.NewTask, h.k.Refresh, h.k.Help, h.k.Quit}
}

func (h dashboardHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Up, h.k.Down, h.k.Toggle, h.k.SwitchPane},
		{h.k.NewCompany, h.k.NewProject, h.k.NewTask},
		{h.k.Refresh, h.k.Preview, h.k.CopyID, h.k.Help, h.k.Quit},
	}
}

type modalHelp struct {
	k       keyMap
	members bool
}

func (h modalHelp) ShortHelp() []key.Binding {
	out := []key.Binding{h.k.NextField, h.k.Save, h.k.Cancel, h.k.Editor}
	if h.members {
		out = append(out, h.k.AddMember, h.k.DropMember)
	}
	return out
}

func (h modalHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

type loginHelp struct{ k keyMap }

func (h loginHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.SubmitLogin, h.k.SkipLogin}
}

func (h loginHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
