package tui

import (
	"strings"

	"workboard-cli/internal/dashboard"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewCompany
	modalNewProject
	modalNewTask
)

// activeModal derives the open dialog from controller state.
func activeModal(st *dashboard.State) modalKind {
	switch {
	case st.CompanyDialog.Open:
		return modalNewCompany
	case st.ProjectDialog.Open:
		return modalNewProject
	case st.TaskDialog.Open:
		return modalNewTask
	}
	return modalNone
}

func newInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 200
	return in
}

func newTextarea(placeholder string, rows int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 2000
	ta.SetHeight(rows)
	return ta
}

// companyForm holds the widgets of the "Create a Company" dialog.
type companyForm struct {
	name  textinput.Model
	desc  textarea.Model
	focus int
}

func newCompanyForm(d dashboard.CompanyDialog) companyForm {
	f := companyForm{
		name: newInput("Enter company name"),
		desc: newTextarea("Add a short description", 4),
	}
	f.name.SetValue(d.Name)
	f.desc.SetValue(d.Description)
	f.name.Focus()
	return f
}

func (f *companyForm) fields() int { return 2 }

func (f *companyForm) setFocus(i int) tea.Cmd {
	f.focus = (i + f.fields()) % f.fields()
	f.name.Blur()
	f.desc.Blur()
	if f.focus == 0 {
		return f.name.Focus()
	}
	return f.desc.Focus()
}

func (f *companyForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == 0 {
		f.name, cmd = f.name.Update(msg)
	} else {
		f.desc, cmd = f.desc.Update(msg)
	}
	return cmd
}

func (f *companyForm) apply(d *dashboard.CompanyDialog) {
	d.Name = f.name.Value()
	d.Description = f.desc.Value()
}

// projectForm holds the widgets of the "Create a Project" dialog. Focus order is
// name, description, then one entry per member row.
type projectForm struct {
	name    textinput.Model
	desc    textarea.Model
	members []textinput.Model
	focus   int
}

func newProjectForm(d dashboard.ProjectDialog) projectForm {
	f := projectForm{
		name: newInput("Enter project name"),
		desc: newTextarea("Add project description", 3),
	}
	f.name.SetValue(d.Name)
	f.desc.SetValue(d.Description)
	f.syncMembers(d.Members)
	f.name.Focus()
	return f
}

func (f *projectForm) syncMembers(values []string) {
	out := make([]textinput.Model, len(values))
	for i, v := range values {
		in := newInput("Enter member (optional)")
		in.SetValue(v)
		out[i] = in
	}
	f.members = out
}

func (f *projectForm) fields() int { return 2 + len(f.members) }

func (f *projectForm) setFocus(i int) tea.Cmd {
	f.focus = (i + f.fields()) % f.fields()
	f.name.Blur()
	f.desc.Blur()
	for j := range f.members {
		f.members[j].Blur()
	}
	switch {
	case f.focus == 0:
		return f.name.Focus()
	case f.focus == 1:
		return f.desc.Focus()
	default:
		return f.members[f.focus-2].Focus()
	}
}

// memberIndex returns the focused member row, or -1.
func (f *projectForm) memberIndex() int {
	if f.focus < 2 {
		return -1
	}
	return f.focus - 2
}

func (f *projectForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case f.focus == 0:
		f.name, cmd = f.name.Update(msg)
	case f.focus == 1:
		f.desc, cmd = f.desc.Update(msg)
	default:
		i := f.focus - 2
		f.members[i], cmd = f.members[i].Update(msg)
	}
	return cmd
}

func (f *projectForm) apply(d *dashboard.ProjectDialog) {
	d.Name = f.name.Value()
	d.Description = f.desc.Value()
	for i := range f.members {
		d.SetMember(i, f.members[i].Value())
	}
}

// taskForm holds the widgets of the "Create a Task" dialog.
type taskForm struct {
	title    textinput.Model
	desc     textarea.Model
	assignee textinput.Model
	eta      textinput.Model
	focus    int
}

func newTaskForm(d dashboard.TaskDialog) taskForm {
	f := taskForm{
		title:    newInput("Enter task title"),
		desc:     newTextarea("Enter task description", 3),
		assignee: newInput("Assignee"),
		eta:      newInput("YYYY-MM-DD HH:MM"),
	}
	f.eta.CharLimit = 32
	f.title.SetValue(d.Title)
	f.desc.SetValue(d.Description)
	f.assignee.SetValue(d.AssignedTo)
	f.eta.SetValue(d.ETA)
	f.title.Focus()
	return f
}

func (f *taskForm) fields() int { return 4 }

func (f *taskForm) setFocus(i int) tea.Cmd {
	f.focus = (i + f.fields()) % f.fields()
	f.title.Blur()
	f.desc.Blur()
	f.assignee.Blur()
	f.eta.Blur()
	switch f.focus {
	case 0:
		return f.title.Focus()
	case 1:
		return f.desc.Focus()
	case 2:
		return f.assignee.Focus()
	default:
		return f.eta.Focus()
	}
}

func (f *taskForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.title, cmd = f.title.Update(msg)
	case 1:
		f.desc, cmd = f.desc.Update(msg)
	case 2:
		f.assignee, cmd = f.assignee.Update(msg)
	default:
		f.eta, cmd = f.eta.Update(msg)
	}
	return cmd
}

func (f *taskForm) apply(d *dashboard.TaskDialog) {
	d.Title = f.title.Value()
	d.Description = f.desc.Value()
	d.AssignedTo = f.assignee.Value()
	d.ETA = f.eta.Value()
}

func (m appModel) renderCompanyDialog() string {
	d := m.ctrl.CompanyDialog
	f := m.companyForm
	bodyW := modalBodyWidth(m.width)
	f.desc.SetWidth(bodyW)

	saveLabel := "Save"
	if d.Saving {
		saveLabel = "Saving..."
	}
	parts := []string{
		styleMuted().Width(bodyW).Render("A company delivering innovative solutions with customized services and expertise."),
		"",
		renderField("Company Name", f.focus == 0, renderInputLine(bodyW, f.name.View())),
		"",
		renderField("Description (Optional)", f.focus == 1, f.desc.View()),
		"",
		renderButtons(saveLabel, !d.Saving, !d.Saving),
	}
	return renderModalBox(m.width, "Create a Company", strings.Join(parts, "\n"))
}

func (m appModel) renderProjectDialog() string {
	d := m.ctrl.ProjectDialog
	f := m.projectForm
	bodyW := modalBodyWidth(m.width)
	f.desc.SetWidth(bodyW)

	saveLabel := "Save"
	if d.Saving {
		saveLabel = "Saving..."
	}
	company := m.ctrl.CompanyName(d.CompanyID)
	memberLines := make([]string, 0, len(f.members))
	for i := range f.members {
		line := renderInputLine(bodyW-4, f.members[i].View())
		if len(f.members) > 1 {
			line += " " + styleMuted().Render("×")
		}
		memberLines = append(memberLines, line)
	}
	parts := []string{
		styleMuted().Width(bodyW).Render("Fill out project details and assign company and members."),
		styleMuted().Width(bodyW).Render("Note: Member " + m.ctrl.CreatorID() + " will be added automatically."),
		"",
		renderField("Project Name", f.focus == 0, renderInputLine(bodyW, f.name.View())),
		"",
		renderField("Project Description", f.focus == 1, f.desc.View()),
		"",
		renderField("Company", false, renderInputLine(bodyW, company)),
		"",
		renderField("Members", f.memberIndex() >= 0, strings.Join(memberLines, "\n")),
		styleMuted().Render("+ Add Member (ctrl+n)"),
		"",
		renderButtons(saveLabel, !d.Saving, !d.Saving),
	}
	return renderModalBox(m.width, "Create a Project", strings.Join(parts, "\n"))
}

func (m appModel) renderTaskDialog() string {
	d := m.ctrl.TaskDialog
	f := m.taskForm
	bodyW := modalBodyWidth(m.width)
	f.desc.SetWidth(bodyW)

	saveLabel := "Save"
	if d.Saving {
		saveLabel = "Saving..."
	}
	parts := []string{
		styleMuted().Render("Fill out task details below."),
		"",
		renderField("Title", f.focus == 0, renderInputLine(bodyW, f.title.View())),
		"",
		renderField("Description", f.focus == 1, f.desc.View()),
		"",
		renderField("Assign To (Optional)", f.focus == 2, renderInputLine(bodyW, f.assignee.View())),
		"",
		renderField("ETA", f.focus == 3, renderInputLine(bodyW, f.eta.View())),
		"",
		renderButtons(saveLabel, d.CanSave(), !d.Saving),
	}
	if d.Err != "" {
		parts = append(parts, "", styleError().Width(bodyW).Render(d.Err))
	}
	return renderModalBox(m.width, "Create a Task", strings.Join(parts, "\n"))
}
