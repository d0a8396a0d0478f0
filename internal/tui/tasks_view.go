package tui

import (
	"strings"

	"workboard-cli/internal/dashboard"
	"workboard-cli/internal/model"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func newTaskTable() table.Model {
	t := table.New(
		table.WithColumns(taskColumns(80)),
		table.WithRows(nil),
		table.WithFocused(false),
	)
	t.SetStyles(taskTableStyles())
	return t
}

func taskTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(false)
	return s
}

// taskColumns splits width across the four task columns. Description gets the slack.
func taskColumns(width int) []table.Column {
	if width < 40 {
		width = 40
	}
	// Each column carries one cell of padding on either side.
	usable := width - 8
	title := usable * 25 / 100
	eta := min(24, usable*35/100)
	assignee := usable * 18 / 100
	desc := usable - title - eta - assignee
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Description", Width: desc},
		{Title: "ETA", Width: eta},
		{Title: "Assigned To", Width: assignee},
	}
}

func taskRows(tasks []model.Task, m appModel) []table.Row {
	loc := m.ctrl.Location()
	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, table.Row{
			oneLine(t.Title),
			oneLine(t.Description),
			t.ETALabel(loc),
			t.AssigneeLabel(),
		})
	}
	return rows
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// syncTaskTable mirrors the controller's task slot into the table widget.
func (m *appModel) syncTaskTable() {
	st := &m.ctrl.State
	var rows []table.Row
	if st.Tasks.Status == dashboard.Loaded {
		rows = taskRows(st.Tasks.Items, *m)
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
	if m.focus == focusTasks {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

// selectedTask returns the highlighted task, if the task list is showing one.
func (m appModel) selectedTask() (model.Task, bool) {
	st := &m.ctrl.State
	if st.Tasks.Status != dashboard.Loaded {
		return model.Task{}, false
	}
	i := m.table.Cursor()
	if i < 0 || i >= len(st.Tasks.Items) {
		return model.Task{}, false
	}
	return st.Tasks.Items[i], true
}

func (m appModel) renderMain(width, height int) string {
	st := &m.ctrl.State
	inner := width - 2
	if inner < 20 {
		inner = 20
	}

	if st.Tasks.ProjectID == "" {
		msg := styleMuted().Render("Select a project to view its tasks.")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	var b strings.Builder
	title := styleHeading().Render("Tasks")
	if name := st.ProjectName(st.Tasks.ProjectID); name != "" {
		title += styleMuted().Render("  " + glyphVRule() + "  " + xansi.Truncate(name, inner/2, glyphMore()))
	}
	add := styleButton(m.focus == focusTasks).Render("+ Add New Task")
	gap := inner - lipgloss.Width(title) - lipgloss.Width(add)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(title + strings.Repeat(" ", gap) + add + "\n")
	b.WriteString(styleMuted().Render(strings.Repeat(glyphHRule(), inner)) + "\n")

	body := height - 2
	switch {
	case st.Tasks.Status == dashboard.Loading:
		b.WriteString(m.spinner.View() + " " + styleMuted().Render("Loading tasks ..."))
	case st.Tasks.Status == dashboard.Errored:
		b.WriteString(styleError().Width(inner).Render("Error: " + st.Tasks.Err))
	case len(st.Tasks.Items) == 0:
		b.WriteString(styleMuted().Render("No tasks found for this project."))
	default:
		tableH := body
		var preview string
		if m.showPreview {
			if t, ok := m.selectedTask(); ok {
				preview = renderTaskPreview(t, m, inner)
			}
		}
		if preview != "" {
			ph := lipgloss.Height(preview)
			if ph > body/2 {
				preview = normalizeHeight(preview, body/2)
				ph = body / 2
			}
			tableH = body - ph - 1
		}
		tbl := m.table
		tbl.SetWidth(inner)
		tbl.SetHeight(max(3, tableH))
		b.WriteString(tbl.View())
		if preview != "" {
			b.WriteString("\n" + preview)
		}
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(0, 1).Render(b.String())
}

func renderTaskPreview(t model.Task, m appModel, width int) string {
	lines := []string{
		styleMuted().Render(strings.Repeat(glyphHRule(), width)),
		styleSectionLabel().Render(xansi.Truncate(oneLine(t.Title), width, glyphMore())),
		styleMuted().Render("ETA " + t.ETALabel(m.ctrl.Location()) + "  " + glyphBullet() + "  " + t.AssigneeLabel()),
	}
	if desc := renderMarkdown(t.Description, width); desc != "" {
		lines = append(lines, "", desc)
	}
	return strings.Join(lines, "\n")
}

func normalizeHeight(s string, h int) string {
	if h < 1 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}
