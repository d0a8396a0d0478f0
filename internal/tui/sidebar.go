package tui

import (
	"strings"

	"workboard-cli/internal/dashboard"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type sidebarRowKind int

const (
	rowCompany sidebarRowKind = iota
	rowProject
	rowNote
)

type sidebarRow struct {
	kind      sidebarRowKind
	companyID string
	// projectID is the project's id, "" when the backend gave none.
	projectID string
	key       string
	label     string
	hint      string
	isErr     bool
}

func (r sidebarRow) selectable() bool {
	return r.kind != rowNote
}

// flattenSidebar turns the company tree into display rows. Notes (loading, empty and error
// messages) are not selectable.
func flattenSidebar(st *dashboard.State) []sidebarRow {
	switch st.Companies.Status {
	case dashboard.Loading:
		return []sidebarRow{{kind: rowNote, label: "Loading companies..."}}
	case dashboard.Errored:
		return []sidebarRow{{kind: rowNote, label: "Error: " + st.Companies.Err, isErr: true}}
	}
	if len(st.Companies.Items) == 0 {
		return []sidebarRow{{kind: rowNote, label: "No companies found."}}
	}

	rows := make([]sidebarRow, 0, len(st.Companies.Items))
	for _, c := range st.Companies.Items {
		hint := c.Description
		if strings.TrimSpace(hint) == "" {
			hint = c.Name
		}
		rows = append(rows, sidebarRow{kind: rowCompany, companyID: c.ID, label: c.Name, hint: hint})
		if !st.IsExpanded(c.ID) {
			continue
		}
		slot := st.Projects[c.ID]
		switch {
		case slot == nil || slot.Status == dashboard.Loading:
			rows = append(rows, sidebarRow{kind: rowNote, companyID: c.ID, label: "Loading projects..."})
		case slot.Status == dashboard.Errored:
			rows = append(rows, sidebarRow{kind: rowNote, companyID: c.ID, label: "Error: " + slot.Err, isErr: true})
		case len(slot.Items) == 0:
			rows = append(rows, sidebarRow{kind: rowNote, companyID: c.ID, label: "No projects found."})
		default:
			for _, p := range slot.Items {
				rows = append(rows, sidebarRow{
					kind:      rowProject,
					companyID: c.ID,
					projectID: p.ID,
					key:       p.Key(),
					label:     p.ProjectName,
					hint:      p.ProjectDescription,
				})
			}
		}
	}
	return rows
}

// rowKey identifies a row across re-flattening so the cursor survives reloads.
func rowKey(r sidebarRow) string {
	switch r.kind {
	case rowCompany:
		return "c:" + r.companyID
	case rowProject:
		return "p:" + r.companyID + "/" + r.key
	default:
		return ""
	}
}

func nextSelectable(rows []sidebarRow, from, dir int) int {
	for i := from + dir; i >= 0 && i < len(rows); i += dir {
		if rows[i].selectable() {
			return i
		}
	}
	return from
}

func firstSelectable(rows []sidebarRow) int {
	for i, r := range rows {
		if r.selectable() {
			return i
		}
	}
	return -1
}

func (m appModel) renderSidebar(width, height int) string {
	st := &m.ctrl.State
	inner := width - 2
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder

	create := styleButton(false).Render("+ Create")
	home := styleHeading().Render("Home")
	gap := inner - lipgloss.Width(home) - lipgloss.Width(create)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(home + strings.Repeat(" ", gap) + create + "\n\n")

	refresh := glyphRefresh()
	if st.Companies.Status == dashboard.Loading {
		refresh = m.spinner.View()
	}
	label := styleSectionLabel().Render("Company")
	gap = inner - lipgloss.Width(label) - lipgloss.Width(refresh)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(label + strings.Repeat(" ", gap) + refresh + "\n")

	rows := flattenSidebar(st)
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		lines = append(lines, m.renderSidebarRow(r, i == m.cursor && m.focus == focusSidebar, inner))
	}

	// Keep the cursor row visible.
	avail := height - 4
	if avail < 1 {
		avail = 1
	}
	start := 0
	if m.cursor >= avail {
		start = m.cursor - avail + 1
	}
	end := start + avail
	if end > len(lines) {
		end = len(lines)
	}
	if start < end {
		b.WriteString(strings.Join(lines[start:end], "\n"))
	}

	return lipgloss.NewStyle().Width(width).Height(height).Padding(0, 1).Render(b.String())
}

func (m appModel) renderSidebarRow(r sidebarRow, selected bool, width int) string {
	st := &m.ctrl.State
	var line string
	switch r.kind {
	case rowNote:
		text := "  " + r.label
		if r.companyID != "" {
			text = "    " + r.label
		}
		text = xansi.Truncate(text, width, glyphMore())
		if r.isErr {
			return styleError().Render(text)
		}
		return styleMuted().Render(text)

	case rowCompany:
		chev := glyphChevronCollapsed()
		if st.IsExpanded(r.companyID) {
			chev = glyphChevronExpanded()
		}
		line = chev + " " + r.label
		line = xansi.Truncate(line, width-2, glyphMore())
		line = padRight(line, width-2) + " +"

	case rowProject:
		marker := " "
		if r.projectID != "" && st.Tasks.ProjectID == r.projectID {
			marker = glyphBullet()
		}
		line = "  " + marker + " " + r.label
		line = xansi.Truncate(line, width-2, glyphMore())
		line = padRight(line, width-2) + " +"
		if marker != " " && !selected {
			return lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(line)
		}
	}
	if selected {
		return styleSelectedRow().Render(line)
	}
	return line
}

func padRight(s string, w int) string {
	if n := xansi.StringWidth(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
