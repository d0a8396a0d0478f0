package tui

import (
	"strings"

	"github.com/atotto/clipboard"
)

// clipboardWriter is swapped out in tests.
var clipboardWriter = func(s string) error {
	return clipboard.WriteAll(strings.ReplaceAll(s, "\r\n", "\n"))
}

// copyTarget is the id under focus: the highlighted task, or the sidebar row.
func (m appModel) copyTarget() (label, id string) {
	if m.focus == focusTasks {
		if t, ok := m.selectedTask(); ok && t.ID != "" {
			return "task", t.ID
		}
		return "", ""
	}
	row, ok := m.cursorRow()
	if !ok {
		return "", ""
	}
	if row.kind == rowProject {
		return "project", row.projectID
	}
	return "company", row.companyID
}
