package tui

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type externalEditorDoneMsg struct {
	err error
}

func externalEditorName() string {
	if v := strings.TrimSpace(os.Getenv("VISUAL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("EDITOR")); v != "" {
		return v
	}
	return "vi"
}

// descriptionArea returns the description field of the open dialog.
func (m *appModel) descriptionArea() *textarea.Model {
	switch m.modal {
	case modalNewCompany:
		return &m.companyForm.desc
	case modalNewProject:
		return &m.projectForm.desc
	case modalNewTask:
		return &m.taskForm.desc
	}
	return nil
}

func (m *appModel) openExternalEditor() (tea.Cmd, error) {
	area := m.descriptionArea()
	if area == nil {
		return nil, nil
	}
	f, err := os.CreateTemp("", "workboard-desc-*.md")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(area.Value()); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	_ = f.Close()

	m.editorPath = path
	m.editorBefore = area.Value()

	return tea.ExecProcess(editorCommand(externalEditorName(), path), func(err error) tea.Msg {
		return externalEditorDoneMsg{err: err}
	}), nil
}

func (m *appModel) applyExternalEditorResult(msg externalEditorDoneMsg) {
	path := m.editorPath
	before := m.editorBefore
	m.editorPath = ""
	m.editorBefore = ""
	if strings.TrimSpace(path) == "" {
		return
	}
	defer func() { _ = os.Remove(path) }()

	if msg.err != nil {
		m.flash = "Editor failed: " + msg.err.Error()
		return
	}
	b, err := os.ReadFile(path)
	if err != nil {
		m.flash = "Editor read failed: " + err.Error()
		return
	}
	// The dialog may have been closed while the editor ran.
	area := m.descriptionArea()
	if area == nil {
		return
	}
	after := strings.TrimRight(string(b), "\n")
	area.SetValue(after)
	m.applyForm()

	if strings.TrimSpace(after) == strings.TrimSpace(before) {
		m.flash = fmt.Sprintf("No changes from %s", externalEditorName())
		return
	}
	m.flash = fmt.Sprintf("Updated from %s (ctrl+s to save)", externalEditorName())
}

// applyForm copies the open form into its dialog.
func (m *appModel) applyForm() {
	switch m.modal {
	case modalNewCompany:
		m.companyForm.apply(&m.ctrl.CompanyDialog)
	case modalNewProject:
		m.projectForm.apply(&m.ctrl.ProjectDialog)
	case modalNewTask:
		m.taskForm.apply(&m.ctrl.TaskDialog)
	}
}

// editorCommand runs editor through the shell so values like "code --wait" work.
func editorCommand(editor, path string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		args := strings.Fields(editor)
		return exec.Command(args[0], append(args[1:], path)...)
	}
	return exec.Command("sh", "-c", editor+` "$@"`, editor, path)
}
