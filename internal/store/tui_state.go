package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	tuiStateFileName = "tui_state.json"
	tuiStateVersion  = 1
)

// TUIState is what the dashboard restores on the next launch. Loading is best
// effort: a missing, corrupt or newer-format file yields the zero state.
type TUIState struct {
	Version int `json:"version"`

	ExpandedCompanyID string `json:"expandedCompanyId,omitempty"`
	ActiveProjectID   string `json:"activeProjectId,omitempty"`
	ShowPreview       bool   `json:"showPreview,omitempty"`
}

func tuiStatePath(dir string) string {
	return filepath.Join(dir, tuiStateFileName)
}

func LoadTUIState(dir string) (*TUIState, error) {
	fresh := &TUIState{Version: tuiStateVersion}
	if strings.TrimSpace(dir) == "" {
		return fresh, nil
	}
	b, err := os.ReadFile(tuiStatePath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}
	var st TUIState
	if json.Unmarshal(b, &st) != nil || st.Version > tuiStateVersion {
		return fresh, nil
	}
	st.Version = tuiStateVersion
	st.ExpandedCompanyID = strings.TrimSpace(st.ExpandedCompanyID)
	st.ActiveProjectID = strings.TrimSpace(st.ActiveProjectID)
	return &st, nil
}

func SaveTUIState(dir string, st *TUIState) error {
	if st == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	st.Version = tuiStateVersion
	return writeJSONAtomic(tuiStatePath(dir), st, 0o644)
}
