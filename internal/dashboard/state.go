package dashboard

import "workboard-cli/internal/model"

type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Errored
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "idle"
	}
}

type CompanyList struct {
	Status Status
	Items  []model.Company
	Err    string
}

// ProjectSlot is the cached project list of one company.
type ProjectSlot struct {
	Status Status
	Items  []model.Project
	Err    string
}

// TaskSlot holds the tasks of the active project only.
type TaskSlot struct {
	ProjectID string
	Status    Status
	Items     []model.Task
	Err       string
}

type CompanyDialog struct {
	Open        bool
	Name        string
	Description string
	Saving      bool
}

type ProjectDialog struct {
	Open        bool
	CompanyID   string
	Name        string
	Description string
	// Members always has at least one row.
	Members []string
	Saving  bool
}

func (d *ProjectDialog) reset() {
	d.Name = ""
	d.Description = ""
	d.Members = []string{""}
	d.CompanyID = ""
}

// AddMember appends an empty member row.
func (d *ProjectDialog) AddMember() {
	d.Members = append(d.Members, "")
}

// RemoveMember drops row i unless it is the last remaining row.
func (d *ProjectDialog) RemoveMember(i int) {
	if len(d.Members) <= 1 || i < 0 || i >= len(d.Members) {
		return
	}
	d.Members = append(d.Members[:i:i], d.Members[i+1:]...)
}

func (d *ProjectDialog) SetMember(i int, v string) {
	if i < 0 || i >= len(d.Members) {
		return
	}
	d.Members[i] = v
}

type TaskDialog struct {
	Open        bool
	ProjectID   string
	Title       string
	Description string
	AssignedTo  string
	// ETA is the raw "YYYY-MM-DDTHH:MM" input in local time; empty means none.
	ETA    string
	Saving bool
	Err    string
}

// CanSave mirrors the disabled state of the task dialog's save control.
func (d TaskDialog) CanSave() bool {
	return !d.Saving && trimmed(d.Title) != ""
}

// State is everything the dashboard renders from.
type State struct {
	Companies CompanyList

	// Projects is keyed by company id. A missing key means "never fetched or invalidated".
	Projects map[string]*ProjectSlot

	Tasks TaskSlot

	CompanyDialog CompanyDialog
	ProjectDialog ProjectDialog
	TaskDialog    TaskDialog

	// SessionExpired routes the presentation to the login view.
	SessionExpired bool

	expandedID  string
	hasExpanded bool
}

// ExpandedCompany returns the id of the expanded company, if any.
func (s *State) ExpandedCompany() (string, bool) {
	return s.expandedID, s.hasExpanded
}

func (s *State) IsExpanded(companyID string) bool {
	return s.hasExpanded && s.expandedID == companyID
}

// CompanyName resolves a company id against the loaded list.
func (s *State) CompanyName(companyID string) string {
	for _, c := range s.Companies.Items {
		if c.ID == companyID {
			return c.Name
		}
	}
	return ""
}

// ProjectName resolves a project id against every cached project list.
func (s *State) ProjectName(projectID string) string {
	for _, slot := range s.Projects {
		if slot == nil {
			continue
		}
		for _, p := range slot.Items {
			if p.ID == projectID {
				return p.ProjectName
			}
		}
	}
	return ""
}
