package dashboard

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"workboard-cli/internal/api"
	"workboard-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Backend is the subset of *api.Client the dashboard drives.
type Backend interface {
	Companies(ctx context.Context) (json.RawMessage, error)
	CreateCompany(ctx context.Context, in api.CompanyInput) (json.RawMessage, error)
	Projects(ctx context.Context, companyID string) (json.RawMessage, error)
	CreateProject(ctx context.Context, in api.ProjectInput) (json.RawMessage, error)
	Tasks(ctx context.Context, projectID string) (json.RawMessage, error)
	CreateTask(ctx context.Context, in api.TaskInput) (json.RawMessage, error)
	SessionExpired() <-chan struct{}
}

type Options struct {
	CreatorMemberID string
	// Location interprets task ETA input. Defaults to time.Local.
	Location *time.Location
	Logger   zerolog.Logger
}

// Controller owns the dashboard state. Every mutation happens in its methods,
// which must be called from the UI event loop; backend work is returned as tea.Cmd.
type Controller struct {
	State

	backend   Backend
	ctx       context.Context
	cancel    context.CancelFunc
	log       zerolog.Logger
	creatorID string
	loc       *time.Location
}

func New(b Backend, opts Options) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	creator := strings.TrimSpace(opts.CreatorMemberID)
	if creator == "" {
		creator = model.DefaultCreatorMemberID
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	c := &Controller{
		backend:   b,
		ctx:       ctx,
		cancel:    cancel,
		log:       opts.Logger.With().Str("component", "dashboard").Logger(),
		creatorID: creator,
		loc:       loc,
	}
	c.Projects = map[string]*ProjectSlot{}
	c.ProjectDialog.Members = []string{""}
	return c
}

// Init loads the company list and starts listening for session expiry.
func (c *Controller) Init() tea.Cmd {
	return tea.Batch(c.RefreshCompanies(), c.waitForExpiry())
}

// Close aborts in-flight requests.
func (c *Controller) Close() {
	c.cancel()
}

// CreatorID is the member id added to every new project and company.
func (c *Controller) CreatorID() string { return c.creatorID }

func (c *Controller) Location() *time.Location { return c.loc }

// Messages produced by the controller's commands.
type (
	CompaniesLoadedMsg struct {
		Items []model.Company
		Err   error
	}
	ProjectsLoadedMsg struct {
		CompanyID string
		Items     []model.Project
		Err       error
	}
	TasksLoadedMsg struct {
		ProjectID string
		Items     []model.Task
		Err       error
	}
	CompanySavedMsg struct {
		Err error
	}
	ProjectSavedMsg struct {
		CompanyID string
		Err       error
	}
	TaskSavedMsg struct {
		ProjectID string
		Err       error
	}
	SessionExpiredMsg struct{}
)

func (c *Controller) RefreshCompanies() tea.Cmd {
	c.Companies.Status = Loading
	c.Companies.Err = ""
	ctx, b := c.ctx, c.backend
	return func() tea.Msg {
		raw, err := b.Companies(ctx)
		if err != nil {
			return CompaniesLoadedMsg{Err: err}
		}
		return CompaniesLoadedMsg{Items: NormalizeCompanies(raw)}
	}
}

// ToggleCompany collapses the expanded company or expands another one,
// fetching its projects unless a loaded list is cached.
func (c *Controller) ToggleCompany(companyID string) tea.Cmd {
	if c.IsExpanded(companyID) {
		c.expandedID, c.hasExpanded = "", false
		return nil
	}
	c.expandedID, c.hasExpanded = companyID, true
	if slot, ok := c.Projects[companyID]; ok && slot != nil && slot.Status == Loaded {
		return nil
	}
	return c.fetchProjects(companyID)
}

func (c *Controller) fetchProjects(companyID string) tea.Cmd {
	slot, ok := c.Projects[companyID]
	if !ok || slot == nil {
		slot = &ProjectSlot{}
		c.Projects[companyID] = slot
	}
	slot.Status = Loading
	slot.Err = ""
	ctx, b := c.ctx, c.backend
	return func() tea.Msg {
		raw, err := b.Projects(ctx, companyID)
		if err != nil {
			return ProjectsLoadedMsg{CompanyID: companyID, Err: err}
		}
		return ProjectsLoadedMsg{CompanyID: companyID, Items: NormalizeProjects(raw)}
	}
}

// SelectProject makes projectID active and reloads its tasks. An empty id is ignored.
func (c *Controller) SelectProject(projectID string) tea.Cmd {
	if projectID == "" {
		return nil
	}
	c.Tasks.ProjectID = projectID
	c.Tasks.Status = Loading
	c.Tasks.Err = ""
	ctx, b := c.ctx, c.backend
	return func() tea.Msg {
		raw, err := b.Tasks(ctx, projectID)
		if err != nil {
			return TasksLoadedMsg{ProjectID: projectID, Err: err}
		}
		return TasksLoadedMsg{ProjectID: projectID, Items: NormalizeTasks(raw)}
	}
}

func (c *Controller) OpenCompanyDialog() {
	c.CompanyDialog.Open = true
}

func (c *Controller) CloseCompanyDialog() {
	if c.CompanyDialog.Saving {
		return
	}
	c.CompanyDialog.Open = false
}

func (c *Controller) OpenProjectDialog(companyID string) {
	c.ProjectDialog.CompanyID = companyID
	if len(c.ProjectDialog.Members) == 0 {
		c.ProjectDialog.Members = []string{""}
	}
	c.ProjectDialog.Open = true
}

func (c *Controller) CloseProjectDialog() {
	if c.ProjectDialog.Saving {
		return
	}
	c.ProjectDialog.Open = false
}

// OpenTaskDialog starts a fresh task form targeting projectID.
func (c *Controller) OpenTaskDialog(projectID string) {
	c.TaskDialog = TaskDialog{Open: true, ProjectID: projectID}
}

func (c *Controller) CloseTaskDialog() {
	if c.TaskDialog.Saving {
		return
	}
	c.TaskDialog.Open = false
}

func (c *Controller) SaveCompany() tea.Cmd {
	d := &c.CompanyDialog
	if d.Saving {
		return nil
	}
	name := trimmed(d.Name)
	if name == "" {
		c.log.Warn().Msg("Company name is required")
		return nil
	}
	d.Saving = true
	in := api.CompanyInput{
		Name:        name,
		Description: trimmed(d.Description),
		UserID:      c.creatorID,
	}
	ctx, b := c.ctx, c.backend
	return func() tea.Msg {
		_, err := b.CreateCompany(ctx, in)
		return CompanySavedMsg{Err: err}
	}
}

func (c *Controller) SaveProject() tea.Cmd {
	d := &c.ProjectDialog
	if d.Saving {
		return nil
	}
	name := trimmed(d.Name)
	if name == "" {
		c.log.Warn().Msg("Project name is required")
		return nil
	}
	if d.CompanyID == "" {
		c.log.Warn().Msg("Please select a company")
		return nil
	}
	members := ProjectMembers(c.creatorID, d.Members)
	d.Saving = true
	in := api.ProjectInput{
		ProjectName:        name,
		ProjectDescription: trimmed(d.Description),
		CompanyID:          d.CompanyID,
		Members:            members,
	}
	ctx, b := c.ctx, c.backend
	return func() tea.Msg {
		_, err := b.CreateProject(ctx, in)
		return ProjectSavedMsg{CompanyID: in.CompanyID, Err: err}
	}
}

// ProjectMembers puts the creator first and drops blank entries. Kept entries are sent untrimmed.
func ProjectMembers(creatorID string, extra []string) []string {
	members := []string{creatorID}
	for _, m := range extra {
		if trimmed(m) != "" {
			members = append(members, m)
		}
	}
	return members
}

const invalidETA = "Invalid ETA"

func (c *Controller) SaveTask() tea.Cmd {
	d := &c.TaskDialog
	if d.Saving {
		return nil
	}
	title := trimmed(d.Title)
	if title == "" {
		c.log.Warn().Msg("Task title is required")
		return nil
	}
	eta, err := ParseETA(d.ETA, c.loc)
	if err != nil {
		c.log.Warn().Err(err).Str("eta", d.ETA).Msg("Task eta is invalid")
		d.Err = invalidETA
		return nil
	}
	in := api.TaskInput{
		Title:       title,
		Description: trimmed(d.Description),
		ProjectID:   d.ProjectID,
		ETA:         eta,
		AssignedTo:  trimmed(d.AssignedTo),
	}
	d.Saving = true
	d.Err = ""
	ctx, b := c.ctx, c.backend
	return func() tea.Msg {
		_, err := b.CreateTask(ctx, in)
		return TaskSavedMsg{ProjectID: in.ProjectID, Err: err}
	}
}

// ResumeSession leaves the login route after a new token was stored.
func (c *Controller) ResumeSession() tea.Cmd {
	c.SessionExpired = false
	return c.RefreshCompanies()
}

// Update applies the results of the controller's own commands. Other messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case CompaniesLoadedMsg:
		if msg.Err != nil {
			c.Companies.Status = Errored
			c.Companies.Err = api.MessageOf(msg.Err, "Failed to load companies")
			return nil
		}
		c.Companies.Status = Loaded
		c.Companies.Items = msg.Items
		return nil

	case ProjectsLoadedMsg:
		slot, ok := c.Projects[msg.CompanyID]
		if !ok || slot == nil {
			slot = &ProjectSlot{}
			c.Projects[msg.CompanyID] = slot
		}
		if msg.Err != nil {
			slot.Status = Errored
			slot.Err = api.MessageOf(msg.Err, "Failed to load projects")
			return nil
		}
		slot.Status = Loaded
		slot.Items = msg.Items
		return nil

	case TasksLoadedMsg:
		if msg.Err != nil {
			c.Tasks.Status = Errored
			c.Tasks.Err = api.MessageOf(msg.Err, "Failed to load tasks")
			c.Tasks.Items = []model.Task{}
			return nil
		}
		c.Tasks.Status = Loaded
		c.Tasks.Items = msg.Items
		return nil

	case CompanySavedMsg:
		c.CompanyDialog.Saving = false
		if msg.Err != nil {
			c.log.Warn().Err(msg.Err).Msg("create company failed, dialog kept open")
			return nil
		}
		c.CompanyDialog.Name = ""
		c.CompanyDialog.Description = ""
		c.CompanyDialog.Open = false
		return c.RefreshCompanies()

	case ProjectSavedMsg:
		c.ProjectDialog.Saving = false
		if msg.Err != nil {
			c.log.Warn().Err(msg.Err).Str("company_id", msg.CompanyID).Msg("create project failed, dialog kept open")
			return nil
		}
		c.ProjectDialog.reset()
		c.ProjectDialog.Open = false
		delete(c.Projects, msg.CompanyID)
		c.expandedID, c.hasExpanded = msg.CompanyID, true
		return c.fetchProjects(msg.CompanyID)

	case TaskSavedMsg:
		c.TaskDialog.Saving = false
		if msg.Err != nil {
			c.TaskDialog.Err = api.MessageOf(msg.Err, "Failed to save task")
			return nil
		}
		c.TaskDialog = TaskDialog{}
		return c.SelectProject(msg.ProjectID)

	case SessionExpiredMsg:
		c.SessionExpired = true
		return c.waitForExpiry()
	}
	return nil
}

func (c *Controller) waitForExpiry() tea.Cmd {
	ch := c.backend.SessionExpired()
	if ch == nil {
		return nil
	}
	ctx := c.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return SessionExpiredMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// ParseETA converts a local "YYYY-MM-DDTHH:MM" input into a UTC ISO timestamp.
// Empty input yields nil.
func ParseETA(s string, loc *time.Location) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	var (
		ts  time.Time
		err error
	)
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02T15:04:05", "2006-01-02"} {
		ts, err = time.ParseInLocation(layout, s, loc)
		if err == nil {
			break
		}
	}
	if err != nil {
		ts, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, err
		}
	}
	out := ts.UTC().Format("2006-01-02T15:04:05.000Z")
	return &out, nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
