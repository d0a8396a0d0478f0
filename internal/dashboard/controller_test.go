package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"workboard-cli/internal/api"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu sync.Mutex

	companies json.RawMessage
	projects  map[string]json.RawMessage
	tasks     map[string]json.RawMessage
	fail      error

	companyCalls int
	projectCalls map[string]int
	taskCalls    map[string]int
	createdCo    []api.CompanyInput
	createdProj  []api.ProjectInput
	createdTask  []api.TaskInput
	createErr    error
	expired      chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		companies:    json.RawMessage(`[]`),
		projects:     map[string]json.RawMessage{},
		tasks:        map[string]json.RawMessage{},
		projectCalls: map[string]int{},
		taskCalls:    map[string]int{},
		expired:      make(chan struct{}, 1),
	}
}

func (f *fakeBackend) Companies(ctx context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.companyCalls++
	if f.fail != nil {
		return nil, f.fail
	}
	return f.companies, nil
}

func (f *fakeBackend) CreateCompany(ctx context.Context, in api.CompanyInput) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdCo = append(f.createdCo, in)
	return json.RawMessage(`{}`), f.createErr
}

func (f *fakeBackend) Projects(ctx context.Context, companyID string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projectCalls[companyID]++
	if f.fail != nil {
		return nil, f.fail
	}
	if raw, ok := f.projects[companyID]; ok {
		return raw, nil
	}
	return json.RawMessage(`null`), nil
}

func (f *fakeBackend) CreateProject(ctx context.Context, in api.ProjectInput) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdProj = append(f.createdProj, in)
	return json.RawMessage(`{}`), f.createErr
}

func (f *fakeBackend) Tasks(ctx context.Context, projectID string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taskCalls[projectID]++
	if f.fail != nil {
		return nil, f.fail
	}
	if raw, ok := f.tasks[projectID]; ok {
		return raw, nil
	}
	return json.RawMessage(`[]`), nil
}

func (f *fakeBackend) CreateTask(ctx context.Context, in api.TaskInput) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdTask = append(f.createdTask, in)
	return json.RawMessage(`{}`), f.createErr
}

func (f *fakeBackend) SessionExpired() <-chan struct{} { return f.expired }

func newController(b Backend) *Controller {
	return New(b, Options{Location: time.UTC, Logger: zerolog.Nop()})
}

// settle runs cmd and every follow-up command the controller returns.
func settle(t *testing.T, c *Controller, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		cmd = c.Update(msg)
	}
}

func TestRefreshCompanies_AcmeByName(t *testing.T) {
	b := newFakeBackend()
	b.companies = json.RawMessage(`[{"name":"Acme"}]`)
	c := newController(b)

	cmd := c.RefreshCompanies()
	require.Equal(t, Loading, c.Companies.Status)
	settle(t, c, cmd)

	require.Equal(t, Loaded, c.Companies.Status)
	require.Len(t, c.Companies.Items, 1)
	require.Equal(t, "Acme", c.Companies.Items[0].ID)
	require.Equal(t, "Acme", c.Companies.Items[0].Name)
}

func TestRefreshCompanies_ErrorMessage(t *testing.T) {
	b := newFakeBackend()
	b.fail = errors.New("dial tcp: refused")
	c := newController(b)

	settle(t, c, c.RefreshCompanies())
	require.Equal(t, Errored, c.Companies.Status)
	require.Equal(t, "Failed to load companies", c.Companies.Err)

	b.fail = &api.Failure{Status: 500, Message: "db down"}
	settle(t, c, c.RefreshCompanies())
	require.Equal(t, "db down", c.Companies.Err)
}

func TestToggleCompany_FetchesOnceAndReusesCache(t *testing.T) {
	b := newFakeBackend()
	b.projects["c1"] = json.RawMessage(`{"data":[{"id":"p1","projectName":"Roadmap"}]}`)
	c := newController(b)

	settle(t, c, c.ToggleCompany("c1"))
	require.True(t, c.IsExpanded("c1"))
	require.Equal(t, 1, b.projectCalls["c1"])
	require.Equal(t, Loaded, c.Projects["c1"].Status)
	require.Len(t, c.Projects["c1"].Items, 1)

	require.Nil(t, c.ToggleCompany("c1"))
	require.False(t, c.IsExpanded("c1"))

	require.Nil(t, c.ToggleCompany("c1"))
	require.True(t, c.IsExpanded("c1"))
	require.Equal(t, 1, b.projectCalls["c1"])
}

func TestToggleCompany_EmptyListIsCached(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)

	settle(t, c, c.ToggleCompany("c1"))
	require.Empty(t, c.Projects["c1"].Items)
	c.ToggleCompany("c1")
	require.Nil(t, c.ToggleCompany("c1"))
	require.Equal(t, 1, b.projectCalls["c1"])
}

func TestToggleCompany_ErroredSlotRefetches(t *testing.T) {
	b := newFakeBackend()
	b.fail = errors.New("boom")
	c := newController(b)

	settle(t, c, c.ToggleCompany("c1"))
	require.Equal(t, Errored, c.Projects["c1"].Status)
	require.Equal(t, "Failed to load projects", c.Projects["c1"].Err)

	b.fail = nil
	c.ToggleCompany("c1")
	settle(t, c, c.ToggleCompany("c1"))
	require.Equal(t, Loaded, c.Projects["c1"].Status)
	require.Equal(t, 2, b.projectCalls["c1"])
}

func TestToggleCompany_OnlyOneExpanded(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)

	settle(t, c, c.ToggleCompany("c1"))
	settle(t, c, c.ToggleCompany("c2"))
	require.False(t, c.IsExpanded("c1"))
	require.True(t, c.IsExpanded("c2"))
	id, ok := c.ExpandedCompany()
	require.True(t, ok)
	require.Equal(t, "c2", id)
}

func TestToggleCompany_InFlightIsNotDeduplicated(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)

	first := c.ToggleCompany("c1")
	c.ToggleCompany("c1")
	second := c.ToggleCompany("c1")
	require.NotNil(t, second)
	settle(t, c, first)
	settle(t, c, second)
	require.Equal(t, 2, b.projectCalls["c1"])
}

func TestSaveProject_InvalidatesAndRefetchesOnce(t *testing.T) {
	b := newFakeBackend()
	b.projects["c1"] = json.RawMessage(`[{"id":"p1"}]`)
	c := newController(b)

	settle(t, c, c.ToggleCompany("c1"))
	c.ToggleCompany("c1")
	require.Equal(t, 1, b.projectCalls["c1"])

	c.OpenProjectDialog("c1")
	c.ProjectDialog.Name = "  Launch  "
	c.ProjectDialog.Description = " plan "
	c.ProjectDialog.AddMember()
	c.ProjectDialog.SetMember(0, " m1")
	c.ProjectDialog.SetMember(1, "   ")
	b.projects["c1"] = json.RawMessage(`[{"id":"p1"},{"id":"p2"}]`)

	cmd := c.SaveProject()
	require.True(t, c.ProjectDialog.Saving)
	settle(t, c, cmd)

	require.Len(t, b.createdProj, 1)
	require.Equal(t, api.ProjectInput{
		ProjectName:        "Launch",
		ProjectDescription: "plan",
		CompanyID:          "c1",
		Members:            []string{"68d90de934df604dbea76475", " m1"},
	}, b.createdProj[0])

	require.False(t, c.ProjectDialog.Saving)
	require.False(t, c.ProjectDialog.Open)
	require.Equal(t, []string{""}, c.ProjectDialog.Members)
	require.Empty(t, c.ProjectDialog.CompanyID)
	require.True(t, c.IsExpanded("c1"))
	require.Equal(t, 2, b.projectCalls["c1"])
	require.Len(t, c.Projects["c1"].Items, 2)

	// The refreshed list is cached again.
	c.ToggleCompany("c1")
	require.Nil(t, c.ToggleCompany("c1"))
	require.Equal(t, 2, b.projectCalls["c1"])
}

func TestSaveProject_Guards(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)

	c.OpenProjectDialog("c1")
	c.ProjectDialog.Name = "   "
	require.Nil(t, c.SaveProject())
	require.False(t, c.ProjectDialog.Saving)

	c.ProjectDialog.Name = "P"
	c.ProjectDialog.CompanyID = ""
	require.Nil(t, c.SaveProject())
	require.False(t, c.ProjectDialog.Saving)
	require.Empty(t, b.createdProj)
}

func TestSaveProject_FailureKeepsDialogOpen(t *testing.T) {
	b := newFakeBackend()
	b.createErr = errors.New("nope")
	c := newController(b)

	c.OpenProjectDialog("c1")
	c.ProjectDialog.Name = "P"
	settle(t, c, c.SaveProject())

	require.True(t, c.ProjectDialog.Open)
	require.False(t, c.ProjectDialog.Saving)
	require.Equal(t, "P", c.ProjectDialog.Name)
	require.Zero(t, b.projectCalls["c1"])
}

func TestProjectDialogMembers(t *testing.T) {
	c := newController(newFakeBackend())
	d := &c.ProjectDialog
	d.RemoveMember(0)
	require.Equal(t, []string{""}, d.Members)

	d.AddMember()
	d.AddMember()
	d.SetMember(0, "a")
	d.SetMember(1, "b")
	d.SetMember(2, "c")
	d.RemoveMember(1)
	require.Equal(t, []string{"a", "c"}, d.Members)
	d.SetMember(5, "x")
	require.Equal(t, []string{"a", "c"}, d.Members)
}

func TestSaveCompany(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)

	c.OpenCompanyDialog()
	c.CompanyDialog.Name = "  Acme "
	c.CompanyDialog.Description = " tools "
	cmd := c.SaveCompany()
	require.True(t, c.CompanyDialog.Saving)

	// Saves and cancel are ignored while a save is in flight.
	require.Nil(t, c.SaveCompany())
	c.CloseCompanyDialog()
	require.True(t, c.CompanyDialog.Open)

	settle(t, c, cmd)
	require.Equal(t, []api.CompanyInput{{Name: "Acme", Description: "tools", UserID: "68d90de934df604dbea76475"}}, b.createdCo)
	require.False(t, c.CompanyDialog.Open)
	require.False(t, c.CompanyDialog.Saving)
	require.Empty(t, c.CompanyDialog.Name)
	require.Equal(t, 1, b.companyCalls)
}

func TestSaveCompany_EmptyNameMakesNoCall(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)
	c.OpenCompanyDialog()
	c.CompanyDialog.Name = " "
	require.Nil(t, c.SaveCompany())
	require.False(t, c.CompanyDialog.Saving)
	require.Empty(t, b.createdCo)
}

func TestSaveCompany_FailureIsSwallowed(t *testing.T) {
	b := newFakeBackend()
	b.createErr = errors.New("conflict")
	c := newController(b)
	c.OpenCompanyDialog()
	c.CompanyDialog.Name = "Acme"
	settle(t, c, c.SaveCompany())
	require.True(t, c.CompanyDialog.Open)
	require.False(t, c.CompanyDialog.Saving)
	require.Equal(t, "Acme", c.CompanyDialog.Name)
	require.Zero(t, b.companyCalls)
}

func TestSaveTask_TitleOnly(t *testing.T) {
	b := newFakeBackend()
	b.tasks["p1"] = json.RawMessage(`[{"title":"Ship"}]`)
	c := newController(b)

	c.OpenTaskDialog("p1")
	c.TaskDialog.Title = "Ship"
	settle(t, c, c.SaveTask())

	require.Len(t, b.createdTask, 1)
	in := b.createdTask[0]
	require.Nil(t, in.ETA)
	require.Empty(t, in.AssignedTo)
	require.Equal(t, "p1", in.ProjectID)

	require.False(t, c.TaskDialog.Open)
	require.Equal(t, "p1", c.Tasks.ProjectID)
	require.Equal(t, Loaded, c.Tasks.Status)
	require.Len(t, c.Tasks.Items, 1)
	require.Equal(t, 1, b.taskCalls["p1"])
}

func TestSaveTask_FullFields(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)

	c.OpenTaskDialog("p1")
	c.TaskDialog.Title = " Ship "
	c.TaskDialog.Description = " notes "
	c.TaskDialog.AssignedTo = " ada "
	c.TaskDialog.ETA = "2025-03-04T05:06"
	settle(t, c, c.SaveTask())

	in := b.createdTask[0]
	require.Equal(t, "Ship", in.Title)
	require.Equal(t, "notes", in.Description)
	require.Equal(t, "ada", in.AssignedTo)
	require.NotNil(t, in.ETA)
	require.Equal(t, "2025-03-04T05:06:00.000Z", *in.ETA)
}

func TestSaveTask_EmptyTitleMakesNoCall(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)
	c.OpenTaskDialog("p1")
	c.TaskDialog.Title = ""
	require.False(t, c.TaskDialog.CanSave())
	require.Nil(t, c.SaveTask())
	require.False(t, c.TaskDialog.Saving)
	require.Empty(t, b.createdTask)
}

func TestSaveTask_InvalidETA(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)
	c.OpenTaskDialog("p1")
	c.TaskDialog.Title = "Ship"
	c.TaskDialog.ETA = "soon"
	require.Nil(t, c.SaveTask())
	require.Equal(t, "Invalid ETA", c.TaskDialog.Err)
	require.Empty(t, b.createdTask)
}

func TestSaveTask_FailureSurfacesMessage(t *testing.T) {
	b := newFakeBackend()
	b.createErr = &api.Failure{Status: 400, Message: "eta must be in the future"}
	c := newController(b)

	c.OpenTaskDialog("p1")
	c.TaskDialog.Title = "Ship"
	settle(t, c, c.SaveTask())

	require.True(t, c.TaskDialog.Open)
	require.False(t, c.TaskDialog.Saving)
	require.Equal(t, "eta must be in the future", c.TaskDialog.Err)
	require.Zero(t, b.taskCalls["p1"])

	b.createErr = errors.New("socket closed")
	settle(t, c, c.SaveTask())
	require.Equal(t, "Failed to save task", c.TaskDialog.Err)
}

func TestSelectProject(t *testing.T) {
	b := newFakeBackend()
	b.tasks["p1"] = json.RawMessage(`{"title":"only"}`)
	c := newController(b)

	require.Nil(t, c.SelectProject(""))
	require.Equal(t, Idle, c.Tasks.Status)

	settle(t, c, c.SelectProject("p1"))
	require.Equal(t, "p1", c.Tasks.ProjectID)
	require.Len(t, c.Tasks.Items, 1)

	b.fail = errors.New("down")
	settle(t, c, c.SelectProject("p2"))
	require.Equal(t, "p2", c.Tasks.ProjectID)
	require.Equal(t, Errored, c.Tasks.Status)
	require.Equal(t, "Failed to load tasks", c.Tasks.Err)
	require.Empty(t, c.Tasks.Items)
}

func TestSessionExpiry(t *testing.T) {
	b := newFakeBackend()
	c := newController(b)

	wait := c.waitForExpiry()
	b.expired <- struct{}{}
	msg := wait()
	require.IsType(t, SessionExpiredMsg{}, msg)

	rearm := c.Update(msg)
	require.True(t, c.SessionExpired)
	require.NotNil(t, rearm)

	cmd := c.ResumeSession()
	require.False(t, c.SessionExpired)
	settle(t, c, cmd)
	require.Equal(t, 1, b.companyCalls)

	c.Close()
	require.Nil(t, rearm())
}

// A 401 from the real client ends in the login route with a generic list error.
func TestUnauthorizedEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &memTokens{token: "t"}
	client := api.NewClient(api.Config{BaseURL: srv.URL, Tokens: tokens, Logger: zerolog.Nop()})
	c := newController(client)

	wait := c.waitForExpiry()
	settle(t, c, c.RefreshCompanies())
	require.Equal(t, Errored, c.Companies.Status)
	require.Equal(t, "Unauthorized", c.Companies.Err)
	require.Empty(t, tokens.token)

	c.Update(wait())
	require.True(t, c.SessionExpired)
}

type memTokens struct{ token string }

func (m *memTokens) Token() (string, error) { return m.token, nil }
func (m *memTokens) ClearToken() error { m.token = ""; return nil }

func TestParseETA(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got, err := ParseETA("2025-01-02T10:30", loc)
	require.NoError(t, err)
	require.Equal(t, "2025-01-02T08:30:00.000Z", *got)

	got, err = ParseETA("", loc)
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = ParseETA("next week", loc)
	require.Error(t, err)
}
