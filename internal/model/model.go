package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DefaultCreatorMemberID is injected as the first member of every created project
// and as the owner of every created company.
const DefaultCreatorMemberID = "68d90de934df604dbea76475"

type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts the loose shapes the backend returns. The id falls back
// from id to _id, uuid and finally name so every row has a stable key.
// A field only counts as absent when it is missing or null.
func (c *Company) UnmarshalJSON(b []byte) error {
	obj := decodeObject(b)
	*c = Company{
		ID:          firstPresent(obj, "id", "_id", "uuid", "name"),
		Name:        scalarString(obj["name"]),
		Description: scalarString(obj["description"]),
	}
	return nil
}

type Project struct {
	ID                 string   `json:"id"`
	ProjectName        string   `json:"projectName"`
	ProjectDescription string   `json:"projectDescription"`
	CompanyID          string   `json:"companyId"`
	Members            []string `json:"members"`
}

func (p *Project) UnmarshalJSON(b []byte) error {
	obj := decodeObject(b)
	*p = Project{
		ID:                 firstTruthy(obj, "id", "_id"),
		ProjectName:        scalarString(obj["projectName"]),
		ProjectDescription: scalarString(obj["projectDescription"]),
		CompanyID:          scalarString(obj["companyId"]),
		Members:            stringList(obj["members"]),
	}
	return nil
}

// Key is the row key used by the sidebar; projects without an id fall back to their name.
func (p Project) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.ProjectName
}

type Task struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   string     `json:"projectId"`
	ETA         *time.Time `json:"eta"`
	AssignedTo  string     `json:"assignedTo,omitempty"`

	// RawETA keeps the backend value when it could not be parsed as a timestamp.
	RawETA string `json:"-"`
}

func (t *Task) UnmarshalJSON(b []byte) error {
	obj := decodeObject(b)
	*t = Task{
		ID:          firstTruthy(obj, "id", "_id"),
		Title:       scalarString(obj["title"]),
		Description: scalarString(obj["description"]),
		ProjectID:   scalarString(obj["projectId"]),
		AssignedTo:  assigneeString(obj["assignedTo"]),
	}
	if raw := strings.TrimSpace(scalarString(obj["eta"])); raw != "" {
		if ts, ok := parseETA(obj["eta"], raw); ok {
			t.ETA = &ts
		} else {
			t.RawETA = raw
		}
	}
	return nil
}

// Offset-less timestamps are wall-clock local time. A bare date is UTC midnight.
var localETALayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func parseETA(v any, raw string) (time.Time, bool) {
	if ms, ok := v.(float64); ok {
		return time.UnixMilli(int64(ms)), true
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts, true
	}
	for _, layout := range localETALayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return ts, true
		}
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

// ETALabel renders the eta in the given location, "N/A" when unset.
func (t Task) ETALabel(loc *time.Location) string {
	if t.ETA != nil {
		if loc == nil {
			loc = time.Local
		}
		return t.ETA.In(loc).Format("1/2/2006, 3:04:05 PM")
	}
	if t.RawETA != "" {
		return "Invalid Date"
	}
	return "N/A"
}

// AssigneeLabel renders the assignee, "-" when unassigned.
func (t Task) AssigneeLabel() string {
	if strings.TrimSpace(t.AssignedTo) == "" {
		return "-"
	}
	return t.AssignedTo
}

func decodeObject(b []byte) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		return map[string]any{}
	}
	if obj == nil {
		return map[string]any{}
	}
	return obj
}

func firstPresent(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return scalarString(v)
		}
	}
	return ""
}

func firstTruthy(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case nil:
			continue
		case float64:
			if v == 0 {
				continue
			}
		case bool:
			if !v {
				continue
			}
		}
		if s := scalarString(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func stringList(v any) []string {
	xs, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if s := scalarString(x); s != "" {
			out = append(out, s)
			continue
		}
		if m, ok := x.(map[string]any); ok {
			if s := firstTruthy(m, "id", "_id"); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// assigneeString tolerates populated user objects as well as plain ids.
func assigneeString(v any) string {
	if m, ok := v.(map[string]any); ok {
		return firstTruthy(m, "name", "email", "id", "_id")
	}
	return scalarString(v)
}
