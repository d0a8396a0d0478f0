package dashboard

import (
	"encoding/json"
	"strings"

	"workboard-cli/internal/model"
)

// NormalizeCompanies accepts an array or a {data: array} envelope. Anything else is an empty list.
func NormalizeCompanies(raw json.RawMessage) []model.Company {
	items, ok := arrayOf(raw)
	if !ok {
		items, ok = dataArrayOf(raw)
	}
	if !ok {
		return []model.Company{}
	}
	out := make([]model.Company, 0, len(items))
	for _, it := range items {
		var c model.Company
		_ = json.Unmarshal(it, &c)
		out = append(out, c)
	}
	return out
}

// NormalizeProjects accepts an array, a {data: array} envelope or a single
// object, which becomes a one-element list. Null is an empty list.
func NormalizeProjects(raw json.RawMessage) []model.Project {
	items, ok := arrayOf(raw)
	if !ok {
		items, ok = dataArrayOf(raw)
	}
	if !ok {
		if !truthy(raw) {
			return []model.Project{}
		}
		items = []json.RawMessage{raw}
	}
	out := make([]model.Project, 0, len(items))
	for _, it := range items {
		var p model.Project
		_ = json.Unmarshal(it, &p)
		out = append(out, p)
	}
	return out
}

// NormalizeTasks accepts an array or a single object. Null and falsy values are an empty list.
func NormalizeTasks(raw json.RawMessage) []model.Task {
	items, ok := arrayOf(raw)
	if !ok {
		if !truthy(raw) {
			return []model.Task{}
		}
		items = []json.RawMessage{raw}
	}
	out := make([]model.Task, 0, len(items))
	for _, it := range items {
		var t model.Task
		_ = json.Unmarshal(it, &t)
		out = append(out, t)
	}
	return out
}

func arrayOf(raw json.RawMessage) ([]json.RawMessage, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

func dataArrayOf(raw json.RawMessage) ([]json.RawMessage, bool) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil || env == nil {
		return nil, false
	}
	return arrayOf(env["data"])
}

func truthy(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
