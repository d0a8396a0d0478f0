package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   string `json:"projectId"`
	// ETA is an ISO-8601 UTC timestamp; nil is sent as an explicit null.
	ETA        *string `json:"eta"`
	AssignedTo string  `json:"assignedTo,omitempty"`
}

var emptyList = json.RawMessage("[]")

// Tasks returns the data field of the project's task response, or an empty
// array when the field is missing or empty.
func (c *Client) Tasks(ctx context.Context, projectID string) (json.RawMessage, error) {
	raw, err := c.Do(ctx, Request{Endpoint: byID(taskEndpoint, projectID), Method: http.MethodGet})
	if err != nil {
		return nil, fmt.Errorf("list tasks for project %q: %w", projectID, err)
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(raw, &env) != nil || isFalsy(env.Data) {
		return emptyList, nil
	}
	return env.Data, nil
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (json.RawMessage, error) {
	raw, err := c.Do(ctx, Request{Endpoint: taskEndpoint, Method: http.MethodPost, Body: in})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return raw, nil
}

func isFalsy(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return true
	}
	return false
}
