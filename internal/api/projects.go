package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type ProjectInput struct {
	ProjectName        string   `json:"projectName"`
	ProjectDescription string   `json:"projectDescription"`
	CompanyID          string   `json:"companyId"`
	Members            []string `json:"members"`
}

// Projects returns the projects of one company exactly as the backend sent them:
// an array, an envelope, a single object or null.
func (c *Client) Projects(ctx context.Context, companyID string) (json.RawMessage, error) {
	raw, err := c.Do(ctx, Request{Endpoint: byID(projectEndpoint, companyID), Method: http.MethodGet})
	if err != nil {
		return nil, fmt.Errorf("list projects for company %q: %w", companyID, err)
	}
	return raw, nil
}

func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (json.RawMessage, error) {
	if in.Members == nil {
		in.Members = []string{}
	}
	raw, err := c.Do(ctx, Request{Endpoint: projectEndpoint, Method: http.MethodPost, Body: in})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return raw, nil
}
