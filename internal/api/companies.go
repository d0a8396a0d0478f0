package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type CompanyInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
}

// Companies lists every company visible to the session.
func (c *Client) Companies(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.Do(ctx, Request{Endpoint: companyEndpoint, Method: http.MethodGet})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return raw, nil
}

func (c *Client) CreateCompany(ctx context.Context, in CompanyInput) (json.RawMessage, error) {
	raw, err := c.Do(ctx, Request{Endpoint: companyEndpoint, Method: http.MethodPost, Body: in})
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return raw, nil
}
