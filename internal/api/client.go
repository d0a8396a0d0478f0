package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// TokenStore holds the bearer token between runs.
type TokenStore interface {
	Token() (string, error)
	ClearToken() error
}

type Config struct {
	BaseURL string
	Timeout time.Duration

	// GetRetries is the number of extra attempts for GETs failing at the transport level.
	GetRetries int

	BreakerFailures int
	BreakerCooldown time.Duration

	HTTPClient *http.Client
	Tokens     TokenStore
	Logger     zerolog.Logger
}

// Client is the single point through which every backend call goes.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	log     zerolog.Logger
	retries int
	breaker *gobreaker.CircuitBreaker
	expired chan struct{}
}

// Request describes one backend call. Endpoint is appended to the base URL
// (or to BaseURL when set).
type Request struct {
	Endpoint string
	Method   string
	Body     any
	Query    url.Values
	Headers  map[string]string

	// Token overrides the stored token for this call.
	Token string
	// NoAuth suppresses the Authorization header.
	NoAuth bool
	// BaseURL replaces the configured base URL for this call.
	BaseURL string
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	retries := cfg.GetRetries
	if retries < 0 {
		retries = 0
	}
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		http:    hc,
		tokens:  cfg.Tokens,
		log:     cfg.Logger.With().Str("component", "api").Logger(),
		retries: retries,
		expired: make(chan struct{}, 1),
	}
	c.breaker = newBreaker(cfg.BreakerFailures, cfg.BreakerCooldown, c.log)
	return c
}

// SessionExpired delivers one value per burst of 401 responses.
func (c *Client) SessionExpired() <-chan struct{} {
	return c.expired
}

type response struct {
	status int
	body   []byte
}

// Do performs req and returns the decoded-but-raw JSON body of a 2xx response.
// Any other outcome is a *Failure.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	target, err := c.resolveURL(req)
	if err != nil {
		return nil, c.fail(method, req.Endpoint, "", transportFailure(err))
	}

	var payload []byte
	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, c.fail(method, req.Endpoint, "", transportFailure(fmt.Errorf("encode body: %w", err)))
		}
	}

	token := strings.TrimSpace(req.Token)
	if token == "" && !req.NoAuth && c.tokens != nil {
		if t, err := c.tokens.Token(); err == nil {
			token = strings.TrimSpace(t)
		} else {
			c.log.Warn().Err(err).Msg("read session token")
		}
	}

	requestID := uuid.NewString()
	started := time.Now()
	resp, err := c.execute(ctx, method, func() (*response, error) {
		return c.roundTrip(ctx, method, target, payload, token, requestID, req)
	})

	ev := c.log.Debug().
		Str("method", method).
		Str("path", req.Endpoint).
		Str("request_id", requestID).
		Dur("took", time.Since(started))
	if resp != nil {
		ev = ev.Int("status", resp.status)
	}
	ev.Msg("backend request")

	if err != nil {
		f, ok := AsFailure(err)
		if !ok {
			f = transportFailure(err)
		}
		if f.Unauthorized() {
			c.expireSession()
		}
		return nil, c.fail(method, req.Endpoint, requestID, f)
	}

	body := bytes.TrimSpace(resp.body)
	if len(body) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		f := &Failure{
			Status:  resp.status,
			Payload: map[string]any{"success": false, "error": true},
			Message: "response is not valid JSON",
		}
		return nil, c.fail(method, req.Endpoint, requestID, f)
	}
	return json.RawMessage(body), nil
}

func (c *Client) resolveURL(req Request) (string, error) {
	base := c.baseURL
	if strings.TrimSpace(req.BaseURL) != "" {
		base = strings.TrimRight(strings.TrimSpace(req.BaseURL), "/")
	}
	if base == "" {
		return "", errors.New("missing base url")
	}
	u, err := url.Parse(base + req.Endpoint)
	if err != nil {
		return "", err
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte, token, requestID string, req Request) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	hr, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, transportFailure(err)
	}
	hr.Header.Set("ngrok-skip-browser-warning", "true")
	hr.Header.Set("Accept", "application/json")
	hr.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		hr.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Headers {
		hr.Header.Set(k, v)
	}
	if !req.NoAuth && token != "" {
		hr.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(hr)
	if err != nil {
		return nil, transportFailure(err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return &response{status: res.StatusCode}, transportFailure(fmt.Errorf("read body: %w", err))
	}
	out := &response{status: res.StatusCode, body: b}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return out, statusFailure(res.StatusCode, b)
	}
	return out, nil
}

func (c *Client) expireSession() {
	if c.tokens != nil {
		if err := c.tokens.ClearToken(); err != nil {
			c.log.Warn().Err(err).Msg("clear session token")
		}
	}
	select {
	case c.expired <- struct{}{}:
	default:
	}
}

func (c *Client) fail(method, endpoint, requestID string, f *Failure) error {
	c.log.Error().
		Err(f).
		Str("method", method).
		Str("path", endpoint).
		Str("request_id", requestID).
		Int("status", f.Status).
		Msg("backend endpoint error")
	return f
}
