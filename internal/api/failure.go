package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized is matched (errors.Is) by failures caused by an HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// Failure is returned for every unsuccessful backend call.
//
// Payload is the backend's error body (when it was a JSON object) with
// success=false and error=true filled in underneath it.
type Failure struct {
	Status  int
	Payload map[string]any
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f == nil {
		return "<nil>"
	}
	if f.Status > 0 {
		return fmt.Sprintf("backend %d: %s", f.Status, f.Message)
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

// Unauthorized reports whether the backend rejected the session.
func (f *Failure) Unauthorized() bool {
	return f != nil && f.Status == http.StatusUnauthorized
}

// AsFailure unwraps err to a *Failure.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// MessageOf returns the human message carried by err, or fallback when there is none.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if f, ok := AsFailure(err); ok && strings.TrimSpace(f.Message) != "" {
		return f.Message
	}
	return fallback
}

func statusFailure(status int, body []byte) *Failure {
	payload := map[string]any{"success": false, "error": true}
	var obj map[string]any
	if len(body) > 0 && json.Unmarshal(body, &obj) == nil {
		for k, v := range obj {
			payload[k] = v
		}
	}

	msg := ""
	if s, ok := payload["message"].(string); ok {
		msg = strings.TrimSpace(s)
	}
	if msg == "" {
		if s, ok := payload["error"].(string); ok {
			msg = strings.TrimSpace(s)
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("status %d", status)
	}

	f := &Failure{Status: status, Payload: payload, Message: msg}
	if status == http.StatusUnauthorized {
		f.Err = ErrUnauthorized
	}
	return f
}

func transportFailure(err error) *Failure {
	return &Failure{
		Payload: map[string]any{"success": false, "error": true},
		Message: err.Error(),
		Err:     err,
	}
}
