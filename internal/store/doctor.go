package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Path    string           `json:"path,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

var ErrDoctorIssuesFound = errors.New("doctor found issues")

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

func (r *DoctorReport) Add(level DoctorIssueLevel, code, msg, path string) {
	r.Issues = append(r.Issues, DoctorIssue{Level: level, Code: code, Message: msg, Path: path})
}

// Doctor checks the local half of a setup: the config directory, config.json,
// the resolved settings and the stored token. It never contacts the backend.
func Doctor(ctx context.Context, dir string, cfg Config, now time.Time) DoctorReport {
	report := DoctorReport{Issues: []DoctorIssue{}}

	if fi, err := os.Stat(dir); err != nil {
		report.Add(DoctorIssueLevelWarn, "config_dir_missing", "config directory does not exist yet", dir)
	} else if !fi.IsDir() {
		report.Add(DoctorIssueLevelError, "config_dir_not_dir", "config path is not a directory", dir)
		return report
	} else if err := probeWritable(dir); err != nil {
		report.Add(DoctorIssueLevelError, "config_dir_readonly", err.Error(), dir)
	}

	path := ConfigPath(dir)
	if b, err := os.ReadFile(path); err == nil {
		var raw map[string]any
		if err := json.Unmarshal(b, &raw); err != nil {
			report.Add(DoctorIssueLevelError, "config_invalid_json", err.Error(), path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		report.Add(DoctorIssueLevelError, "config_unreadable", err.Error(), path)
	}

	if u, err := url.Parse(strings.TrimSpace(cfg.BaseURL)); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		report.Add(DoctorIssueLevelError, "base_url_invalid", fmt.Sprintf("baseUrl %q is not an http(s) URL", cfg.BaseURL), "")
	}
	if strings.TrimSpace(cfg.CreatorMemberID) == "" {
		report.Add(DoctorIssueLevelWarn, "creator_missing", "creatorMemberId is empty; new projects get no default member", "")
	}

	sess, err := OpenSession(ctx, dir)
	if err != nil {
		report.Add(DoctorIssueLevelError, "session_unavailable", err.Error(), SessionPath(dir))
		return report
	}
	defer sess.Close()
	info, err := sess.Info(now)
	switch {
	case err != nil:
		report.Add(DoctorIssueLevelError, "session_unreadable", err.Error(), sess.Path())
	case !info.HasToken:
		report.Add(DoctorIssueLevelWarn, "token_missing", "no token stored; run `workboard login`", sess.Path())
	case info.Expired:
		report.Add(DoctorIssueLevelError, "token_expired", "stored token expired at "+info.ExpiresAt.Format(time.RFC3339), sess.Path())
	}
	return report
}

func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fmt.Errorf("config directory is not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}
