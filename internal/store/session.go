package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "modernc.org/sqlite"
)

const (
	sessionFileName = "session.sqlite"
	tokenKey        = "token"
)

// Session is the sqlite-backed key/value store holding the bearer token.
type Session struct {
	path string
	db   *sql.DB
}

func SessionPath(dir string) string {
	return filepath.Join(dir, sessionFileName)
}

func OpenSession(ctx context.Context, dir string) (*Session, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("missing config dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	path := SessionPath(dir)
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL plus busy_timeout keeps the TUI and a concurrent CLI login from tripping over each other.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Session{path: path, db: db}, nil
}

func (s *Session) Path() string { return s.path }

func (s *Session) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Token returns the stored token, or "" when there is none.
func (s *Session) Token() (string, error) {
	return s.get(context.Background(), tokenKey)
}

func (s *Session) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	return s.put(context.Background(), tokenKey, token)
}

func (s *Session) ClearToken() error {
	_, err := s.db.ExecContext(context.Background(), `DELETE FROM kv WHERE k = ?`, tokenKey)
	return err
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Session) put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv(k, v, updated_at_unixms) VALUES(?, ?, ?)`,
		key, value, time.Now().UnixMilli(),
	)
	return err
}

// SessionInfo describes the stored token without verifying it.
type SessionInfo struct {
	HasToken  bool       `json:"hasToken"`
	Subject   string     `json:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
	// Opaque is set when the token is not a JWT.
	Opaque bool `json:"opaque,omitempty"`
}

func (s *Session) Info(now time.Time) (SessionInfo, error) {
	tok, err := s.Token()
	if err != nil {
		return SessionInfo{}, err
	}
	return DescribeToken(tok, now), nil
}

// DescribeToken reads the subject and expiry claims of a JWT. The signature is not checked;
// the backend is the only authority on validity.
func DescribeToken(token string, now time.Time) SessionInfo {
	token = strings.TrimSpace(token)
	if token == "" {
		return SessionInfo{}
	}
	info := SessionInfo{HasToken: true}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		info.Opaque = true
		return info
	}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
		info.Expired = !now.Before(t)
	}
	return info
}
