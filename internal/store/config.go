package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"workboard-cli/internal/model"

	"github.com/joho/godotenv"
)

const DefaultBaseURL = "https://signature-backend-bm3q.onrender.com/api/project-0"

type Config struct {
	// BaseURL is prefixed to every backend endpoint.
	BaseURL string `json:"baseUrl,omitempty"`

	// CreatorMemberID is sent as userId on company creation and prepended to project members.
	CreatorMemberID string `json:"creatorMemberId,omitempty"`

	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`

	// GetRetries is how many extra attempts an idempotent GET gets after a transport error.
	GetRetries *int `json:"getRetries,omitempty"`

	// BreakerFailures is the number of consecutive failures that opens the circuit.
	BreakerFailures        int `json:"breakerFailures,omitempty"`
	BreakerCooldownSeconds int `json:"breakerCooldownSeconds,omitempty"`

	// LogPath overrides <config-dir>/logs/workboard.log.
	LogPath string `json:"logPath,omitempty"`
	Debug   bool   `json:"debug,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// Theme forces "light" or "dark" styling; empty follows the terminal.
	Theme string `json:"theme,omitempty"`
}

func DefaultConfig() Config {
	retries := 2
	return Config{
		BaseURL:                DefaultBaseURL,
		CreatorMemberID:        model.DefaultCreatorMemberID,
		TimeoutSeconds:         30,
		GetRetries:             &retries,
		BreakerFailures:        5,
		BreakerCooldownSeconds: 10,
	}
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.workboard).
	if v := strings.TrimSpace(os.Getenv("WORKBOARD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".workboard"), nil
}

func ConfigPath(dir string) string {
	return filepath.Join(dir, "config.json")
}

// LoadConfig reads config.json from dir on top of the defaults. A missing file is not an error.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(ConfigPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	var fromFile Config
	if err := json.Unmarshal(b, &fromFile); err != nil {
		return cfg, err
	}
	cfg.merge(fromFile)
	return cfg, nil
}

// writeJSONAtomic writes v through a temp file in the same directory so readers
// never see a partial file.
func writeJSONAtomic(path string, v any, perm os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(append(b, '\n')); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// DotEnvPath is the .env file kept next to config.json.
func DotEnvPath(dir string) string {
	return filepath.Join(dir, ".env")
}

// LoadDotEnv loads the given .env files in order. Missing files are skipped and
// variables already present in the environment win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides cfg with WORKBOARD_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("WORKBOARD_BASE_URL")); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(getenv("WORKBOARD_CREATOR_ID")); v != "" {
		c.CreatorMemberID = v
	}
	if v := strings.TrimSpace(getenv("WORKBOARD_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.TimeoutSeconds = int(d.Seconds())
		} else if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
	if v := strings.TrimSpace(getenv("WORKBOARD_GET_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.GetRetries = &n
		}
	}
	if v := strings.TrimSpace(getenv("WORKBOARD_BREAKER_FAILURES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.BreakerFailures = n
		}
	}
	if v := strings.TrimSpace(getenv("WORKBOARD_LOG")); v != "" {
		c.LogPath = v
	}
	if v := strings.TrimSpace(getenv("WORKBOARD_DEBUG")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) Retries() int {
	if c.GetRetries == nil || *c.GetRetries < 0 {
		return 0
	}
	return *c.GetRetries
}

func (c Config) BreakerCooldown() time.Duration {
	if c.BreakerCooldownSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.BreakerCooldownSeconds) * time.Second
}

// ResolvedLogPath returns the log file location inside dir unless overridden.
func (c Config) ResolvedLogPath(dir string) string {
	if strings.TrimSpace(c.LogPath) != "" {
		return c.LogPath
	}
	return filepath.Join(dir, "logs", "workboard.log")
}

func (c *Config) merge(o Config) {
	if strings.TrimSpace(o.BaseURL) != "" {
		c.BaseURL = strings.TrimSpace(o.BaseURL)
	}
	if strings.TrimSpace(o.CreatorMemberID) != "" {
		c.CreatorMemberID = strings.TrimSpace(o.CreatorMemberID)
	}
	if o.TimeoutSeconds > 0 {
		c.TimeoutSeconds = o.TimeoutSeconds
	}
	if o.GetRetries != nil {
		c.GetRetries = o.GetRetries
	}
	if o.BreakerFailures > 0 {
		c.BreakerFailures = o.BreakerFailures
	}
	if o.BreakerCooldownSeconds > 0 {
		c.BreakerCooldownSeconds = o.BreakerCooldownSeconds
	}
	if strings.TrimSpace(o.LogPath) != "" {
		c.LogPath = o.LogPath
	}
	if o.Debug {
		c.Debug = true
	}
	if o.TUI != nil {
		c.TUI = o.TUI
	}
}
