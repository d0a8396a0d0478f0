package webtui

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html static/*.css static/*.js
var assetsFS embed.FS

type ServerConfig struct {
	Addr string
	// ConfigDir and BaseURL are forwarded to every dashboard subprocess.
	ConfigDir string
	BaseURL   string
	// Command overrides the program started per browser tab. Defaults to this executable
	// with no subcommand, which opens the dashboard.
	Command []string
	// MaxSessions caps concurrent browser tabs; 0 means DefaultMaxSessions.
	MaxSessions int
	Logger      zerolog.Logger
}

const DefaultMaxSessions = 4

type Server struct {
	cfg    ServerConfig
	tmpl   *template.Template
	static fs.FS
	log    zerolog.Logger

	active atomic.Int32
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("webtui: missing addr")
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(assetsFS, "static")
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:    cfg,
		tmpl:   tmpl,
		static: static,
		log:    cfg.Logger.With().Str("component", "webtui").Logger(),
	}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terminal", http.StatusFound)
	})
	mux.HandleFunc("GET /terminal", s.handleTerminal)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":          true,
		"sessions":    s.active.Load(),
		"maxSessions": s.cfg.MaxSessions,
	})
}

type terminalVM struct {
	BaseURL   string
	ConfigDir string
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	vm := terminalVM{
		BaseURL:   strings.TrimSpace(s.cfg.BaseURL),
		ConfigDir: strings.TrimSpace(s.cfg.ConfigDir),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "terminal.html", vm); err != nil {
		s.log.Error().Err(err).Msg("render terminal page")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
