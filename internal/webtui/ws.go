package webtui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/gorilla/websocket"
)

// controlMsg is a JSON text frame sent by the browser. Anything else is keyboard input.
type controlMsg struct {
	Type string `json:"type"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin:     sameOrigin,
}

func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, strings.TrimSpace(r.Host))
}

const pingInterval = 30 * time.Second

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if n := s.active.Add(1); int(n) > s.cfg.MaxSessions {
		s.active.Add(-1)
		s.log.Warn().Int32("active", n-1).Msg("session limit reached")
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}
	defer s.active.Add(-1)

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ptmx, cmd, err := s.startPTYSession()
	if err != nil {
		s.log.Error().Err(err).Msg("start session")
		_ = conn.WriteMessage(websocket.TextMessage, []byte("failed to start session: "+err.Error()))
		return
	}
	started := time.Now()
	s.log.Info().Int("pid", cmd.Process.Pid).Str("remote", r.RemoteAddr).Msg("session started")

	var wg sync.WaitGroup
	errCh := make(chan error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		errCh <- keepAlive(ctx, conn, pingInterval)
	}()
	go func() {
		defer wg.Done()
		errCh <- pumpPTYToWS(ptmx, conn)
	}()
	go func() {
		defer wg.Done()
		errCh <- pumpWSToPTY(ctx, conn, ptmx)
	}()

	select {
	case <-ctx.Done():
	case <-errCh:
	}
	cancel()

	// Closing both ends unblocks whichever pump is still reading.
	_ = cmd.Process.Kill()
	_ = ptmx.Close()
	_ = conn.Close()
	wg.Wait()
	_, _ = cmd.Process.Wait()

	s.log.Info().Int("pid", cmd.Process.Pid).Dur("elapsed", time.Since(started)).Msg("session ended")
}

// sessionCommand is the argv for one browser tab.
func (s *Server) sessionCommand() ([]string, error) {
	if len(s.cfg.Command) > 0 {
		return s.cfg.Command, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	argv := []string{exe}
	if dir := strings.TrimSpace(s.cfg.ConfigDir); dir != "" {
		argv = append(argv, "--config-dir", dir)
	}
	if base := strings.TrimSpace(s.cfg.BaseURL); base != "" {
		argv = append(argv, "--base-url", base)
	}
	return argv, nil
}

func (s *Server) startPTYSession() (*os.File, *exec.Cmd, error) {
	argv, err := s.sessionCommand()
	if err != nil {
		return nil, nil, err
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: 120, Rows: 40})
	if err != nil {
		return nil, nil, err
	}
	return ptmx, cmd, nil
}

// keepAlive pings the browser so idle tabs survive proxies with idle timeouts.
// WriteControl is safe alongside the PTY writer.
func keepAlive(ctx context.Context, conn *websocket.Conn, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return err
			}
		}
	}
}

func pumpPTYToWS(ptmx *os.File, conn *websocket.Conn) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func pumpWSToPTY(ctx context.Context, conn *websocket.Conn, ptmx *os.File) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		mt, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if len(data) == 0 {
			continue
		}

		if mt == websocket.TextMessage && data[0] == '{' {
			var m controlMsg
			if jerr := json.Unmarshal(data, &m); jerr == nil {
				if strings.EqualFold(strings.TrimSpace(m.Type), "resize") && m.Cols > 0 && m.Rows > 0 {
					_ = pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(m.Cols), Rows: uint16(m.Rows)})
				}
				continue
			}
		}

		if _, err := ptmx.Write(data); err != nil {
			return err
		}
	}
}
