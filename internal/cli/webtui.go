package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"workboard-cli/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var (
		addr        string
		maxSessions int
	)

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Serve the dashboard in a browser terminal (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Serve the dashboard over the web via a server-side PTY and a browser terminal emulator.

Notes:
- No authentication; bind to localhost.
- Each browser tab starts its own dashboard subprocess sharing this config dir.
`),
		Example: strings.TrimSpace(`
  workboard webtui --addr 127.0.0.1:3334
`),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:        strings.TrimSpace(addr),
				ConfigDir:   app.ConfigDir,
				BaseURL:     app.cfg.BaseURL,
				MaxSessions: maxSessions,
				Logger:      app.log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			listenAddr := srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"configDir": app.ConfigDir,
					"baseUrl":   app.cfg.BaseURL,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"open http://" + listenAddr},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "workboard webtui running at http://%s\n", listenAddr)
			app.log.Info().Str("addr", listenAddr).Msg("webtui listening")

			hs := &http.Server{
				Addr:              listenAddr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return hs.ListenAndServe()
		}),
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3334", "Bind address (host:port or :port)")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", webtui.DefaultMaxSessions, "Concurrent browser sessions")
	return cmd
}
