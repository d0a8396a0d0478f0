package cli

import (
	"bufio"
	"errors"
	"strings"
	"time"

	"workboard-cli/internal/store"

	"github.com/spf13/cobra"
)

func describeSession(token string) store.SessionInfo {
	return store.DescribeToken(token, time.Now())
}

func newLoginCmd(app *App) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token for backend requests",
		Example: strings.TrimSpace(`
  workboard login --token "$TOKEN"
  echo "$TOKEN" | workboard login
`),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			tok := strings.TrimSpace(token)
			if tok == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return writeErr(cmd, errors.New("missing token: pass --token or pipe it on stdin"))
				}
				tok = strings.TrimSpace(line)
			}
			if tok == "" {
				return writeErr(cmd, errors.New("missing token: pass --token or pipe it on stdin"))
			}

			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.SetToken(tok); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Msg("token stored")
			return writeOut(cmd, app, map[string]any{"data": describeSession(tok)})
		}),
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token (read from stdin when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := sess.ClearToken(); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Msg("token cleared")
			return writeOut(cmd, app, map[string]any{"data": describeSession("")})
		}),
	}
}

func newSessionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show whether a token is stored and when it expires",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			sess, err := app.openSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			info, err := sess.Info(time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": info,
				"meta": map[string]any{"path": sess.Path()},
			})
		}),
	}
}
