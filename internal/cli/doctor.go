package cli

import (
	"errors"
	"time"

	"workboard-cli/internal/api"
	"workboard-cli/internal/store"

	"github.com/spf13/cobra"
)

func newDoctorCmd(app *App) *cobra.Command {
	var (
		fail bool
		ping bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check config, session and (with --ping) backend reachability",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			report := store.Doctor(cmd.Context(), app.ConfigDir, app.cfg, time.Now())

			if ping {
				client, _, err := app.apiClient(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				if _, err := client.Companies(cmd.Context()); err != nil {
					code := "backend_unreachable"
					if errors.Is(err, api.ErrUnauthorized) {
						code = "token_rejected"
					}
					report.Add(store.DoctorIssueLevelError, code, err.Error(), app.cfg.BaseURL)
				}
			}
			app.log.Info().Int("issues", len(report.Issues)).Bool("ping", ping).Msg("doctor finished")

			if err := writeOut(cmd, app, map[string]any{
				"data": report,
				"meta": map[string]any{
					"issues":    len(report.Issues),
					"hasErrors": report.HasErrors(),
				},
			}); err != nil {
				return err
			}
			if fail && report.HasErrors() {
				return store.ErrDoctorIssuesFound
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	cmd.Flags().BoolVar(&ping, "ping", false, "Also list companies to prove the backend and token work")
	return cmd
}
