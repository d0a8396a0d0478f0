package cli

import (
	"workboard-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration and where it lives",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{
				"data": app.cfg,
				"meta": map[string]any{
					"configDir":   app.ConfigDir,
					"configPath":  store.ConfigPath(app.ConfigDir),
					"sessionPath": store.SessionPath(app.ConfigDir),
					"logPath":     app.cfg.ResolvedLogPath(app.ConfigDir),
				},
			})
		}),
	})
	return cmd
}
