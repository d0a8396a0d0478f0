package cli

import (
	"errors"
	"fmt"
	"strings"

	"workboard-cli/internal/api"
	"workboard-cli/internal/dashboard"

	"github.com/spf13/cobra"
)

func newCompaniesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Company commands",
	}
	cmd.AddCommand(newCompaniesListCmd(app))
	cmd.AddCommand(newCompaniesCreateCmd(app))
	return cmd
}

func newCompaniesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			client, _, err := app.apiClient(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			raw, err := client.Companies(cmd.Context())
			if err != nil {
				return writeErr(cmd, fmt.Errorf("list companies: %w", err))
			}
			items := dashboard.NormalizeCompanies(raw)
			return writeOut(cmd, app, map[string]any{
				"data": items,
				"meta": map[string]any{"count": len(items)},
			})
		}),
	}
}

func newCompaniesCreateCmd(app *App) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			in := api.CompanyInput{
				Name:        strings.TrimSpace(name),
				Description: strings.TrimSpace(description),
				UserID:      app.cfg.CreatorMemberID,
			}
			if in.Name == "" {
				return writeErr(cmd, errors.New("company name is required"))
			}
			client, _, err := app.apiClient(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			raw, err := client.CreateCompany(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("create company: %w", err))
			}
			return writeOut(cmd, app, map[string]any{"data": raw})
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Company name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
