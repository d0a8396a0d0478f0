package cli

import (
	"errors"
	"fmt"
	"strings"

	"workboard-cli/internal/api"
	"workboard-cli/internal/dashboard"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsCreateCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var companyID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the projects of a company",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			client, _, err := app.apiClient(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			raw, err := client.Projects(cmd.Context(), strings.TrimSpace(companyID))
			if err != nil {
				return writeErr(cmd, fmt.Errorf("list projects: %w", err))
			}
			items := dashboard.NormalizeProjects(raw)
			return writeOut(cmd, app, map[string]any{
				"data": items,
				"meta": map[string]any{"companyId": companyID, "count": len(items)},
			})
		}),
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company id")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var (
		companyID   string
		name        string
		description string
		members     []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project; the configured creator is always the first member",
		Example: strings.TrimSpace(`
  workboard projects create --company 66f0c2 --name "Website" --member alice --member bob
`),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			in := api.ProjectInput{
				ProjectName:        strings.TrimSpace(name),
				ProjectDescription: strings.TrimSpace(description),
				CompanyID:          strings.TrimSpace(companyID),
				Members:            dashboard.ProjectMembers(app.cfg.CreatorMemberID, members),
			}
			if in.ProjectName == "" {
				return writeErr(cmd, errors.New("project name is required"))
			}
			if in.CompanyID == "" {
				return writeErr(cmd, errors.New("company id is required"))
			}
			client, _, err := app.apiClient(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			raw, err := client.CreateProject(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("create project: %w", err))
			}
			return writeOut(cmd, app, map[string]any{"data": raw})
		}),
	}

	cmd.Flags().StringVar(&companyID, "company", "", "Company id")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringArrayVar(&members, "member", nil, "Additional member id (repeatable)")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
