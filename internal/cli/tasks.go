package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"workboard-cli/internal/api"
	"workboard-cli/internal/dashboard"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a project",
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			client, _, err := app.apiClient(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			raw, err := client.Tasks(cmd.Context(), strings.TrimSpace(projectID))
			if err != nil {
				return writeErr(cmd, fmt.Errorf("list tasks: %w", err))
			}
			items := dashboard.NormalizeTasks(raw)
			return writeOut(cmd, app, map[string]any{
				"data": items,
				"meta": map[string]any{"projectId": projectID, "count": len(items)},
			})
		}),
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var (
		projectID   string
		title       string
		description string
		eta         string
		assignee    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Example: strings.TrimSpace(`
  workboard tasks create --project 66f0c2 --title "Write docs"
  workboard tasks create --project 66f0c2 --title "Ship" --eta "2025-03-01 17:00" --assign alice
`),
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			in := api.TaskInput{
				Title:       strings.TrimSpace(title),
				Description: strings.TrimSpace(description),
				ProjectID:   strings.TrimSpace(projectID),
				AssignedTo:  strings.TrimSpace(assignee),
			}
			if in.Title == "" {
				return writeErr(cmd, errors.New("task title is required"))
			}
			ts, err := dashboard.ParseETA(eta, time.Local)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid --eta %q: want YYYY-MM-DD HH:MM or RFC 3339", eta))
			}
			in.ETA = ts

			client, _, err := app.apiClient(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			raw, err := client.CreateTask(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("create task: %w", err))
			}
			return writeOut(cmd, app, map[string]any{"data": raw})
		}),
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&eta, "eta", "", "Due time in local time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&assignee, "assign", "", "Assignee")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
