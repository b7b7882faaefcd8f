// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/projectmate/internal/util"
)

func newProjectsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "List and manage projects",
	}
	cmd.AddCommand(
		newProjectsListCmd(rt),
		newProjectsShowCmd(rt),
		newProjectsCreateCmd(rt),
		newProjectsUpdateCmd(rt),
		newProjectsDeleteCmd(rt),
		newProjectsRateCmd(rt),
		newProjectsLikeCmd(rt),
	)
	return cmd
}

func newProjectsListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.run(rt.app.Editor.ReloadProjects()); err != nil {
				return err
			}
			projects := rt.app.Caches.Projects.Items()
			return rt.emit("projects list", projects, func(w io.Writer) {
				if len(projects) == 0 {
					fmt.Fprintln(w, DimStyle.Render("No projects yet. Create one with: projectmate projects create --name NAME"))
					return
				}
				t := newTable("ID", "NAME", "RATING", "LIKES", "DESCRIPTION")
				for _, p := range projects {
					t.add(strconv.Itoa(p.ID), util.Preview(p.Name, 30),
						fmt.Sprintf("%.1f", p.AverageRating), strconv.Itoa(p.LikesCount),
						util.Preview(p.Description, 50))
				}
				t.render(w)
			})
		},
	}
}

func newProjectsShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			app := rt.app
			ctx, cancel := rt.ctx()
			defer cancel()
			p, err := app.Client.GetProject(ctx, id)
			if err != nil {
				return NewCommandError("projects", "show", err)
			}
			return rt.emit("projects show", p, func(w io.Writer) {
				fmt.Fprintln(w, TitleStyle.Render(p.Name))
				field(w, "ID", strconv.Itoa(p.ID))
				field(w, "Description", orDash(p.Description))
				field(w, "Features", orDash(strings.Join(p.MainFeatures, ", ")))
				field(w, "Agents", orDash(strings.Join(p.AIAgents, ", ")))
				field(w, "Rating", fmt.Sprintf("%.1f", p.AverageRating))
				field(w, "Likes", strconv.Itoa(p.LikesCount))
			})
		},
	}
}

func newProjectsCreateCmd(rt *runtime) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.app.Editor.CreateProject(name, description)
			if err != nil {
				return err
			}
			return rt.mutate("projects create", c)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&description, "description", "", "project description")
	return cmd
}

func newProjectsUpdateCmd(rt *runtime) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or re-describe a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			app := rt.app
			// Unchanged flags keep the stored values.
			if !cmd.Flags().Changed("name") || !cmd.Flags().Changed("description") {
				ctx, cancel := rt.ctx()
				p, err := app.Client.GetProject(ctx, id)
				cancel()
				if err != nil {
					return NewCommandError("projects", "update", err)
				}
				if !cmd.Flags().Changed("name") {
					name = p.Name
				}
				if !cmd.Flags().Changed("description") {
					description = p.Description
				}
			}
			c, err := app.Editor.UpdateProject(id, name, description)
			if err != nil {
				return err
			}
			return rt.mutate("projects update", c)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new project name")
	cmd.Flags().StringVar(&description, "description", "", "new project description")
	return cmd
}

func newProjectsDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and all its documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			app := rt.app
			if _, err := rt.run(app.Editor.ReloadProjects()); err != nil {
				return err
			}
			if err := app.Editor.RequestDeleteProject(id); err != nil {
				return err
			}
			return rt.confirmDelete("projects delete")
		},
	}
}

func newProjectsRateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <1-5>",
		Short: "Rate a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return NewValidationErrorWithExample("rating", args[1], "must be a number", "projectmate projects rate 3 5")
			}
			c, err := rt.app.Editor.RateProject(id, rating)
			if err != nil {
				return err
			}
			return rt.mutate("projects rate", c)
		},
	}
}

func newProjectsLikeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Toggle your like on a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			return rt.mutate("projects like", rt.app.Editor.LikeProject(id))
		},
	}
}

// confirmDelete asks about the deletion parked on the editor's gate and
// sends it once confirmed.
func (rt *runtime) confirmDelete(command string) error {
	editor := rt.app.Editor
	prompt, ok := editor.PendingDelete()
	if !ok {
		return nil
	}
	if err := rt.confirm(prompt); err != nil {
		editor.CancelDelete()
		return err
	}
	return rt.mutate(command, editor.ConfirmDelete())
}
