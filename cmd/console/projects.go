package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tearaglass/godscruiseline/internal/console"
)

var (
	projectFilter console.ProjectFilter
	projectSets   []string
)

// projectsCmd groups the project commands
var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "List, edit and publish projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			err := s.ctrl.FetchProjects(ctx)
			s.ctrl.State.ProjectFilter = projectFilter
			console.RenderProjects(cmd.OutOrStdout(), s.ctrl.State)
			return err
		})
	},
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project from --set key=value fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseSets(projectSets)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return s.ctrl.SubmitProject(ctx, s.ctrl.OpenNewProject().Merge(sets))
		})
	},
}

var projectsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of an existing project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseSets(projectSets)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			if err := s.ctrl.FetchProjects(ctx); err != nil {
				return err
			}
			form, err := s.ctrl.OpenEditProject(args[0])
			if err != nil {
				return err
			}
			return s.ctrl.SubmitProject(ctx, form.Merge(sets))
		})
	},
}

var projectsPublishCmd = &cobra.Command{
	Use:   "publish ID",
	Short: "Create a record derived from a project",
	Long: `Pre-fill a record from the project (title, current year, status,
project reference and description) and create it. The record id has no
default and must be given with --set id=...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseSets(projectSets)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			if err := s.ctrl.FetchProjects(ctx); err != nil {
				return err
			}
			form, err := s.ctrl.OpenPublish(args[0])
			if err != nil {
				return err
			}
			return s.ctrl.SubmitPublish(ctx, form.Merge(sets))
		})
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a project after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return confirmDelete(ctx, cmd, s.ctrl, console.KindProject, args[0])
		})
	},
}

var projectsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered projects to a dated JSON file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			if err := s.ctrl.FetchProjects(ctx); err != nil {
				return err
			}
			s.ctrl.State.ProjectFilter = projectFilter
			path, err := s.ctrl.ExportProjects(ctx, exportDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

// confirmDelete is the two-step delete: the target is staged, then sent only
// once the operator agrees.
func confirmDelete(ctx context.Context, cmd *cobra.Command, ctrl *console.Controller, kind console.Kind, id string) error {
	ctrl.RequestDelete(kind, id)
	if !assumeYes {
		fmt.Fprintf(cmd.ErrOrStderr(), "Delete %s %s? [y/N] ", strings.ToLower(kind.Label()), id)
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
			ctrl.CloseModal()
			fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
			return nil
		}
	}
	return ctrl.ConfirmDelete(ctx)
}

func init() {
	for _, c := range []*cobra.Command{projectsListCmd, projectsExportCmd} {
		c.Flags().StringVar(&projectFilter.Status, "status", "", "Only projects with this status")
		c.Flags().StringVar(&projectFilter.Search, "search", "", "Case-insensitive match on id or name")
	}
	for _, c := range []*cobra.Command{projectsCreateCmd, projectsEditCmd, projectsPublishCmd} {
		c.Flags().StringArrayVar(&projectSets, "set", nil, "Field as key=value (repeatable)")
	}
	projectsExportCmd.Flags().StringVar(&exportDir, "dir", ".", "Directory to write the export into")
	projectsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsEditCmd)
	projectsCmd.AddCommand(projectsPublishCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	projectsCmd.AddCommand(projectsExportCmd)
}
