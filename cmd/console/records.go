package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tearaglass/godscruiseline/internal/console"
)

var (
	recordFilter console.RecordFilter
	recordSets   []string
	exportDir    string
	assumeYes    bool
)

// recordsCmd groups the record commands
var recordsCmd = &cobra.Command{
	Use:     "records",
	Aliases: []string{"record"},
	Short:   "List and edit records",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List records, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			err := s.ctrl.FetchRecords(ctx)
			s.ctrl.State.RecordFilter = recordFilter
			console.RenderRecords(cmd.OutOrStdout(), s.ctrl.State)
			return err
		})
	},
}

var recordsGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			r, err := s.ctrl.GetRecord(ctx, args[0])
			if err != nil {
				return err
			}
			console.RenderRecord(cmd.OutOrStdout(), r)
			return nil
		})
	},
}

var recordsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a record from --set key=value fields",
	Long: `Create a record. Fields are given as repeated --set key=value flags:

  console records create --set id=GC-R-200 --set title="Transit log" \
    --set division=access --set year=2026 --set status=public --set tags=a,b

author, tags and project are comma separated; archival_state,
archival_since and archival_note fill the archival block.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseSets(recordSets)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			form := s.ctrl.OpenNewRecord().Merge(sets)
			return s.ctrl.SubmitRecord(ctx, form)
		})
	},
}

var recordsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of an existing record",
	Long: `Load a record into the edit form, apply --set overrides and save.
The id cannot be changed; a --set id=... is ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseSets(recordSets)
		if err != nil {
			return err
		}
		return withSession(cmd, func(ctx context.Context, s *session) error {
			if err := s.ctrl.FetchRecords(ctx); err != nil {
				return err
			}
			form, err := s.ctrl.OpenEditRecord(args[0])
			if err != nil {
				return err
			}
			return s.ctrl.SubmitRecord(ctx, form.Merge(sets))
		})
	},
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a record after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			return confirmDelete(ctx, cmd, s.ctrl, console.KindRecord, args[0])
		})
	},
}

var recordsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered records to a dated JSON file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(ctx context.Context, s *session) error {
			if err := s.ctrl.FetchRecords(ctx); err != nil {
				return err
			}
			s.ctrl.State.RecordFilter = recordFilter
			path, err := s.ctrl.ExportRecords(ctx, exportDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{recordsListCmd, recordsExportCmd} {
		c.Flags().StringVar(&recordFilter.Division, "division", "", "Only records in this division")
		c.Flags().StringVar(&recordFilter.Status, "status", "", "Only records with this status")
		c.Flags().StringVar(&recordFilter.Search, "search", "", "Case-insensitive match on id or title")
	}
	for _, c := range []*cobra.Command{recordsCreateCmd, recordsEditCmd} {
		c.Flags().StringArrayVar(&recordSets, "set", nil, "Field as key=value (repeatable)")
	}
	recordsExportCmd.Flags().StringVar(&exportDir, "dir", ".", "Directory to write the export into")
	recordsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsGetCmd)
	recordsCmd.AddCommand(recordsCreateCmd)
	recordsCmd.AddCommand(recordsEditCmd)
	recordsCmd.AddCommand(recordsDeleteCmd)
	recordsCmd.AddCommand(recordsExportCmd)
}
