package main

import (
	"github.com/spf13/cobra"

	"scoresheet/ingestion/internal/app"
	"scoresheet/ingestion/internal/sheet"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the participant rows and matchup columns read from the sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		grid, err := app.NewGrid(ctx, cfg)
		if err != nil {
			return err
		}
		schema, err := sheet.ReadSchema(ctx, grid, app.Layout(cfg))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), schema)
	},
}

var unresolvedCmd = &cobra.Command{
	Use:   "unresolved",
	Short: "List predictions whose latest submission did not reach the sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.Entries.ListUnresolved(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), entries)
	},
}
