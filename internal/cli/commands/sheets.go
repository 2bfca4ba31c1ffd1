package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/openlift/blockload/internal/cli/config"
	"github.com/openlift/blockload/internal/parser"
	"github.com/openlift/blockload/internal/sheets"
)

// NewSheetsCommand creates the sheets command.
func NewSheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "List the spreadsheet's worksheets and how they will be treated",
		Long: `Fetch the worksheet titles of the configured spreadsheet and show which
ones the load command will treat as block sheets, which as the exercise
catalog, and which it will ignore. A preflight for operators.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			logger := config.LoggerFromContext(ctx)
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			sheetID, err := cfg.ResolveSheetID()
			if err != nil {
				return err
			}
			backoff, _ := cfg.Source.BackoffDuration()

			src, err := sheets.NewClient(ctx, sheets.Config{
				CredentialsFile: cfg.CredentialsFile,
				SpreadsheetID:   sheetID,
				Retries:         cfg.Source.Retries,
				Backoff:         backoff,
			}, logger)
			if err != nil {
				return err
			}

			titles, err := src.WorksheetTitles(ctx)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Worksheet", "Treated As"})
			for _, title := range titles {
				treatedAs := "ignored"
				if name, _, ok := parser.MatchBlockTitle(title); ok {
					treatedAs = name
				} else if parser.IsCatalogSheet(title) {
					treatedAs = "exercise catalog"
				}
				t.AppendRow(table.Row{title, treatedAs})
			}
			t.Render()
			return nil
		},
	}
}
