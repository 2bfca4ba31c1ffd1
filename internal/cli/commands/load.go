// Package commands implements the blockload subcommands.
package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/openlift/blockload/internal/cli/config"
	"github.com/openlift/blockload/internal/loader"
	"github.com/openlift/blockload/internal/parser"
	"github.com/openlift/blockload/internal/sheets"
	"github.com/openlift/blockload/internal/store"
)

// LoadOptions holds options for the load command.
type LoadOptions struct {
	DryRun bool
	Block  string
}

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	opts := &LoadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Import training blocks from the spreadsheet into Postgres",
		Long: `Fetch the configured spreadsheet, parse every block worksheet, and load
each block in its own transaction. A block whose name already exists in the
store fails with a duplicate-block error; delete the block to re-import it.

Block-scoped failures do not stop sibling blocks, but any failure makes the
process exit non-zero.`,
		Example: `  # Load every block worksheet
  blockload load

  # Parse and normalize without writing
  blockload load --dry-run

  # Load a single block
  blockload load --block "Block 7"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Parse and normalize without writing to the store")
	cmd.Flags().StringVar(&opts.Block, "block", "", "Restrict the run to one block name, e.g. \"Block 7\"")

	return cmd
}

func runLoad(cmd *cobra.Command, opts *LoadOptions) error {
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

	st, err := store.Open(ctx, cfg.DB, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ldr := loader.New(src, st, parser.New(cfg.DefaultBodyweight), logger)
	summary, err := ldr.Run(ctx, loader.Options{DryRun: opts.DryRun, Block: opts.Block})
	if err != nil {
		return err
	}

	renderSummary(cmd, summary, opts.DryRun)
	return summary.Err()
}

func renderSummary(cmd *cobra.Command, summary *loader.Summary, dryRun bool) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Block", "Sheet", "Days", "Exercises", "Sets", "Warnings", "Status"})

	for _, b := range summary.Blocks {
		status := "committed"
		days, exercises, sets := "-", "-", "-"
		switch {
		case b.Err != nil:
			status = "failed: " + b.Err.Error()
		case dryRun:
			status = "dry run"
		case b.Stats != nil:
			days = fmt.Sprint(b.Stats.Days)
			exercises = fmt.Sprintf("%d new / %d reused", b.Stats.ExercisesCreated, b.Stats.ExercisesReused)
			sets = fmt.Sprint(b.Stats.Sets)
		}
		t.AppendRow(table.Row{b.Name, b.Sheet, days, exercises, sets, b.Warnings, status})
	}
	t.Render()

	if failed := summary.Failed(); failed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d block(s) failed\n", failed, len(summary.Blocks))
	}
}
