package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/openlift/blockload/internal/cli/config"
	"github.com/openlift/blockload/internal/store"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check integrity invariants of the loaded data",
		Long: `Run the integrity checks a correct load can never violate: contiguous
1-based set numbers per day-exercise, contiguous 1-based day numbers per
block, and no day-exercise without sets. Exits non-zero when violations are
found.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			logger := config.LoggerFromContext(ctx)
			if cfg == nil {
				return fmt.Errorf("configuration not loaded")
			}
			if cfg.DB.Name == "" || cfg.DB.User == "" {
				return fmt.Errorf("db.name and db.user are required")
			}

			st, err := store.Open(ctx, cfg.DB, logger)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			violations, err := st.Validate(ctx)
			if err != nil {
				return err
			}
			if len(violations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "all checks passed")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Check", "Detail"})
			for _, v := range violations {
				t.AppendRow(table.Row{v.Check, v.Detail})
			}
			t.Render()

			return fmt.Errorf("%d integrity violation(s) found", len(violations))
		},
	}
}
